package projection

import (
	"sort"
)

// RelationsKey is the default reserved container key of the relation payload.
const RelationsKey = "relations"

// Option configures a Projector.
type Option func(*Projector)

// WithContainerKey sets the reserved container key.
func WithContainerKey(key string) Option {
	return func(p *Projector) {
		if key != "" {
			p.key = key
		}
	}
}

// Projector wraps records in views. The zero value is not usable; use New.
type Projector struct {
	key string
}

// New returns a projector using RelationsKey unless configured otherwise.
func New(opts ...Option) *Projector {
	p := &Projector{key: RelationsKey}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ContainerKey returns the reserved container key.
func (p *Projector) ContainerKey() string {
	return p.key
}

var std = New()

// Project wraps v using RelationsKey. See Projector.Project.
func Project(v any) any {
	return std.Project(v)
}

// Project wraps a record in a *View and a slice of records in a slice of
// projected elements. Views are returned as is and any other value, nil
// included, is returned unchanged.
func (p *Projector) Project(v any) any {
	switch v := v.(type) {
	case *View:
		return v
	case map[string]any:
		return &View{record: v, p: p}
	case []map[string]any:
		out := make([]any, len(v))
		for i, r := range v {
			out[i] = p.Project(r)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = p.Project(e)
		}
		return out
	default:
		return v
	}
}

// View is a read-only view over one record. It is safe for concurrent reads
// as long as the wrapped record is not modified.
type View struct {
	record map[string]any
	p      *Projector
}

// Record returns the wrapped record. It is not a copy.
func (v *View) Record() map[string]any {
	return v.record
}

// payload returns the relation payload of the record, or nil when there is
// none or the container key holds a scalar.
func (v *View) payload() map[string]any {
	switch c := v.record[v.p.key].(type) {
	case map[string]any:
		return c
	case *View:
		return c.record
	default:
		return nil
	}
}

// shadowed reports whether the container key holds a plain value that takes
// precedence over the relation payload.
func (v *View) shadowed() bool {
	c, ok := v.record[v.p.key]
	if !ok || c == nil {
		return false
	}
	return v.payload() == nil
}

// Get returns the value of key: the record's own field, else the projected
// relation payload entry. The container key itself resolves to its scalar
// value when it holds one.
func (v *View) Get(key string) (any, bool) {
	if key == v.p.key {
		if v.shadowed() {
			return v.record[key], true
		}
	} else if val, ok := v.record[key]; ok {
		return val, true
	}
	if val, ok := v.payload()[key]; ok {
		return v.p.Project(val), true
	}
	return nil, false
}

// Has reports whether Get would find key.
func (v *View) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Keys returns the record's own keys followed by the relation payload keys
// they do not already contain. Each group is sorted. The container key is
// listed only when it holds a scalar.
func (v *View) Keys() []string {
	keys := make([]string, 0, len(v.record))
	seen := make(map[string]struct{}, len(v.record))
	for k := range v.record {
		if k == v.p.key && !v.shadowed() {
			continue
		}
		keys = append(keys, k)
		seen[k] = struct{}{}
	}
	sort.Strings(keys)

	payload := v.payload()
	extra := make([]string, 0, len(payload))
	for k := range payload {
		if _, ok := seen[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// Len returns the number of keys.
func (v *View) Len() int {
	return len(v.Keys())
}
