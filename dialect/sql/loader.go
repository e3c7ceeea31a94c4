package sql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/syssam/adminkit"
	"github.com/syssam/adminkit/dialect"
	"github.com/syssam/adminkit/graph"
	"github.com/syssam/adminkit/internal/logger"
	"github.com/syssam/adminkit/projection"
	"github.com/syssam/adminkit/schema"
)

// ErrRecordNotFound is returned by Load when no row has the requested key.
var ErrRecordNotFound = errors.New("adminkit: record not found")

// Loader reads records together with their relation payload: N:1 targets
// keyed by their alias and 1:N collections keyed by array name, stored under
// projection.RelationsKey. It is safe for concurrent use if its Querier is.
type Loader struct {
	q       Querier
	dialect string
	src     graph.Source
	depth   int

	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
}

// Option configures a Loader.
type Option func(*Loader)

// WithDepth bounds the nesting of N:1 payloads. At depth 0 records carry
// their 1:N collections only.
func WithDepth(depth int) Option {
	return func(l *Loader) {
		if depth >= 0 {
			l.depth = depth
		}
	}
}

// NewLoader returns a loader reading the tables of src through q.
func NewLoader(q Querier, name string, src graph.Source, opts ...Option) (*Loader, error) {
	if !dialect.Valid(name) {
		return nil, fmt.Errorf("dialect/sql: unsupported dialect %q", name)
	}
	if q == nil || src == nil {
		return nil, errors.New("dialect/sql: loader requires a querier and a relation source")
	}
	l := &Loader{
		q:             q,
		dialect:       name,
		src:           src,
		depth:         1,
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Dialect returns the dialect queries are written in.
func (l *Loader) Dialect() string {
	return l.dialect
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (l *Loader) QueryStats() *QueryStats {
	return l.stats
}

// Load reads the record of table whose primary key equals id. N:1 targets
// are nested up to the loader depth; records of 1:N collections carry their
// own N:1 targets one level deep when the depth is positive. A missing
// target is left out of the payload and a collection without records is an
// empty slice.
func (l *Loader) Load(ctx context.Context, table string, id any) (map[string]any, error) {
	t, ok := l.src.Schema().Table(table)
	if !ok {
		return nil, adminkit.NewUnknownTableError(table)
	}
	pk := t.PrimaryKey()
	if pk == nil {
		return nil, adminkit.NewSchemaIntegrityError(t.Name, "", "table has no primary key", nil)
	}
	rows, err := l.query(ctx, t, pk.Name, []any{id}, "")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s %v", ErrRecordNotFound, t.Name, id)
	}
	rec := rows[0]
	if err := l.attach(ctx, t, rec, l.depth, true); err != nil {
		return nil, err
	}
	logger.FromContext(ctx).WithFields(logrus.Fields{
		"table": t.Name,
		"id":    id,
	}).Debug("record loaded")
	return rec, nil
}

// LoadView is like Load but returns the record projected.
func (l *Loader) LoadView(ctx context.Context, table string, id any) (*projection.View, error) {
	rec, err := l.Load(ctx, table, id)
	if err != nil {
		return nil, err
	}
	return projection.Project(rec).(*projection.View), nil
}

// attach loads the relation payload of rec. A table declaring a column named
// like the container key keeps that column and gets no payload.
func (l *Loader) attach(ctx context.Context, t *schema.Table, rec map[string]any, depth int, collections bool) error {
	if _, ok := t.Field(projection.RelationsKey); ok {
		logger.FromContext(ctx).WithField("table", t.Name).
			Warn("column shadows the relation payload; relations are not loaded")
		return nil
	}
	rels, err := l.src.RelationsOf(t.Name)
	if err != nil {
		return err
	}
	payload := make(map[string]any, len(rels.N1)+len(rels.OneN))
	if depth > 0 {
		for _, n := range rels.N1 {
			v := rec[n.FieldName]
			if v == nil || n.ForeignKey == "" {
				continue
			}
			target, ok := l.src.Schema().Table(n.TargetTable)
			if !ok {
				return adminkit.NewUnknownTableError(n.TargetTable)
			}
			rows, err := l.query(ctx, target, n.ForeignKey, []any{v}, "")
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				continue
			}
			if err := l.attach(ctx, target, rows[0], depth-1, false); err != nil {
				return err
			}
			payload[n.As] = rows[0]
		}
	}
	if collections {
		for _, o := range rels.OneN {
			items, err := l.collection(ctx, t, rec, o, depth)
			if err != nil {
				return err
			}
			payload[o.ArrayName] = items
		}
	}
	rec[projection.RelationsKey] = payload
	return nil
}

// collection loads the records of a 1:N relation of rec, ordered by the
// related primary key. The N:1 targets of its records are read in batches.
func (l *Loader) collection(ctx context.Context, t *schema.Table, rec map[string]any, o *graph.OneNRelation, depth int) ([]any, error) {
	related, ok := l.src.Schema().Table(o.RelatedTable)
	if !ok {
		return nil, adminkit.NewUnknownTableError(o.RelatedTable)
	}
	key := o.ForeignKey
	if key == "" {
		if pk := t.PrimaryKey(); pk != nil {
			key = pk.Name
		}
	}
	items := []any{}
	v := rec[key]
	if key == "" || v == nil {
		return items, nil
	}
	var order string
	if pk := related.PrimaryKey(); pk != nil {
		order = pk.Name
	}
	rows, err := l.query(ctx, related, o.FieldName, []any{v}, order)
	if err != nil {
		return nil, err
	}
	if depth > 0 && len(rows) > 0 {
		if err := l.attachBatch(ctx, related, rows); err != nil {
			return nil, err
		}
	}
	for _, row := range rows {
		items = append(items, row)
	}
	return items, nil
}

// query selects the declared columns of t where column matches one of args.
func (l *Loader) query(ctx context.Context, t *schema.Table, column string, args []any, order string) (_ []map[string]any, rerr error) {
	if !t.HasFields() {
		return nil, adminkit.NewSchemaIntegrityError(t.Name, "", "missing fields mapping", nil)
	}
	if !isValidIdentifier(t.Name) {
		return nil, invalidIdentifier(t.Name, "")
	}
	columns := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		if !isValidIdentifier(f.Name) {
			return nil, invalidIdentifier(t.Name, f.Name)
		}
		columns = append(columns, f.Name)
	}
	if len(columns) == 0 {
		return nil, adminkit.NewSchemaIntegrityError(t.Name, "", "table declares no columns", nil)
	}
	query, args := selectQuery(l.dialect, t.Name, columns, column, args, order)

	start := time.Now()
	defer func() { l.record(ctx, query, args, start, rerr) }()

	rows, err := l.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: query %s: %w", t.Name, err)
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("dialect/sql: scan %s: %w", t.Name, err)
		}
		rec := make(map[string]any, len(columns))
		for i, f := range t.Fields {
			v, err := decode(f, values[i])
			if err != nil {
				return nil, adminkit.NewSchemaIntegrityError(t.Name, f.Name, "decode column", err)
			}
			rec[f.Name] = v
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dialect/sql: query %s: %w", t.Name, err)
	}
	return out, nil
}

// decode converts a scanned value into its template form: text for byte
// columns and parsed documents for json columns.
func decode(f *schema.Field, v any) (any, error) {
	var raw []byte
	switch v := v.(type) {
	case []byte:
		raw = v
	case string:
		if f.Type != schema.TypeJSON {
			return v, nil
		}
		raw = []byte(v)
	default:
		return v, nil
	}
	if f.Type != schema.TypeJSON {
		return string(raw), nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func invalidIdentifier(table, field string) error {
	return adminkit.NewSchemaIntegrityError(table, field, "invalid SQL identifier", nil)
}
