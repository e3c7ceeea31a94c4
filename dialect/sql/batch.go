package sql

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/adminkit"
	"github.com/syssam/adminkit/projection"
	"github.com/syssam/adminkit/schema"
)

// errNotLoaded marks a key without a loaded record in a batch result.
var errNotLoaded = errors.New("dialect/sql: record not loaded")

// keyFunc extracts a key from a value.
type keyFunc[K comparable, V any] func(V) K

// orderByKeys reorders values to match the order of the requested keys.
// Missing values are represented as zero values with corresponding errors.
func orderByKeys[K comparable, V any](keys []K, values []V, keyFn keyFunc[K, V]) ([]V, []error) {
	lookup := make(map[K]V, len(values))
	for _, v := range values {
		lookup[keyFn(v)] = v
	}
	result := make([]V, len(keys))
	errs := make([]error, len(keys))
	for i, key := range keys {
		if v, ok := lookup[key]; ok {
			result[i] = v
		} else {
			errs[i] = errNotLoaded
		}
	}
	return result, errs
}

// batchKey normalizes a column value for matching rows across queries.
// Drivers may scan the same key into different integer widths.
func batchKey(v any) string {
	return fmt.Sprint(v)
}

// attachBatch attaches the N:1 targets of rows, all of table t, reading each
// relation with a single query. Targets carry no payload of their own.
func (l *Loader) attachBatch(ctx context.Context, t *schema.Table, rows []map[string]any) error {
	if _, ok := t.Field(projection.RelationsKey); ok {
		return nil
	}
	rels, err := l.src.RelationsOf(t.Name)
	if err != nil {
		return err
	}
	payloads := make([]map[string]any, len(rows))
	for i := range rows {
		payloads[i] = make(map[string]any, len(rels.N1))
	}
	for _, n := range rels.N1 {
		if n.ForeignKey == "" {
			continue
		}
		target, ok := l.src.Schema().Table(n.TargetTable)
		if !ok {
			return adminkit.NewUnknownTableError(n.TargetTable)
		}
		var (
			args    []any
			keys    = make([]string, len(rows))
			present = make([]bool, len(rows))
			seen    = make(map[string]struct{})
		)
		for i, row := range rows {
			v := row[n.FieldName]
			if v == nil {
				continue
			}
			k := batchKey(v)
			keys[i], present[i] = k, true
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				args = append(args, v)
			}
		}
		if len(args) == 0 {
			continue
		}
		targets, err := l.query(ctx, target, n.ForeignKey, args, "")
		if err != nil {
			return err
		}
		for _, rec := range targets {
			if err := l.attach(ctx, target, rec, 0, false); err != nil {
				return err
			}
		}
		ordered, errs := orderByKeys(keys, targets, func(rec map[string]any) string {
			return batchKey(rec[n.ForeignKey])
		})
		for i := range rows {
			if !present[i] || errs[i] != nil {
				continue
			}
			payloads[i][n.As] = ordered[i]
		}
	}
	for i, row := range rows {
		row[projection.RelationsKey] = payloads[i]
	}
	return nil
}
