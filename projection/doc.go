// Package projection exposes the relation payload of a loaded record as if
// its entries were fields of the record itself.
//
// A loaded record is a map of column values plus one reserved container key,
// RelationsKey, holding the resolved relations by name: N:1 targets as nested
// records and 1:N collections as slices of records.
//
//	v := projection.Project(map[string]any{
//	    "id":   1,
//	    "name": "A",
//	    "relations": map[string]any{
//	        "tracks": []any{map[string]any{"id": 10, "title": "T1"}},
//	    },
//	})
//	tracks, _ := v.(*projection.View).Get("tracks")
//
// Views never copy or mutate the wrapped record. Nested payload values are
// wrapped on every read, so only what is traversed is ever projected.
//
// # Container key collisions
//
// A record whose container key holds a scalar, such as a text column that
// happens to be called "relations", keeps that scalar and exposes no relation
// payload at all. Rename the column to traverse relations of such records.
package projection
