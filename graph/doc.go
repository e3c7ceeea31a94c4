// Package graph derives the relation graph of a schema snapshot.
//
// For a table T the graph answers two questions:
//
//   - N1: which fields of T are foreign keys, and what do they point to.
//   - OneN: which fields of other tables point to T, exposed on T's records as
//     collections named by the field's ArrayName (default: the lower-cased
//     source table name plus "s").
//
// Both are pure functions of the whole schema:
//
//	g := graph.New(s)
//	rels, err := g.RelationsOf("Organization")
//	if err != nil {
//	    // adminkit.ErrUnknownTable or adminkit.ErrSchemaIntegrity
//	}
//	for _, r := range rels.OneN {
//	    fmt.Println(r.ArrayName, r.RelatedTable, r.FieldName)
//	}
//
// Deriving OneN scans every field of every table, so callers that ask
// repeatedly should wrap the graph in a Memo.
//
// # Array name collisions
//
// When two fields map to the same array name on T the last one in declaration
// order wins, keeping the position of the first. This is a schema authoring
// defect that is deliberately not reported as an error.
package graph
