// Package sql loads records and their relation payload from SQL databases.
//
// A Loader reads one record by primary key and attaches the records it is
// related to, following the relation graph of the schema:
//
//	db, err := sql.Open(dialect.Postgres, dsn)
//	if err != nil {
//	    return err
//	}
//	ld, err := sql.NewLoader(db, dialect.Postgres, graph.NewMemo(graph.New(s)),
//	    sql.WithDepth(2),
//	    sql.WithSlowQueryLog(),
//	)
//	v, err := ld.LoadView(ctx, "Organization", 1)
//	members, _ := v.Get("member")
//
// # Queries
//
// Every relation is read with a single-table SELECT of the declared columns.
// Identifiers are quoted for the dialect and must match
// [a-zA-Z_][a-zA-Z0-9_.]*; arguments are always bound.
//
//	PostgreSQL: SELECT "id", "name" FROM "Organization" WHERE "id" = $1
//	MySQL:      SELECT `id`, `name` FROM `Organization` WHERE `id` = ?
//	SQLite:     SELECT "id", "name" FROM "Organization" WHERE "id" = ?
//
// Records of a collection share one query per N:1 relation, matching all
// their keys with IN:
//
//	SELECT "id", "firstName" FROM "Person" WHERE "id" IN ($1, $2)
//
// Columns of type json are decoded into maps and slices; other byte columns
// are returned as text.
//
// # Statistics
//
// Loaders count queries, errors and slow queries; see QueryStats and
// WithSlowQueryHook.
package sql
