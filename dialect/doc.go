// Package dialect names the SQL dialects adminkit can load records from.
//
// # Supported Dialects
//
//   - Postgres: PostgreSQL, through github.com/lib/pq
//   - MySQL: MySQL/MariaDB, through github.com/go-sql-driver/mysql
//   - SQLite: SQLite, through modernc.org/sqlite
//
// Each dialect is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Usage
//
//	import (
//	    "github.com/syssam/adminkit/dialect"
//	    "github.com/syssam/adminkit/dialect/sql"
//	)
//
//	db, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	ld, err := sql.NewLoader(db, dialect.Postgres, graph.New(s))
//
// # Sub-packages
//
//   - dialect/sql: record loading with relation payloads
package dialect
