package sql

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	// Database drivers for the supported dialects.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/adminkit/dialect"
)

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores, dots for schema.name)
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// driverNames maps dialects to the database/sql driver they register.
var driverNames = map[string]string{
	dialect.Postgres: "postgres",
	dialect.MySQL:    "mysql",
	dialect.SQLite:   "sqlite",
}

// Open opens a database of the given dialect. The returned handle is what
// NewLoader expects.
func Open(name, source string) (*sql.DB, error) {
	drv, ok := driverNames[name]
	if !ok {
		return nil, fmt.Errorf("dialect/sql: unsupported dialect %q", name)
	}
	db, err := sql.Open(drv, source)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: open %s: %w", name, err)
	}
	return db, nil
}

// Querier wraps the standard QueryContext method. It is implemented by
// *sql.DB, *sql.Tx and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// builder writes dialect specific SQL.
type builder struct {
	dialect string
	sb      strings.Builder
	args    []any
}

func newBuilder(dialect string) *builder {
	return &builder{dialect: dialect}
}

// Ident quotes an identifier. Dotted identifiers are quoted per part.
func (b *builder) Ident(s string) *builder {
	for i, part := range strings.Split(s, ".") {
		if i > 0 {
			b.sb.WriteByte('.')
		}
		if b.dialect == dialect.MySQL {
			b.sb.WriteString("`" + part + "`")
		} else {
			b.sb.WriteString(`"` + part + `"`)
		}
	}
	return b
}

// Arg writes a placeholder and records its argument.
func (b *builder) Arg(v any) *builder {
	b.args = append(b.args, v)
	if b.dialect == dialect.Postgres {
		b.sb.WriteString("$" + strconv.Itoa(len(b.args)))
	} else {
		b.sb.WriteByte('?')
	}
	return b
}

// WriteString writes raw SQL.
func (b *builder) WriteString(s string) *builder {
	b.sb.WriteString(s)
	return b
}

// Query returns the statement and its arguments.
func (b *builder) Query() (string, []any) {
	return b.sb.String(), b.args
}

// selectQuery builds SELECT columns FROM table WHERE where = arg [ORDER BY order].
// More than one argument is matched with IN.
func selectQuery(dialect, table string, columns []string, where string, args []any, order string) (string, []any) {
	b := newBuilder(dialect).WriteString("SELECT ")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.Ident(c)
	}
	b.WriteString(" FROM ").Ident(table).
		WriteString(" WHERE ").Ident(where)
	if len(args) == 1 {
		b.WriteString(" = ").Arg(args[0])
	} else {
		b.WriteString(" IN (")
		for i, arg := range args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.Arg(arg)
		}
		b.WriteString(")")
	}
	if order != "" {
		b.WriteString(" ORDER BY ").Ident(order)
	}
	return b.Query()
}
