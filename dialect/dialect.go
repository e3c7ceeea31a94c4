package dialect

// Dialect names.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Dialects lists the supported dialects.
var Dialects = []string{Postgres, MySQL, SQLite}

// Valid reports whether name is a supported dialect.
func Valid(name string) bool {
	for _, d := range Dialects {
		if d == name {
			return true
		}
	}
	return false
}
