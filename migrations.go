package notes

import (
	"embed"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded SQL migrations creating the notes
// table. The statements run unchanged on SQLite and Postgres.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
