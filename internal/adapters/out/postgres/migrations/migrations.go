// Package migrations embeds the PostgreSQL schema and applies it with
// sql-migrate.
package migrations

import (
	"database/sql"
	"embed"

	// registers the "postgres" database/sql driver used by Open
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed sql/*.sql
var files embed.FS

const tableName = "schema_migrations"

func source() migrate.MigrationSource {
	return migrate.EmbedFileSystemMigrationSource{
		FileSystem: files,
		Root:       "sql",
	}
}

// Open connects to dsn with the lib/pq driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Up applies every pending migration and returns how many ran.
func Up(db *sql.DB) (int, error) {
	migrate.SetTable(tableName)
	return migrate.Exec(db, "postgres", source(), migrate.Up)
}

// Down rolls back at most steps migrations; 0 means all of them.
func Down(db *sql.DB, steps int) (int, error) {
	migrate.SetTable(tableName)
	return migrate.ExecMax(db, "postgres", source(), migrate.Down, steps)
}

// Pending lists the migrations not yet applied.
func Pending(db *sql.DB) ([]string, error) {
	migrate.SetTable(tableName)
	planned, _, err := migrate.PlanMigration(db, "postgres", source(), migrate.Up, 0)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(planned))
	for _, m := range planned {
		ids = append(ids, m.Id)
	}
	return ids, nil
}
