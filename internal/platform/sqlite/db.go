// Package sqlite implements the store interfaces on top of SQLite.
package sqlite

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens (creating if necessary) the SQLite database at path and
// verifies connectivity. Foreign key enforcement is switched on for every
// connection. Pass ":memory:" for a throwaway in-process database.
//
// The pool is capped at a single connection: SQLite serializes writers
// anyway, and a second connection to a ":memory:" database would see a
// different, empty database.
func Open(path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", path)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database at %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// MigrateUp applies any pending schema migrations from the embedded
// migration files. It is idempotent and safe to call on every startup.
func MigrateUp(db *sqlx.DB) error {
	goose.SetLogger(&gooseLogger{})
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// gooseLogger adapts goose's logging to slog.
type gooseLogger struct{}

func (*gooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
	os.Exit(1)
}

func (*gooseLogger) Printf(format string, v ...interface{}) {
	slog.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
}
