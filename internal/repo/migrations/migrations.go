// Package migrations holds the goose schema for the SQL timeline stores.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// goose keeps dialect and base FS in package globals.
var mu sync.Mutex

// Up applies every pending migration for dialect ("postgres" or "sqlite3").
func Up(ctx context.Context, db *sql.DB, dialect string) error {
	dir := "postgres"
	if dialect == "sqlite3" {
		dir = "sqlite"
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(files)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
