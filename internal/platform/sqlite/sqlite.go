// Package sqlite opens a deck slot stored in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phrazzld/smartflash/internal/platform/sqlslot"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// Open opens (creating if needed) the database file at path, applies
// migrations and returns the slot called name.
func Open(ctx context.Context, path, name string, logger *slog.Logger) (*sqlslot.Slot, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := sqlslot.Migrate(ctx, db, sqlslot.DialectSQLite, logger); err != nil {
		db.Close()
		return nil, err
	}

	slot, err := sqlslot.New(db, sqlslot.DialectSQLite, name, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return slot, nil
}
