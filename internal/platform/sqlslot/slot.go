package sqlslot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/smartflash/internal/store"
)

// Dialect selects the SQL flavour used for queries and migrations.
type Dialect string

const (
	// DialectSQLite targets modernc.org/sqlite.
	DialectSQLite Dialect = "sqlite"

	// DialectPostgres targets PostgreSQL through pgx.
	DialectPostgres Dialect = "postgres"
)

func (d Dialect) dir() string {
	return string(d)
}

func (d Dialect) gooseDialect() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// Slot implements store.Slot on top of a *sql.DB.
type Slot struct {
	db       *sql.DB
	name     string
	dialect  Dialect
	mapError func(error) error
	logger   *slog.Logger
}

// Option configures a Slot.
type Option func(*Slot)

// WithErrorMapper installs a driver-specific error translation applied to
// every query error.
func WithErrorMapper(fn func(error) error) Option {
	return func(s *Slot) { s.mapError = fn }
}

// New creates a Slot named name on db. The Slot takes ownership of db and
// closes it in Close. Migrations must already have been applied.
func New(db *sql.DB, dialect Dialect, name string, logger *slog.Logger, opts ...Option) (*Slot, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("slot name cannot be empty")
	}
	if dialect != DialectSQLite && dialect != DialectPostgres {
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Slot{
		db:       db,
		name:     name,
		dialect:  dialect,
		mapError: func(err error) error { return err },
		logger:   logger.With("component", "sql_slot", "slot", name),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Slot) readQuery() string {
	if s.dialect == DialectSQLite {
		return `SELECT value FROM slots WHERE name = ?`
	}
	return `SELECT value FROM slots WHERE name = $1`
}

func (s *Slot) writeQuery() string {
	if s.dialect == DialectSQLite {
		return `INSERT INTO slots (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	}
	return `INSERT INTO slots (name, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
}

// Read implements store.Slot.
func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.readQuery(), s.name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read slot %s: %w", s.name, s.mapError(err))
	}
	return []byte(value), nil
}

// Write implements store.Slot.
func (s *Slot) Write(ctx context.Context, data []byte) error {
	if _, err := s.db.ExecContext(ctx, s.writeQuery(), s.name, string(data)); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", s.name, s.mapError(err))
	}
	s.logger.DebugContext(ctx, "slot written", "bytes", len(data))
	return nil
}

// Close implements store.Slot.
func (s *Slot) Close() error {
	return s.db.Close()
}
