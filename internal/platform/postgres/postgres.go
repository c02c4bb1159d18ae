package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Registers the pgx driver
	"github.com/phrazzld/smartflash/internal/platform/sqlslot"
)

// Open connects to the database at databaseURL, applies migrations and
// returns the slot called name.
func Open(ctx context.Context, databaseURL, name string, logger *slog.Logger) (*sqlslot.Slot, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool with reasonable defaults
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", MapError(err))
	}

	if err := sqlslot.Migrate(ctx, db, sqlslot.DialectPostgres, logger); err != nil {
		db.Close()
		return nil, err
	}

	slot, err := sqlslot.New(db, sqlslot.DialectPostgres, name, logger, sqlslot.WithErrorMapper(MapError))
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database connection established", "url", MaskDatabaseURL(databaseURL))
	return slot, nil
}

// MaskDatabaseURL masks the password in a database URL for safe logging.
func MaskDatabaseURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}

	if parsedURL.User != nil {
		if _, hasPassword := parsedURL.User.Password(); hasPassword {
			parsedURL.User = url.UserPassword(parsedURL.User.Username(), "****")
		}
		return parsedURL.String()
	}

	return dbURL
}
