package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/smartflash/internal/store"
)

// PostgreSQL error codes
const (
	// undefinedTableCode is returned when the slots table is missing.
	undefinedTableCode = "42P01"

	// connectionExceptionClass prefixes every connection-level error code.
	connectionExceptionClass = "08"
)

// ErrSchemaMissing is returned when the slots table does not exist.
var ErrSchemaMissing = errors.New("database schema is missing; migrations have not been applied")

// ErrConnection is returned when the database connection failed.
var ErrConnection = errors.New("database connection failed")

// MapError maps a database error to an appropriate store or package error.
// It wraps the original error to preserve context and provide better debugging information.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrSlotEmpty, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == undefinedTableCode:
			return fmt.Errorf("%w: %v", ErrSchemaMissing, err)
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == connectionExceptionClass:
			return fmt.Errorf("%w: %v", ErrConnection, err)
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	// Return the original error for errors that don't have specific mappings
	return err
}
