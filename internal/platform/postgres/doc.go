// Package postgres opens a deck slot stored in PostgreSQL.
//
// The connection goes through the pgx database/sql driver, so the slot itself
// is the shared sqlslot implementation; this package owns connection pooling
// and the translation of PostgreSQL errors into store errors.
package postgres
