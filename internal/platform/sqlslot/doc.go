// Package sqlslot stores the serialized deck collection in a SQL table.
//
// Each slot is one row of the slots table, keyed by name. The schema is
// managed by goose migrations embedded in this package, with one migration
// set per dialect. The sqlite and postgres packages open a connection and
// hand it to New.
package sqlslot
