// Package store is the data access layer for acquired case records: a
// normalized SQLite store for query access plus a portable JSON snapshot
// regenerated from it.
package store

import "database/sql"

// Store wraps the campaign database.
type Store struct {
	DB *sql.DB
}

// NewStore creates a Store from an already-opened database connection.
// The caller owns the connection; see dbopen.Open.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}
