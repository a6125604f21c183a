// Package store provides row-level repositories over the SQLite schema.
// Repositories bind to a Querier, so the same code runs against the plain
// connection or inside an engine transaction.
package store

import (
	"database/sql"
	"errors"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")

	// ErrAmbiguousMatch is returned when a heuristic lookup matches more
	// than one record.
	ErrAmbiguousMatch = errors.New("ambiguous match")

	// ErrCategoryInUse is returned when deleting a category that
	// transactions still reference.
	ErrCategoryInUse = errors.New("category is referenced by transactions")
)

// Querier is the subset of database/sql shared by *sql.DB, *sql.Tx and
// db.Connection.
type Querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// nullStr converts an optional string to its SQL representation.
func nullStr(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// strPtr converts a scanned nullable string back to an optional string.
func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// nullInt converts an optional int to its SQL representation.
func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

// intPtr converts a scanned nullable integer back to an optional int.
func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	n := int(ni.Int64)
	return &n
}
