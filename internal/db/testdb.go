package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns a fresh in-memory database with the schema applied,
// closed automatically when the test finishes. The pool is limited to a
// single connection because each plain in-memory connection would otherwise
// see its own empty database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", DSN(":memory:"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		db.Close()
		t.Fatalf("preparing test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
