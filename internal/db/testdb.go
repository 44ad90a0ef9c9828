package db

import (
	"context"
	"database/sql"
	"testing"
)

// NewTestDB creates a fresh in-memory SQLite database migrated to CurrentVersion.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
