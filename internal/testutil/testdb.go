package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/ticktrack/internal/db"
	"github.com/alexanderramin/ticktrack/internal/store"
)

// NewTestDB creates a migrated in-memory SQLite database that is closed when
// the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestSQLiteStore returns a slot store on a fresh in-memory database.
func NewTestSQLiteStore(t *testing.T) *store.SQLStore {
	t.Helper()
	return store.NewSQLiteStore(NewTestDB(t), store.DefaultSlotKey)
}
