package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// kv_slots holds whole serialized values addressed by a fixed key. The
// tracker keeps its entire entry sequence in one row.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv_slots (
		slot_key   TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}
