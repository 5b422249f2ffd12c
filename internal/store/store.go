// Package store persists the tracker's entry sequence in a single
// key-value slot. Every backend replaces the slot wholesale on Save.
package store

import (
	"context"

	"github.com/alexanderramin/ticktrack/internal/domain"
)

// DefaultSlotKey is the key the entry sequence is stored under.
const DefaultSlotKey = "timeEntries"

// EntryStore loads and replaces the whole entry sequence.
type EntryStore interface {
	Load(ctx context.Context) ([]domain.TimeEntry, error)
	Save(ctx context.Context, entries []domain.TimeEntry) error
}

// Backend names accepted by configuration.
const (
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
	BackendFile   = "file"
)
