package testutil

import (
	"time"

	"github.com/alexanderramin/ticktrack/internal/domain"
	"github.com/google/uuid"
)

// EntryOption customizes a test entry.
type EntryOption func(*domain.TimeEntry)

// WithID fixes the entry id.
func WithID(id string) EntryOption {
	return func(e *domain.TimeEntry) {
		e.ID = id
	}
}

// Open leaves the entry running.
func Open() EntryOption {
	return func(e *domain.TimeEntry) {
		e.EndTime = nil
	}
}

// NewTestEntry builds a closed entry for task lasting d from start.
func NewTestEntry(task string, start time.Time, d time.Duration, opts ...EntryOption) domain.TimeEntry {
	end := start.Add(d)
	e := domain.TimeEntry{
		ID:        uuid.NewString(),
		Task:      task,
		StartTime: start,
		EndTime:   &end,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
