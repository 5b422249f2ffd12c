package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/ticktrack/internal/domain"
)

// MemoryStore is an in-memory store.EntryStore that records how often it
// was written.
type MemoryStore struct {
	mu      sync.Mutex
	entries []domain.TimeEntry
	saves   int

	// LoadErr and SaveErr, when set, are returned instead of doing the work.
	LoadErr error
	SaveErr error
}

// NewMemoryStore seeds a store with entries.
func NewMemoryStore(entries ...domain.TimeEntry) *MemoryStore {
	return &MemoryStore{entries: domain.CloneEntries(entries)}
}

func (m *MemoryStore) Load(context.Context) ([]domain.TimeEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	out := domain.CloneEntries(m.entries)
	if out == nil {
		out = []domain.TimeEntry{}
	}
	return out, nil
}

func (m *MemoryStore) Save(_ context.Context, entries []domain.TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.entries = domain.CloneEntries(entries)
	m.saves++
	return nil
}

// Saves returns the number of successful Save calls.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Stored returns a copy of what was last saved.
func (m *MemoryStore) Stored() []domain.TimeEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CloneEntries(m.entries)
}
