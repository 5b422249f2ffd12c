package ticker

import (
	"sync"
	"time"
)

// Manual is a Factory whose tasks only run when Fire is called.
type Manual struct {
	mu      sync.Mutex
	nextID  int
	active  map[int]func()
	created int
}

// NewManual creates an empty Manual factory.
func NewManual() *Manual {
	return &Manual{active: make(map[int]func())}
}

func (m *Manual) Every(_ time.Duration, fn func()) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.created++
	m.active[id] = fn
	return &manualHandle{owner: m, id: id}, nil
}

// Fire runs every active task once, in creation order.
func (m *Manual) Fire() {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.active))
	for id := 0; id < m.nextID; id++ {
		if fn, ok := m.active[id]; ok {
			fns = append(fns, fn)
		}
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Active returns the number of tasks not yet cancelled.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Created returns how many tasks were ever scheduled.
func (m *Manual) Created() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created
}

type manualHandle struct {
	owner *Manual
	id    int
}

func (h *manualHandle) Cancel() {
	h.owner.mu.Lock()
	delete(h.owner.active, h.id)
	h.owner.mu.Unlock()
}
