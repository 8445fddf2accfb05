// Package memory provides a quota-bounded in-memory Medium.
//
// It imitates a browser's per-origin key-value storage: a small fixed byte
// capacity shared by all slots, with writes failing once the quota is
// exhausted. It doubles as the injectable fake for tests.
package memory

import (
	"sync"

	"github.com/doneflow/doneflow/pkg/core"
)

// Medium keeps everything in memory. Data is lost on restart.
// Safe for concurrent use.
type Medium struct {
	mu       sync.RWMutex
	capacity int
	used     int
	slots    map[string][]byte
}

// New creates a medium with the given byte capacity. capacity <= 0 means
// unbounded.
func New(capacity int) *Medium {
	return &Medium{
		capacity: capacity,
		slots:    make(map[string][]byte),
	}
}

// Read returns a copy of the stored bytes, so callers cannot mutate the
// medium's view of a slot.
func (m *Medium) Read(slot string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[slot]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

// Write stores data under slot. A write that would push total usage past
// the capacity returns core.ErrMediumFull without touching the slot.
func (m *Medium) Write(slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.used - len(m.slots[slot]) + len(data)
	if m.capacity > 0 && next > m.capacity {
		return core.ErrMediumFull
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	m.slots[slot] = stored
	m.used = next
	return nil
}

// Remove deletes a slot. Removing an absent slot is a no-op.
func (m *Medium) Remove(slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.used -= len(m.slots[slot])
	delete(m.slots, slot)
	return nil
}

// Slots returns the names of all stored slots.
func (m *Medium) Slots() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.slots))
	for slot := range m.slots {
		out = append(out, slot)
	}
	return out, nil
}

// Used reports current byte usage.
func (m *Medium) Used() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}

// ComponentType implements introspection.Component.
func (m *Medium) ComponentType() string {
	return "memory-medium"
}

var _ core.Medium = (*Medium)(nil)
