package fs

import (
	"github.com/aretw0/introspection"
)

// MediumState exposes internal state for observability.
type MediumState struct {
	Path          string `json:"path"`
	Budget        int64  `json:"budget"`
	Used          int64  `json:"used"`
	Slots         int    `json:"slots"`
	WatcherActive bool   `json:"watcher_active"`
}

// State implements introspection.Introspectable.
func (m *Medium) State() any {
	m.mu.Lock()
	used, _ := m.usage()
	active := m.watcherActive
	m.mu.Unlock()

	slots, _ := m.Slots()

	return MediumState{
		Path:          m.Path,
		Budget:        m.config.Budget,
		Used:          used,
		Slots:         len(slots),
		WatcherActive: active,
	}
}

// ComponentType implements introspection.Component.
func (m *Medium) ComponentType() string {
	return "fs-medium"
}

var _ introspection.Introspectable = (*Medium)(nil)
var _ introspection.Component = (*Medium)(nil)

func (m *Medium) setWatcherActive(active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watcherActive = active
}
