// Package fs implements core.Medium on the local filesystem: one file per
// slot, atomic replacement on write, and an optional byte budget imitating
// a storage quota. An fsnotify-based watcher picks up writes made by other
// processes sharing the directory.
package fs

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/doneflow/doneflow/pkg/core"
)

const slotExt = ".json"

// Config holds the configuration for the filesystem medium.
type Config struct {
	Path string

	// Budget caps the total bytes of all slot files. <= 0 means unbounded.
	Budget int64

	// MustExist refuses to create the directory on Initialize.
	MustExist bool

	Logger *slog.Logger

	// ErrorHandler receives runtime watcher failures that would otherwise
	// only be logged.
	ErrorHandler func(error)
}

// Medium stores each slot as a file under Config.Path. Slot names are
// path-escaped, so the mapping between slot and file name is reversible.
type Medium struct {
	Path   string
	config Config
	logger *slog.Logger

	mu            sync.Mutex
	watcherActive bool
}

// NewMedium creates a new filesystem-backed medium.
func NewMedium(config Config) *Medium {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Medium{
		Path:   config.Path,
		config: config,
		logger: logger,
	}
}

// Initialize ensures the storage directory is ready.
func (m *Medium) Initialize() error {
	if m.config.MustExist {
		info, err := os.Stat(m.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("storage path does not exist: %s", m.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("storage path is not a directory: %s", m.Path)
		}
		return nil
	}
	if err := os.MkdirAll(m.Path, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return nil
}

func (m *Medium) slotPath(slot string) string {
	return filepath.Join(m.Path, url.PathEscape(slot)+slotExt)
}

// slotFromFile reverses slotPath for a file name inside the directory.
// Returns "" for files that are not slots (temp files, foreign files).
func slotFromFile(name string) string {
	if !strings.HasSuffix(name, slotExt) || strings.HasPrefix(name, TempFilePrefix) {
		return ""
	}
	slot, err := url.PathUnescape(strings.TrimSuffix(name, slotExt))
	if err != nil {
		return ""
	}
	return slot
}

// Read returns the bytes stored under slot.
func (m *Medium) Read(slot string) ([]byte, bool) {
	data, err := os.ReadFile(m.slotPath(slot))
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Warn("slot read failed", "slot", slot, "error", err)
		}
		return nil, false
	}
	return data, true
}

// Write stores data under slot. If the write would push the directory past
// the byte budget it returns core.ErrMediumFull and leaves the previous
// value untouched; otherwise the slot file is replaced atomically.
func (m *Medium) Write(slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config.Budget > 0 {
		used, err := m.usage()
		if err != nil {
			return fmt.Errorf("failed to measure usage: %w", err)
		}
		var existing int64
		if info, err := os.Stat(m.slotPath(slot)); err == nil {
			existing = info.Size()
		}
		if used-existing+int64(len(data)) > m.config.Budget {
			return core.ErrMediumFull
		}
	}

	if err := writeFileAtomic(m.slotPath(slot), data, 0644); err != nil {
		return fmt.Errorf("failed to write slot %s: %w", slot, err)
	}
	return nil
}

// Remove deletes a slot file. Removing an absent slot is a no-op.
func (m *Medium) Remove(slot string) error {
	if err := os.Remove(m.slotPath(slot)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove slot %s: %w", slot, err)
	}
	return nil
}

// Slots returns the names of all stored slots.
func (m *Medium) Slots() ([]string, error) {
	entries, err := os.ReadDir(m.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if slot := slotFromFile(e.Name()); slot != "" {
			out = append(out, slot)
		}
	}
	return out, nil
}

// usage sums the sizes of all slot files. Called with m.mu held.
func (m *Medium) usage() (int64, error) {
	entries, err := os.ReadDir(m.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	var total int64
	for _, e := range entries {
		if e.IsDir() || slotFromFile(e.Name()) == "" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

var _ core.Medium = (*Medium)(nil)
