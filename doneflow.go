package doneflow

import (
	"log/slog"

	"github.com/doneflow/doneflow/internal/platform"
	"github.com/doneflow/doneflow/pkg/core"
)

// --- Types ---

// Record is a public alias for the raw record type.
type Record = core.Record

// Store is a public alias for the domain store.
type Store = core.Store

// Event is a public alias for a store change event.
type Event = core.Event

// --- Errors ---

// ErrCapacityExceeded signals the degradation ladder was exhausted.
var ErrCapacityExceeded = core.ErrCapacityExceeded

// ErrMediumFull signals the medium rejected a write for space.
var ErrMediumFull = core.ErrMediumFull

// ErrEmptyRecordID signals an upsert or delete without an identifier.
var ErrEmptyRecordID = core.ErrEmptyRecordID

// --- Configuration ---

// Option defines a functional option for configuring the store.
type Option = platform.Option

// WithMedium allows injecting a custom storage medium.
func WithMedium(medium core.Medium) Option {
	return platform.WithMedium(medium)
}

// WithLogger sets the logger for the store and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithNamespace overrides the slot prefix.
func WithNamespace(ns string) Option {
	return platform.WithNamespace(ns)
}

// WithCapacity sets the medium's byte budget. Zero means unbounded.
func WithCapacity(bytes int64) Option {
	return platform.WithCapacity(bytes)
}

// WithHeavyPattern sets the glob selecting slots that degrade under
// pressure instead of failing outright.
func WithHeavyPattern(pattern string) Option {
	return platform.WithHeavyPattern(pattern)
}

// WithKeepFull sets how many newest records keep their heavy field during
// tier-one degradation.
func WithKeepFull(n int) Option {
	return platform.WithKeepFull(n)
}

// WithKeepRecent sets how many newest records survive tier-two truncation.
func WithKeepRecent(n int) Option {
	return platform.WithKeepRecent(n)
}

// WithStripField sets the field removed during tier-one degradation.
func WithStripField(field string) Option {
	return platform.WithStripField(field)
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithEventBuffer allows specifying the size of the Watch channel buffer.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler registers a callback for filesystem watch errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a new Done Flow store rooted at path.
func New(path string, opts ...Option) (*core.Store, error) {
	return platform.New(path, opts...)
}
