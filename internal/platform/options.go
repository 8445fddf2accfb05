package platform

import (
	"log/slog"

	"github.com/doneflow/doneflow/pkg/core"
)

// options holds the internal configuration for the composition root.
type options struct {
	medium core.Medium
	logger *slog.Logger
	config map[string]interface{}
}

// Option defines a functional option for configuring the store.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		medium: nil,
		logger: nil,
		config: make(map[string]interface{}),
	}
}

// WithMedium allows injecting a custom storage medium (e.g. memory, mock).
// If provided, the default filesystem medium will be skipped.
func WithMedium(medium core.Medium) Option {
	return func(o *options) {
		o.medium = medium
	}
}

// WithLogger sets the logger for the store and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithNamespace overrides the slot prefix. Defaults to "doneflow_v1_".
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.config["namespace"] = ns
	}
}

// WithCapacity sets the medium's byte budget. Zero or negative means
// unbounded.
func WithCapacity(bytes int64) Option {
	return func(o *options) {
		o.config["capacity"] = bytes
	}
}

// WithHeavyPattern sets the glob selecting which slots degrade under
// pressure instead of failing outright. Defaults to "*_posts".
func WithHeavyPattern(pattern string) Option {
	return func(o *options) {
		o.config["heavy_pattern"] = pattern
	}
}

// WithKeepFull sets how many newest records keep their heavy field during
// tier-one degradation.
func WithKeepFull(n int) Option {
	return func(o *options) {
		o.config["keep_full"] = n
	}
}

// WithKeepRecent sets how many newest records survive tier-two truncation.
func WithKeepRecent(n int) Option {
	return func(o *options) {
		o.config["keep_recent"] = n
	}
}

// WithStripField sets the field removed during tier-one degradation.
// Defaults to "image".
func WithStripField(field string) Option {
	return func(o *options) {
		o.config["strip_field"] = field
	}
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithEventBuffer allows specifying the size of the Watch channel buffer.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithWatcherErrorHandler registers a callback for errors occurring during
// the filesystem watch loop, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}
