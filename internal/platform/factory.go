// Package platform is the composition root: it parses functional options,
// initializes the storage medium and wires the domain store on top of it.
package platform

import (
	"fmt"

	"github.com/doneflow/doneflow/pkg/adapters/fs"
	"github.com/doneflow/doneflow/pkg/core"
)

// New builds a ready-to-use store rooted at path. The path argument is
// medium-specific (a directory for the default filesystem medium) and is
// ignored when a medium is injected via WithMedium.
func New(path string, opts ...Option) (*core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	medium, err := initMedium(path, o)
	if err != nil {
		return nil, err
	}

	namespace, _ := o.config["namespace"].(string)
	heavyPattern, _ := o.config["heavy_pattern"].(string)
	keepFull, _ := o.config["keep_full"].(int)
	keepRecent, _ := o.config["keep_recent"].(int)
	stripField, _ := o.config["strip_field"].(string)
	eventBuffer, _ := o.config["event_buffer"].(int)

	store := core.NewStore(medium, core.Config{
		Namespace:    namespace,
		HeavyPattern: heavyPattern,
		KeepFull:     keepFull,
		KeepRecent:   keepRecent,
		StripField:   stripField,
		EventBuffer:  eventBuffer,
		Logger:       o.logger,
	})

	return store, nil
}

// initMedium resolves the storage medium: an injected one wins, otherwise
// a filesystem medium is created and initialized at path.
func initMedium(path string, o *options) (core.Medium, error) {
	if o.medium != nil {
		return o.medium, nil
	}

	capacity, _ := o.config["capacity"].(int64)
	mustExist, _ := o.config["must_exist"].(bool)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	medium := fs.NewMedium(fs.Config{
		Path:         path,
		Budget:       capacity,
		MustExist:    mustExist,
		Logger:       o.logger,
		ErrorHandler: errorHandler,
	})
	if err := medium.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize medium: %w", err)
	}
	return medium, nil
}
