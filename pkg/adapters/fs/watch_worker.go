package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"
)

// Invalidator receives slot names whose contents changed outside this
// process. core.Store satisfies it.
type Invalidator interface {
	Invalidate(slot string)
}

type WatchWorker struct {
	*worker.BaseWorker
	medium    *Medium
	target    Invalidator
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

// NewWatchWorker creates a worker that watches the medium's directory and
// forwards external slot changes to target. This process's own writes are
// reported too; the store deduplicates them against its last published
// value.
func NewWatchWorker(medium *Medium, target Invalidator) *WatchWorker {
	return &WatchWorker{
		BaseWorker: worker.NewBaseWorker("fs-watcher"),
		medium:     medium,
		target:     target,
	}
}

func (w *WatchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(w.medium.Path); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.medium.Path, err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(50 * time.Millisecond)
	w.medium.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *WatchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *WatchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

// processEvent maps a filesystem event back to a slot name and schedules an
// invalidation. Temp files from atomic writes and foreign files are ignored.
func (w *WatchWorker) processEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	slot := slotFromFile(filepath.Base(event.Name))
	if slot == "" {
		return
	}

	w.debouncer.add(slot, func() {
		w.target.Invalidate(slot)
	})
}

func (w *WatchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("watcher panic: %v", recovered)

			var stack string
			if w.medium.logger.Enabled(ctx, slog.LevelDebug) {
				stack = string(debug.Stack())
			}
			if stack != "" {
				w.medium.logger.Error("watcher panic", "error", panicErr, "stack", stack)
			} else {
				w.medium.logger.Error("watcher panic", "error", panicErr)
			}
		}
	}()
	defer w.medium.setWatcherActive(false)
	defer w.watcher.Close()
	defer w.debouncer.stopAll()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processEvent(event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.medium.logger.Error("fsnotify error", "error", wErr)
			if w.medium.config.ErrorHandler != nil {
				w.medium.config.ErrorHandler(wErr)
			}
		}
	}
}

// debouncer coalesces bursts of filesystem events per slot. Atomic writes
// surface as create+rename pairs; only the settled state matters.
type debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

func (d *debouncer) add(key string, fire func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
		fire()
	})
}

func (d *debouncer) stopAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
