package core

import (
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// registry is the explicit observer list behind Subscribe/Watch: a map from
// slot name (or glob pattern) to callback handles. It replaces the ambient
// event-bus approach with explicit add/remove, so unrelated features cannot
// collide on a shared namespace.
type registry struct {
	mu   sync.Mutex
	next int
	subs map[int]*subscriber
}

type subscriber struct {
	id      int
	key     string
	pattern bool
	fn      func(Event)
}

func newRegistry() *registry {
	return &registry{subs: make(map[int]*subscriber)}
}

// add registers fn for a slot. If pattern is true, key is a doublestar glob
// matched against slot names at publish time. The returned function removes
// the registration; calling it more than once is a no-op.
func (r *registry) add(key string, pattern bool, fn func(Event)) func() {
	r.mu.Lock()
	id := r.next
	r.next++
	r.subs[id] = &subscriber{id: id, key: key, pattern: pattern, fn: fn}
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

// publish fans the event out to every subscriber whose key matches the slot.
// Callbacks run synchronously in the caller's stack, in registration order,
// outside the registry lock so a callback may subscribe or unsubscribe.
func (r *registry) publish(e Event) {
	r.mu.Lock()
	matched := make([]*subscriber, 0, len(r.subs))
	for _, s := range r.subs {
		if s.pattern {
			if ok, err := doublestar.Match(s.key, e.Slot); err == nil && ok {
				matched = append(matched, s)
			}
		} else if s.key == e.Slot {
			matched = append(matched, s)
		}
	}
	r.mu.Unlock()

	// Registration order keeps per-slot delivery deterministic.
	for i := 1; i < len(matched); i++ {
		for j := i; j > 0 && matched[j].id < matched[j-1].id; j-- {
			matched[j], matched[j-1] = matched[j-1], matched[j]
		}
	}

	for _, s := range matched {
		s.fn(e)
	}
}

// count returns the number of live registrations.
func (r *registry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}
