package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// Defaults mirror the constraints of the small per-origin quota this store
// was designed for: image-bearing posts dominate space, and the newest items
// are the ones the calendar and feed views foreground.
const (
	DefaultNamespace    = "doneflow_v1_"
	DefaultHeavyPattern = "*_posts"
	DefaultKeepFull     = 15
	DefaultKeepRecent   = 20
	DefaultStripField   = "image"
	DefaultEventBuffer  = 100
)

// Config holds the tuning knobs of a Store. Zero values fall back to the
// package defaults above.
type Config struct {
	// Namespace prefixes every slot name, isolating this store's data from
	// anything else sharing the medium.
	Namespace string

	// HeavyPattern is a doublestar glob identifying slots that hold
	// collections of post-like records with large embedded payloads. Only
	// those slots get the degradation ladder; everything else fails fast
	// on a full medium.
	HeavyPattern string

	// KeepFull is how many of the most recent records keep their embedded
	// payload during tier-1 degradation.
	KeepFull int

	// KeepRecent is how many records survive tier-2 hard truncation.
	KeepRecent int

	// StripField names the large payload field removed by tier 1.
	StripField string

	// EventBuffer sizes the channel returned by Watch.
	EventBuffer int

	Logger *slog.Logger
}

// Store emulates a multi-collection, per-owner document database on top of
// a quota-bounded byte Medium: get/set access to named slots, collection
// upsert/delete semantics, and a publish/subscribe registry so observers
// learn about changes without polling.
//
// All operations are synchronous: Set and UpdateCollection complete
// (including any degradation retries) before returning, and notifications
// are delivered in the writer's call stack. Concurrent writers within this
// process are serialized by an internal mutex; writers in *other* processes
// sharing the same medium are not coordinated (last writer wins).
// Subscribe's initial snapshot is read without that mutex: relative to a
// concurrent writer it may be delivered before or after the write's
// notification, and only post-registration notifications are ordered.
type Store struct {
	medium Medium
	config Config
	logger *slog.Logger
	reg    *registry

	mu      sync.Mutex // serializes read-modify-write cycles against the medium
	lastPub map[string][]byte
}

// NewStore binds a Store to a medium. The medium is the explicit handle
// required for init; there is no teardown (lifetime = process lifetime).
func NewStore(medium Medium, config Config) *Store {
	if config.Namespace == "" {
		config.Namespace = DefaultNamespace
	}
	if config.HeavyPattern == "" {
		config.HeavyPattern = DefaultHeavyPattern
	}
	if config.KeepFull <= 0 {
		config.KeepFull = DefaultKeepFull
	}
	if config.KeepRecent <= 0 {
		config.KeepRecent = DefaultKeepRecent
	}
	if config.StripField == "" {
		config.StripField = DefaultStripField
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = DefaultEventBuffer
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		medium:  medium,
		config:  config,
		logger:  logger,
		reg:     newRegistry(),
		lastPub: make(map[string][]byte),
	}
}

// Medium exposes the bound medium, e.g. to start an adapter-specific
// external-change watcher.
func (s *Store) Medium() Medium {
	return s.medium
}

// Slot returns the namespaced slot name for a single-value key such as the
// session slot.
func (s *Store) Slot(name string) string {
	return s.config.Namespace + name
}

// CollectionKey derives the slot name for (ownerID, collection). The same
// string names the collection's notification channel.
func (s *Store) CollectionKey(ownerID, collection string) string {
	return s.config.Namespace + ownerID + "_" + collection
}

// GetRaw decodes the value stored under slot into v. It returns false if
// the slot is absent. Stored bytes that fail to decode are treated as
// absent too; that favors availability over strict correctness, so the
// corruption is only surfaced through the logger.
func (s *Store) GetRaw(slot string, v any) bool {
	data, ok := s.medium.Read(slot)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Warn("stored value is unreadable, treating as absent", "slot", slot, "error", err)
		return false
	}
	return true
}

// SetRaw serializes v and writes it to the named slot, then notifies the
// slot's subscribers with the full serialized value. If the medium rejects
// the write as full and the slot matches HeavyPattern with a []Record
// value, the degradation ladder runs before giving up:
//
//  1. Tier 1: strip StripField from all but the KeepFull most recent
//     records, retry.
//  2. Tier 2: keep only the KeepRecent most recent records, retry.
//  3. Terminal: fail with ErrCapacityExceeded. Nothing was persisted; the
//     caller must surface the failure rather than assume the value stuck.
//
// Notifications always carry the value the caller passed in, even when the
// persisted form was degraded; the degraded form becomes visible on the
// next read.
func (s *Store) SetRaw(slot string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to serialize value for %s: %w", slot, err)
	}

	s.mu.Lock()
	err = s.setLocked(slot, data, v)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.publish(slot, data)
	return nil
}

func (s *Store) setLocked(slot string, data []byte, v any) error {
	err := s.medium.Write(slot, data)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrMediumFull) {
		return fmt.Errorf("failed to write %s: %w", slot, err)
	}

	list, isCollection := v.([]Record)
	heavy, merr := doublestar.Match(s.config.HeavyPattern, slot)
	if merr != nil || !heavy || !isCollection {
		return fmt.Errorf("write %s rejected: %w", slot, ErrCapacityExceeded)
	}

	s.logger.Warn("medium quota exceeded, stripping older payloads", "slot", slot, "records", len(list))

	// Tier 1: drop the heavy payload from everything but the newest records.
	optimized := make([]Record, len(list))
	for i, rec := range list {
		if i < len(list)-s.config.KeepFull {
			rec = rec.Clone()
			delete(rec, s.config.StripField)
		}
		optimized[i] = rec
	}
	tier1, err := json.Marshal(optimized)
	if err != nil {
		return fmt.Errorf("failed to serialize optimized collection for %s: %w", slot, err)
	}
	err = s.medium.Write(slot, tier1)
	if err == nil {
		s.logger.Info("storage optimized", "slot", slot, "tier", 1)
		return nil
	}
	if !errors.Is(err, ErrMediumFull) {
		return fmt.Errorf("failed to write %s: %w", slot, err)
	}

	// Tier 2: hard truncation to the newest records only.
	trimmed := optimized
	if len(trimmed) > s.config.KeepRecent {
		trimmed = trimmed[len(trimmed)-s.config.KeepRecent:]
	}
	tier2, err := json.Marshal(trimmed)
	if err != nil {
		return fmt.Errorf("failed to serialize trimmed collection for %s: %w", slot, err)
	}
	err = s.medium.Write(slot, tier2)
	if err == nil {
		s.logger.Warn("storage truncated", "slot", slot, "tier", 2, "kept", len(trimmed))
		return nil
	}
	if !errors.Is(err, ErrMediumFull) {
		return fmt.Errorf("failed to write %s: %w", slot, err)
	}

	s.logger.Error("storage full after degradation", "slot", slot)
	return fmt.Errorf("write %s rejected after degradation: %w", slot, ErrCapacityExceeded)
}

// Collection returns the current contents of (ownerID, collection), or an
// empty sequence if the collection was never written (or is unreadable).
func (s *Store) Collection(ctx context.Context, ownerID, collection string) []Record {
	return s.loadCollection(s.CollectionKey(ownerID, collection))
}

func (s *Store) loadCollection(slot string) []Record {
	var list []Record
	if !s.GetRaw(slot, &list) || list == nil {
		return []Record{}
	}
	return list
}

// UpdateCollection applies a single-record change to (ownerID, collection)
// and persists the result via SetRaw (so the degradation ladder applies).
//
// Workflow:
//  1. Load the current collection; absent behaves as empty.
//  2. isDelete: remove the record matching recordID. Deleting an absent
//     id is a no-op, not an error.
//  3. Otherwise upsert: an existing record is shallow-merged in place at
//     its original position (fields present in data overwrite, fields
//     absent are preserved); a new record is appended at the end.
//  4. Persist, notify subscribers with the full updated collection, and
//     return it.
func (s *Store) UpdateCollection(ctx context.Context, ownerID, collection, recordID string, data Record, isDelete bool) ([]Record, error) {
	if recordID == "" {
		return nil, ErrEmptyRecordID
	}
	slot := s.CollectionKey(ownerID, collection)

	s.mu.Lock()
	list := s.loadCollection(slot)

	var updated []Record
	if isDelete {
		updated = make([]Record, 0, len(list))
		for _, rec := range list {
			if rec.ID() != recordID {
				updated = append(updated, rec)
			}
		}
	} else {
		idx := -1
		for i, rec := range list {
			if rec.ID() == recordID {
				idx = i
				break
			}
		}
		if idx >= 0 {
			merged := list[idx].Clone()
			for k, v := range data {
				merged[k] = v
			}
			updated = list
			updated[idx] = merged
		} else {
			rec := data.Clone()
			if rec == nil {
				rec = Record{}
			}
			if rec.ID() == "" {
				rec["id"] = recordID
			}
			updated = append(list, rec)
		}
	}

	raw, err := json.Marshal(updated)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to serialize collection %s: %w", slot, err)
	}
	err = s.setLocked(slot, raw, updated)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	s.publish(slot, raw)
	return updated, nil
}

// Subscribe registers onChange for (ownerID, collection). The callback is
// invoked synchronously with the current contents before Subscribe returns,
// then again with the full updated collection after every committed write
// to the same key. The returned function deregisters the callback; calling
// it more than once is safe.
//
// The initial snapshot is not serialized against concurrent writers; its
// ordering guarantee holds only within a single goroutine's call sequence.
func (s *Store) Subscribe(ownerID, collection string, onChange func([]Record)) func() {
	slot := s.CollectionKey(ownerID, collection)
	onChange(s.loadCollection(slot))
	return s.reg.add(slot, false, func(e Event) {
		var list []Record
		if err := json.Unmarshal(e.Raw, &list); err != nil || list == nil {
			list = []Record{}
		}
		onChange(list)
	})
}

// SubscribeSlot registers onChange for a single-value slot (e.g. the
// session slot). Initial delivery is synchronous; absent slots deliver nil.
func (s *Store) SubscribeSlot(slot string, onChange func(raw []byte)) func() {
	if data, ok := s.medium.Read(slot); ok {
		onChange(data)
	} else {
		onChange(nil)
	}
	return s.reg.add(slot, false, func(e Event) {
		onChange(e.Raw)
	})
}

// Watch returns a channel of committed changes on slots matching the
// doublestar pattern. The channel is buffered (Config.EventBuffer); if a
// consumer falls behind, events are dropped rather than blocking writers.
// The cancel function stops delivery and closes the channel; it is safe to
// call it from any goroutine, including a subscriber callback running in
// the same fan-out that is still delivering to this watch.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan Event, func()) {
	ch := make(chan Event, s.config.EventBuffer)
	done := make(chan struct{})

	// mu guards closed so an in-flight fan-out can never send on a channel
	// cancel has already closed.
	var mu sync.Mutex
	closed := false

	remove := s.reg.add(pattern, true, func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- e:
		default:
			s.logger.Warn("watch consumer too slow, dropping event", "slot", e.Slot)
		}
	})

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			remove()
			mu.Lock()
			closed = true
			mu.Unlock()
			close(ch)
			close(done)
		})
	}

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				cancel()
			case <-done:
			}
		}()
	}
	return ch, cancel
}

// Invalidate re-reads a slot from the medium and fans the current value out
// to its subscribers. Adapter watchers call this when another process wrote
// to the shared medium. Invalidations that match the last value published
// by this store are suppressed, so a process's own writes are not delivered
// twice.
func (s *Store) Invalidate(slot string) {
	data, ok := s.medium.Read(slot)

	s.mu.Lock()
	last, seen := s.lastPub[slot]
	if seen && bytes.Equal(last, data) {
		s.mu.Unlock()
		return
	}
	s.lastPub[slot] = data
	s.mu.Unlock()

	eType := EventUpdate
	if !ok {
		eType = EventDelete
		data = []byte("null")
	}
	s.reg.publish(Event{Type: eType, Slot: slot, Raw: data, Timestamp: time.Now().Unix()})
}

// Keys returns slot names currently held by the medium, filtered by the
// doublestar pattern ("" matches everything).
func (s *Store) Keys(pattern string) ([]string, error) {
	slots, err := s.medium.Slots()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate slots: %w", err)
	}
	if pattern == "" {
		return slots, nil
	}
	var out []string
	for _, slot := range slots {
		ok, err := doublestar.Match(pattern, slot)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if ok {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *Store) publish(slot string, raw []byte) {
	s.mu.Lock()
	s.lastPub[slot] = raw
	s.mu.Unlock()
	s.reg.publish(Event{Type: EventUpdate, Slot: slot, Raw: raw, Timestamp: time.Now().Unix()})
}
