// Package typed provides a type-safe view of an owner-scoped collection.
// It acts as an application-layer adapter, converting between raw records
// and caller-supplied structs via JSON round-trips, and validating the
// identifier requirement at the boundary instead of trusting callers.
package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/doneflow/doneflow/pkg/core"
)

// Collection wraps a core.Store collection to provide type-safe access.
// T is the struct stored in the collection; its JSON form must carry a
// non-empty "id" field.
type Collection[T any] struct {
	store *core.Store
	owner string
	name  string
}

// NewCollection creates a type-safe wrapper for (owner, name) on store.
func NewCollection[T any](store *core.Store, owner, name string) *Collection[T] {
	return &Collection[T]{store: store, owner: owner, name: name}
}

// Save upserts a typed value. Existing records (matched by id) are merged
// in place; new records are appended.
func (c *Collection[T]) Save(ctx context.Context, v T) error {
	rec, err := toRecord(v)
	if err != nil {
		return err
	}
	id := rec.ID()
	if id == "" {
		return core.ErrEmptyRecordID
	}
	_, err = c.store.UpdateCollection(ctx, c.owner, c.name, id, rec, false)
	return err
}

// Delete removes the record with the given id. Absent ids are a no-op.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if id == "" {
		return core.ErrEmptyRecordID
	}
	_, err := c.store.UpdateCollection(ctx, c.owner, c.name, id, nil, true)
	return err
}

// List returns all records converted to T, in collection order.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	return decodeList[T](c.store.Collection(ctx, c.owner, c.name))
}

// Get returns the record with the given id, or ok=false if absent.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	for _, rec := range c.store.Collection(ctx, c.owner, c.name) {
		if rec.ID() == id {
			v, err := fromRecord[T](rec)
			if err != nil {
				return zero, false, err
			}
			return v, true, nil
		}
	}
	return zero, false, nil
}

// Subscribe registers onChange with synchronous initial delivery, mirroring
// core.Store.Subscribe. Snapshots that fail to decode into []T are skipped.
func (c *Collection[T]) Subscribe(onChange func([]T)) func() {
	return c.store.Subscribe(c.owner, c.name, func(records []core.Record) {
		list, err := decodeList[T](records)
		if err != nil {
			return
		}
		onChange(list)
	})
}

func toRecord[T any](v T) (core.Record, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed value: %w", err)
	}
	var rec core.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("typed value is not an object: %w", err)
	}
	return rec, nil
}

func fromRecord[T any](rec core.Record) (T, error) {
	var v T
	data, err := json.Marshal(rec)
	if err != nil {
		return v, fmt.Errorf("record marshal failed: %w", err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return v, nil
}

func decodeList[T any](records []core.Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		v, err := fromRecord[T](rec)
		if err != nil {
			return nil, fmt.Errorf("failed to process record %s: %w", rec.ID(), err)
		}
		out = append(out, v)
	}
	return out, nil
}
