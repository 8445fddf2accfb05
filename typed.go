package doneflow

import (
	"github.com/doneflow/doneflow/pkg/core"
	"github.com/doneflow/doneflow/pkg/typed"
)

// TypedCollection wraps an owner-scoped collection to provide type-safe
// access. It acts as an Application Layer adapter, converting between raw
// records and typed structs.
type TypedCollection[T any] = typed.Collection[T]

// NewCollection creates a new type-safe collection wrapper.
// T is the struct you want to store; its JSON form must carry an "id".
func NewCollection[T any](store *core.Store, owner, name string) *TypedCollection[T] {
	return typed.NewCollection[T](store, owner, name)
}
