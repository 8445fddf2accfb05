// Package doneflow is the Composition Root for the Done Flow engine.
//
// It connects the core business logic (Domain Layer) with the infrastructure
// adapters (Persistence Layer) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// Done Flow is an offline-first document store for content workflows. It
// treats owner-scoped collections of JSON records as a reactive database
// over a quota-bounded key-value medium, degrading gracefully instead of
// failing when storage runs out.
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from persistence details.
//   - **Owner-Scoped Collections**: Records live under a per-user namespace.
//   - **Reactive**: Synchronous initial delivery plus change notifications for every slot.
//   - **Capacity Ladder**: Heavy collections shed media fields, then old records, before failing.
//   - **Typed Access**: Generic wrapper (`NewCollection[T]`) for type-safe record access.
//   - **Default Adapter (FS)**: Out-of-the-box support for local JSON slots with atomic writes.
//   - **Extensible**: Designed to support other backends via `core.Medium`.
//
// Usage:
//
//	// Initialize the store with functional options
//	store, err := doneflow.New("./data",
//		doneflow.WithCapacity(5<<20),
//		doneflow.WithLogger(logger),
//	)
//
//	// Upsert a record
//	_, err = store.UpdateCollection(ctx, "user_1", "posts", "p1",
//		doneflow.Record{"id": "p1", "title": "Launch"}, false)
package doneflow
