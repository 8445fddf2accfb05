package core

import "errors"

// Common errors.
var (
	// ErrCapacityExceeded is the only error the store raises to callers on
	// write: the medium cannot hold the value even after the degradation
	// ladder ran. The pending in-memory value was NOT persisted.
	ErrCapacityExceeded = errors.New("store capacity exceeded")

	// ErrMediumFull is the sentinel a Medium returns when a write does not
	// fit its quota. The store translates it into ErrCapacityExceeded after
	// degradation; it never crosses the store boundary itself.
	ErrMediumFull = errors.New("storage medium is full")

	// ErrEmptyRecordID rejects records without an "id" field at the boundary.
	ErrEmptyRecordID = errors.New("record has no id")
)
