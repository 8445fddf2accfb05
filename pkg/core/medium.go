package core

// Medium defines the contract for the byte-level storage slots backing a
// Store. Adhering to this interface keeps the store independent of the
// underlying medium (in-memory, filesystem, ...), and lets tests inject a
// fake with an arbitrary quota.
//
// A Medium has no notion of collections or owners; it stores opaque bytes
// under slot names. Writes that would exceed the medium's capacity must
// return ErrMediumFull and leave previously stored slots untouched.
type Medium interface {
	// Read returns the bytes stored under slot, or ok=false if absent.
	Read(slot string) (data []byte, ok bool)

	// Write stores data under slot, replacing any previous value.
	// Returns ErrMediumFull if the write does not fit the quota; in that
	// case the previous value of the slot (if any) is preserved.
	Write(slot string, data []byte) error

	// Remove deletes a slot. Removing an absent slot is a no-op.
	Remove(slot string) error

	// Slots returns the names of all slots currently holding data.
	Slots() ([]string, error)
}
