// Record is the central entity of the domain.
package core

// Record is an opaque, identifier-bearing unit of data stored in a
// collection. No schema is enforced beyond the "id" field; everything
// else is caller-defined (posts with scheduling metadata, clients with
// brand attributes, and so on).
type Record map[string]any

// ID returns the record identifier, or "" if the record has none.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Clone returns a shallow copy of the record. Nested values are shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// EventType represents the kind of change committed to a slot.
type EventType string

const (
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event represents a committed change on a storage slot. Raw carries the
// serialized value as it was published, so consumers can decode it into
// whatever shape the slot holds.
type Event struct {
	Type      EventType
	Slot      string
	Raw       []byte
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event so store events can feed a lifecycle
// runtime directly.
func (e Event) String() string {
	return string(e.Type) + " " + e.Slot
}
