package eventlist

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrInvalidSnapshotJSON is returned when snapshot JSON data is malformed or invalid.
	ErrInvalidSnapshotJSON = errors.New("snapshot json is not valid")

	// ErrDuplicateEventIDInSnapshot is returned when two Events in a Snapshot share an ID.
	ErrDuplicateEventIDInSnapshot = errors.New("snapshot contains duplicate event id")

	// ErrEmptyEventIDInSnapshot is returned when an Event in a Snapshot has no ID.
	ErrEmptyEventIDInSnapshot = errors.New("snapshot contains event without id")

	// ErrIncompleteEventInSnapshot is returned when an Event in a Snapshot has a blank field.
	ErrIncompleteEventInSnapshot = errors.New("snapshot contains event with blank field")
)

var snapshotJSONAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Snapshot is the read-only view of a Store for rendering.
// It is a value: the Events slice is a private copy and later mutations of the Store never show up in it.
type Snapshot struct {
	Version VersionUint `json:"version"` // Incremented by every applied mutation, unchanged by no-ops
	Draft   Draft       `json:"draft"`
	Events  Events      `json:"events"`
}

// Find returns the Event with the given ID, if present.
func (s Snapshot) Find(id EventID) (Event, bool) {
	position := indexOfEvent(s.Events, id)
	if position < 0 {
		return Event{}, false
	}

	return s.Events[position], true
}

// Validate checks the invariants every Snapshot produced by a Store satisfies:
// unique non-empty IDs and complete Events.
func (s Snapshot) Validate() error {
	seen := make(map[EventID]struct{}, len(s.Events))

	for i, event := range s.Events {
		if event.ID == "" {
			return fmt.Errorf("%w: position %d", ErrEmptyEventIDInSnapshot, i)
		}

		if _, exists := seen[event.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateEventIDInSnapshot, event.ID)
		}
		seen[event.ID] = struct{}{}

		if isBlank(event.Title) || isBlank(event.Date) || isBlank(event.Time) || isBlank(event.Location) {
			return fmt.Errorf("%w: %s", ErrIncompleteEventInSnapshot, event.ID)
		}
	}

	return nil
}

// snapshotWire strips the methods of Snapshot so marshaling does not recurse.
type snapshotWire Snapshot

// MarshalJSON encodes the Snapshot; an empty Event list is encoded as [] rather than null.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	wire := snapshotWire(s)
	if wire.Events == nil {
		wire.Events = Events{}
	}

	return snapshotJSONAPI.Marshal(wire)
}

// SnapshotFromJSON decodes and validates a Snapshot produced by MarshalJSON.
func SnapshotFromJSON(data []byte) (Snapshot, error) {
	if !snapshotJSONAPI.Valid(data) {
		return Snapshot{}, ErrInvalidSnapshotJSON
	}

	wire := new(snapshotWire)
	if err := snapshotJSONAPI.Unmarshal(data, wire); err != nil {
		return Snapshot{}, errors.Join(ErrInvalidSnapshotJSON, err)
	}

	snapshot := Snapshot(*wire)
	if err := snapshot.Validate(); err != nil {
		return Snapshot{}, errors.Join(ErrInvalidSnapshotJSON, err)
	}

	return snapshot, nil
}
