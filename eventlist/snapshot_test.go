package eventlist_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
)

func Test_Snapshot_MarshalJSON_EncodesEmptyStore(t *testing.T) {
	// arrange
	store := givenStore(t)

	// act
	data, err := store.Snapshot().MarshalJSON()

	// assert
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"version":0,"draft":{"title":"","date":"","time":"","location":""},"events":[]}`,
		string(data),
	)
}

func Test_SnapshotFromJSON_DecodesWhatMarshalJSONProduced(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := givenStore(t)
	event := givenCommittedEvent(t, ctx, store)
	store.RecordRSVP(ctx, event.ID)
	store.UpdateDraftField(ctx, eventlist.FieldTitle, "Next one")
	snapshot := store.Snapshot()

	data, err := snapshot.MarshalJSON()
	require.NoError(t, err)

	// act
	decoded, err := eventlist.SnapshotFromJSON(data)

	// assert
	require.NoError(t, err)
	assert.Equal(t, snapshot, decoded)
}

func Test_SnapshotFromJSON_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectedErr error
	}{
		{
			name:        "malformed_json",
			input:       `{"version":`,
			expectedErr: eventlist.ErrInvalidSnapshotJSON,
		},
		{
			name: "duplicate_event_id",
			input: `{"version":2,"draft":{},"events":[
				{"id":"a","title":"t","date":"d","time":"h","location":"l","rsvps":0},
				{"id":"a","title":"t","date":"d","time":"h","location":"l","rsvps":0}]}`,
			expectedErr: eventlist.ErrDuplicateEventIDInSnapshot,
		},
		{
			name:        "empty_event_id",
			input:       `{"version":1,"draft":{},"events":[{"id":"","title":"t","date":"d","time":"h","location":"l"}]}`,
			expectedErr: eventlist.ErrEmptyEventIDInSnapshot,
		},
		{
			name:        "incomplete_event",
			input:       `{"version":1,"draft":{},"events":[{"id":"a","title":" ","date":"d","time":"h","location":"l"}]}`,
			expectedErr: eventlist.ErrIncompleteEventInSnapshot,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := eventlist.SnapshotFromJSON([]byte(tc.input))

			// assert
			assert.ErrorIs(t, err, eventlist.ErrInvalidSnapshotJSON)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_Snapshot_Find(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := givenStore(t)
	event := givenCommittedEvent(t, ctx, store)
	snapshot := store.Snapshot()

	// act
	found, ok := snapshot.Find(event.ID)
	_, missingOK := snapshot.Find("missing")

	// assert
	assert.True(t, ok)
	assert.Equal(t, event, found)
	assert.False(t, missingOK)
}
