package eventlist_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
)

func Test_DecideCommit_WithIncompleteDraft_IsIdempotentWithoutConsumingAnID(t *testing.T) {
	// arrange
	calls := 0
	generator := eventlist.IDGeneratorFunc(func() (eventlist.EventID, error) {
		calls++
		return "evt-1", nil
	})

	// act
	result := eventlist.DecideCommit(eventlist.Draft{Title: "X"}, nil, generator)

	// assert
	assert.True(t, result.IsIdempotent())
	assert.Equal(t, eventlist.ReasonDraftIncomplete, result.Reason)
	assert.NoError(t, result.Err)
	assert.Zero(t, calls)
}

func Test_DecideCommit_WithCompleteDraft_BuildsEventWithZeroRSVPs(t *testing.T) {
	// arrange
	draft := givenPicnicDraft()

	// act
	result := eventlist.DecideCommit(draft, eventlist.Events{}, eventlist.NewSequentialGenerator("evt-"))

	// assert
	assert.False(t, result.IsIdempotent())
	assert.Equal(t, eventlist.Event{
		ID:       "evt-1",
		Title:    "Picnic",
		Date:     "2025-06-01",
		Time:     "12:00",
		Location: "Park",
		RSVPs:    0,
	}, result.Event)
	assert.Empty(t, result.Reason)
}

func Test_DecideCommit_WithGeneratorFault_IsIdempotentAndCarriesTheError(t *testing.T) {
	failure := errors.New("boom")

	tests := []struct {
		name        string
		generator   eventlist.IDGenerator
		events      eventlist.Events
		expectedErr error
	}{
		{
			name:        "generator_error",
			generator:   eventlist.IDGeneratorFunc(func() (eventlist.EventID, error) { return "", failure }),
			expectedErr: failure,
		},
		{
			name:        "empty_id",
			generator:   eventlist.IDGeneratorFunc(func() (eventlist.EventID, error) { return "", nil }),
			expectedErr: eventlist.ErrEmptyEventID,
		},
		{
			name:        "duplicate_id",
			generator:   eventlist.IDGeneratorFunc(func() (eventlist.EventID, error) { return "taken", nil }),
			events:      eventlist.Events{{ID: "taken", Title: "a", Date: "b", Time: "c", Location: "d"}},
			expectedErr: eventlist.ErrDuplicateEventID,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result := eventlist.DecideCommit(givenPicnicDraft(), tc.events, tc.generator)

			// assert
			assert.True(t, result.IsIdempotent())
			assert.Equal(t, eventlist.ReasonIDGenerationFailed, result.Reason)
			assert.ErrorIs(t, result.Err, tc.expectedErr)
			assert.Equal(t, eventlist.Event{}, result.Event)
		})
	}
}

func Test_DecideRSVP_ForExistingEvent_IncrementsByOneWithoutTouchingInput(t *testing.T) {
	// arrange
	events := eventlist.Events{
		{ID: "a", Title: "A", Date: "d", Time: "t", Location: "l", RSVPs: 3},
		{ID: "b", Title: "B", Date: "d", Time: "t", Location: "l", RSVPs: 7},
	}

	// act
	result := eventlist.DecideRSVP(events, "b")

	// assert
	assert.False(t, result.IsIdempotent())
	assert.Equal(t, "b", result.Event.ID)
	assert.Equal(t, uint(8), result.Event.RSVPs)
	assert.Equal(t, uint(7), events[1].RSVPs, "the input slice must not change")
}

func Test_DecideRSVP_ForUnknownEvent_IsIdempotent(t *testing.T) {
	// act
	result := eventlist.DecideRSVP(eventlist.Events{{ID: "a"}}, "missing")

	// assert
	assert.True(t, result.IsIdempotent())
	assert.Equal(t, eventlist.ReasonEventNotFound, result.Reason)
	assert.NoError(t, result.Err)
}

func givenPicnicDraft() eventlist.Draft {
	return eventlist.Draft{Title: "Picnic", Date: "2025-06-01", Time: "12:00", Location: "Park"}
}
