package eventlist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
)

func Test_ParseField_AcceptsKnownNames(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected eventlist.Field
	}{
		{name: "title", input: "title", expected: eventlist.FieldTitle},
		{name: "mixed_case_date", input: "Date", expected: eventlist.FieldDate},
		{name: "padded_time", input: "  TIME ", expected: eventlist.FieldTime},
		{name: "location", input: "location", expected: eventlist.FieldLocation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			field, err := eventlist.ParseField(tc.input)

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.expected, field)
		})
	}
}

func Test_ParseField_RejectsUnknownName(t *testing.T) {
	// act
	_, err := eventlist.ParseField("colour")

	// assert
	assert.ErrorIs(t, err, eventlist.ErrUnknownField)
	assert.Contains(t, err.Error(), `"colour"`)
}

func Test_Field_OnlyDeclaredConstantsAreValid(t *testing.T) {
	for _, field := range eventlist.Fields() {
		assert.True(t, field.IsValid(), field.String())
	}

	assert.False(t, eventlist.Field(0).IsValid())
	assert.False(t, eventlist.Field(5).IsValid())
	assert.Equal(t, "unknown", eventlist.Field(0).String())
}

func Test_Field_TextEncoding(t *testing.T) {
	// arrange
	var field eventlist.Field

	// act
	text, marshalErr := eventlist.FieldLocation.MarshalText()
	unmarshalErr := field.UnmarshalText([]byte("date"))
	_, invalidErr := eventlist.Field(42).MarshalText()

	// assert
	require.NoError(t, marshalErr)
	require.NoError(t, unmarshalErr)
	assert.Equal(t, "location", string(text))
	assert.Equal(t, eventlist.FieldDate, field)
	assert.ErrorIs(t, invalidErr, eventlist.ErrUnknownField)
}

func Test_Draft_With_ReplacesOnlyTheNamedField(t *testing.T) {
	// arrange
	draft := eventlist.Draft{Title: "Picnic", Date: "2025-06-01", Time: "12:00", Location: "Park"}

	// act
	updated := draft.With(eventlist.FieldTime, "13:30")

	// assert
	assert.Equal(t, eventlist.Draft{Title: "Picnic", Date: "2025-06-01", Time: "13:30", Location: "Park"}, updated)
	assert.Equal(t, "12:00", draft.Time, "the receiver must not change")
}

func Test_Draft_With_InvalidFieldLeavesDraftUnchanged(t *testing.T) {
	// arrange
	draft := eventlist.Draft{Title: "Picnic"}

	// act
	updated := draft.With(eventlist.Field(0), "ignored")

	// assert
	assert.Equal(t, draft, updated)
	assert.Empty(t, draft.Value(eventlist.Field(0)))
}

func Test_Draft_MissingFields_TreatsWhitespaceAsBlank(t *testing.T) {
	// arrange
	draft := eventlist.Draft{Title: "Picnic", Date: " \t", Time: "12:00"}

	// act
	missing := draft.MissingFields()

	// assert
	assert.Equal(t, []eventlist.Field{eventlist.FieldDate, eventlist.FieldLocation}, missing)
	assert.False(t, draft.IsComplete())
}

func Test_Draft_IsComplete(t *testing.T) {
	assert.False(t, eventlist.EmptyDraft().IsComplete())
	assert.Len(t, eventlist.EmptyDraft().MissingFields(), 4)
	assert.True(t, eventlist.Draft{Title: "a", Date: "b", Time: "c", Location: "d"}.IsComplete())
}
