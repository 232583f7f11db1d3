package eventlist_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
)

func Test_UUIDGenerator_GeneratesDistinctVersion7IDs(t *testing.T) {
	// arrange
	generator := eventlist.UUIDGenerator{}
	seen := make(map[eventlist.EventID]struct{})

	// act
	for range 1000 {
		id, err := generator.NewEventID()
		require.NoError(t, err)

		parsed, parseErr := uuid.Parse(id)
		require.NoError(t, parseErr)
		require.Equal(t, uuid.Version(7), parsed.Version())

		seen[id] = struct{}{}
	}

	// assert
	assert.Len(t, seen, 1000)
}

func Test_SequentialGenerator_CountsFromOne(t *testing.T) {
	// arrange
	generator := eventlist.NewSequentialGenerator("evt-")

	// act
	first, err1 := generator.NewEventID()
	second, err2 := generator.NewEventID()

	// assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, "evt-1", first)
	assert.Equal(t, "evt-2", second)
}

func Test_SequentialGenerator_IsSafeForConcurrentUse(t *testing.T) {
	// arrange
	generator := eventlist.NewSequentialGenerator("")
	seen := make(map[eventlist.EventID]struct{})
	var mu sync.Mutex
	var wg sync.WaitGroup

	// act
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				id, _ := generator.NewEventID()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Len(t, seen, 1000)
}

func Test_IDGeneratorFunc_DelegatesToTheFunction(t *testing.T) {
	// arrange
	failure := errors.New("entropy exhausted")
	generator := eventlist.IDGeneratorFunc(func() (eventlist.EventID, error) { return "", failure })

	// act
	_, err := generator.NewEventID()

	// assert
	assert.ErrorIs(t, err, failure)
}
