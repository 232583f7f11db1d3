package eventlist

import (
	"errors"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces identifiers for newly committed Events.
// Implementations must never hand out the same ID twice for one Store.
type IDGenerator interface {
	NewEventID() (EventID, error)
}

// IDGeneratorFunc adapts a plain function to the IDGenerator interface.
type IDGeneratorFunc func() (EventID, error)

// NewEventID calls f.
func (f IDGeneratorFunc) NewEventID() (EventID, error) {
	return f()
}

// UUIDGenerator generates time-ordered UUIDv7 identifiers. This is the Store's default.
type UUIDGenerator struct{}

// NewEventID returns a new UUIDv7 in its canonical string form.
func (UUIDGenerator) NewEventID() (EventID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", errors.Join(ErrIDGenerationFailed, err)
	}

	return id.String(), nil
}

// SequentialGenerator generates "<prefix><n>" identifiers from a monotonic counter starting at 1.
// It is safe for concurrent use.
type SequentialGenerator struct {
	prefix string
	last   atomic.Uint64
}

// NewSequentialGenerator creates a SequentialGenerator with the given prefix, e.g. "evt-".
func NewSequentialGenerator(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// NewEventID returns the next identifier in the sequence.
func (g *SequentialGenerator) NewEventID() (EventID, error) {
	return g.prefix + strconv.FormatUint(g.last.Add(1), 10), nil
}

var _ IDGenerator = UUIDGenerator{}
var _ IDGenerator = (*SequentialGenerator)(nil)
var _ IDGenerator = IDGeneratorFunc(nil)
