package eventlist

import (
	"errors"
)

var ErrNilIDGenerator = errors.New("nil id generator supplied")
var ErrNilObserver = errors.New("nil observer supplied")
var ErrUnknownField = errors.New("unknown draft field")
var ErrIDGenerationFailed = errors.New("event id generation failed")

// VersionUint is a type alias for uint, representing the version of a Store's state.
type VersionUint = uint
