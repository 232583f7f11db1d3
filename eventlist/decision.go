package eventlist

import (
	"errors"
)

// ErrDuplicateEventID is carried by a commit decision when the generator returned an ID
// that is already taken.
var ErrDuplicateEventID = errors.New("duplicate event id")

// ErrEmptyEventID is carried by a commit decision when the generator returned an empty ID.
var ErrEmptyEventID = errors.New("empty event id")

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
)

// Reasons for idempotent (no-op) decisions.
const (
	ReasonDraftIncomplete    = "draft incomplete"
	ReasonEventNotFound      = "event not found"
	ReasonUnknownField       = "unknown field"
	ReasonIDGenerationFailed = "id generation failed"
)

// DecisionResult represents the outcome of a Decide function.
//
// IMPORTANT: DecisionResult should only be constructed using the provided factory methods:
// IdempotentDecision(reason, err) or SuccessDecision(event, position).
type DecisionResult struct {
	Outcome string // "idempotent" or "success"
	Event   Event  // zero Event for idempotent decisions
	Reason  string // empty for success decisions
	Err     error  // set only when a no-op was caused by a fault rather than by user input

	position int
}

// IdempotentDecision creates a DecisionResult indicating no state change is applied.
func IdempotentDecision(reason string, err error) DecisionResult {
	return DecisionResult{
		Outcome:  idempotentOutcome,
		Reason:   reason,
		Err:      err,
		position: -1,
	}
}

// SuccessDecision creates a DecisionResult indicating that event is to be written at position.
func SuccessDecision(event Event, position int) DecisionResult {
	return DecisionResult{
		Outcome:  successOutcome,
		Event:    event,
		position: position,
	}
}

// IsIdempotent returns true if nothing is to be changed.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome != successOutcome
}

// DecideCommit decides whether the draft becomes a new Event at the end of events.
//
// The generator is only asked for an ID once the draft is known to be complete, so an incomplete
// draft never consumes an ID.
func DecideCommit(draft Draft, events Events, generator IDGenerator) DecisionResult {
	if !draft.IsComplete() {
		return IdempotentDecision(ReasonDraftIncomplete, nil)
	}

	id, err := generator.NewEventID()
	if err != nil {
		return IdempotentDecision(ReasonIDGenerationFailed, err)
	}

	if id == "" {
		return IdempotentDecision(ReasonIDGenerationFailed, ErrEmptyEventID)
	}

	if indexOfEvent(events, id) >= 0 {
		return IdempotentDecision(ReasonIDGenerationFailed, ErrDuplicateEventID)
	}

	return SuccessDecision(buildEvent(id, draft), len(events))
}

// DecideRSVP decides which Event receives one more RSVP.
func DecideRSVP(events Events, id EventID) DecisionResult {
	position := indexOfEvent(events, id)
	if position < 0 {
		return IdempotentDecision(ReasonEventNotFound, nil)
	}

	return SuccessDecision(events[position].withOneMoreRSVP(), position)
}
