package eventlist

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Observer receives the Snapshot produced by every applied mutation, in mutation order.
//
// Observers run synchronously after the state lock is released. They may call Snapshot or Subscribe,
// but they must not call UpdateDraftField, CommitDraft or RecordRSVP on the same Store, which would deadlock.
type Observer func(Snapshot)

type subscription struct {
	id       uint64
	observer Observer
}

// Store holds the Draft and the ordered Event collection and applies the three mutating operations.
// All operations are serialised, so a Store can be shared between goroutines.
type Store struct {
	mu       sync.Mutex // guards the state below
	notifyMu sync.Mutex // keeps observer notifications in mutation order

	version VersionUint
	draft   Draft
	events  Events

	subscriptions      []subscription
	nextSubscriptionID uint64

	idGenerator      IDGenerator
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewStore creates a Store with an empty Draft and no Events.
func NewStore(options ...Option) (*Store, error) {
	s := &Store{
		draft:       EmptyDraft(),
		idGenerator: UUIDGenerator{},
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// UpdateDraftField replaces one field of the Draft with value, verbatim.
// The other fields and the Event collection are left untouched.
// A Field outside the declared constants is ignored.
func (s *Store) UpdateDraftField(ctx context.Context, field Field, value string) {
	s.UpdateDraftFieldAndSnapshot(ctx, field, value)
}

// UpdateDraftFieldAndSnapshot works like UpdateDraftField and returns the Snapshot taken
// together with the update, so no other mutation can show up in it.
func (s *Store) UpdateDraftFieldAndSnapshot(ctx context.Context, field Field, value string) Snapshot {
	start := time.Now()
	tracer, ctx := s.startTracing(ctx, operationUpdateDraftField, map[string]string{spanAttrField: field.String()})
	metrics := s.startMetrics(ctx, operationUpdateDraftField)

	if !field.IsValid() {
		s.finishNoop(ctx, tracer, metrics, operationUpdateDraftField, IdempotentDecision(ReasonUnknownField, nil), time.Since(start))
		return s.Snapshot()
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.draft = s.draft.With(field, value)
	snapshot, observers := s.applied()
	s.mu.Unlock()

	s.logDraftUpdated(ctx, field)
	metrics.recordSuccess(len(snapshot.Events), time.Since(start))
	tracer.finishSuccess(snapshot.Version, time.Since(start))

	notify(observers, snapshot)

	return snapshot
}

// CommitDraft turns a complete Draft into a new Event with RSVPs = 0, appends it and resets the Draft.
// If any Draft field is blank nothing changes and committed is false.
func (s *Store) CommitDraft(ctx context.Context) (event Event, committed bool) {
	event, committed, _ = s.CommitDraftAndSnapshot(ctx)

	return event, committed
}

// CommitDraftAndSnapshot works like CommitDraft and also returns the Snapshot of the same
// critical section: the state right after the commit, or the unchanged state for a no-op,
// whose Draft then names the missing fields.
func (s *Store) CommitDraftAndSnapshot(ctx context.Context) (event Event, committed bool, snapshot Snapshot) {
	start := time.Now()
	tracer, ctx := s.startTracing(ctx, operationCommitDraft, nil)
	metrics := s.startMetrics(ctx, operationCommitDraft)

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	decision := DecideCommit(s.draft, s.events, s.idGenerator)
	if decision.IsIdempotent() {
		snapshot = s.snapshotLocked()
		s.mu.Unlock()

		s.finishNoop(ctx, tracer, metrics, operationCommitDraft, decision, time.Since(start), missingFieldsLogArgs(snapshot.Draft)...)

		return Event{}, false, snapshot
	}

	s.events = append(s.events, decision.Event)
	s.draft = EmptyDraft()
	snapshot, observers := s.applied()
	s.mu.Unlock()

	s.logEventCommitted(ctx, decision.Event, len(snapshot.Events))
	metrics.recordSuccess(len(snapshot.Events), time.Since(start))
	tracer.finishSuccess(snapshot.Version, time.Since(start), spanAttrEventID, decision.Event.ID)

	notify(observers, snapshot)

	return decision.Event, true, snapshot
}

// RecordRSVP increments the RSVP counter of the Event with the given ID by exactly one.
// An unknown ID changes nothing and recorded is false.
func (s *Store) RecordRSVP(ctx context.Context, id EventID) (event Event, recorded bool) {
	event, recorded, _ = s.RecordRSVPAndSnapshot(ctx, id)

	return event, recorded
}

// RecordRSVPAndSnapshot works like RecordRSVP and also returns the Snapshot of the same critical section.
func (s *Store) RecordRSVPAndSnapshot(ctx context.Context, id EventID) (event Event, recorded bool, snapshot Snapshot) {
	start := time.Now()
	tracer, ctx := s.startTracing(ctx, operationRecordRSVP, map[string]string{spanAttrEventID: id})
	metrics := s.startMetrics(ctx, operationRecordRSVP)

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	decision := DecideRSVP(s.events, id)
	if decision.IsIdempotent() {
		snapshot = s.snapshotLocked()
		s.mu.Unlock()

		s.finishNoop(ctx, tracer, metrics, operationRecordRSVP, decision, time.Since(start), logAttrEventID, id)

		return Event{}, false, snapshot
	}

	// Snapshots hold clones, so s.events may be written in place.
	s.events[decision.position] = decision.Event
	snapshot, observers := s.applied()
	s.mu.Unlock()

	s.logRSVPRecorded(ctx, decision.Event)
	metrics.recordSuccess(len(snapshot.Events), time.Since(start))
	metrics.recordRSVP()
	tracer.finishSuccess(snapshot.Version, time.Since(start), spanAttrRSVPs, formatUint(decision.Event.RSVPs))

	notify(observers, snapshot)

	return decision.Event, true, snapshot
}

// Snapshot returns the current Draft and Events.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Subscribe registers an observer for all subsequent applied mutations and returns a function
// that removes it again. Calling the returned function more than once is harmless.
// A nil observer is ignored.
func (s *Store) Subscribe(observer Observer) (unsubscribe func()) {
	if observer == nil {
		return func() {}
	}

	s.mu.Lock()
	id := s.subscribe(observer)
	s.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			s.subscriptions = slices.DeleteFunc(s.subscriptions, func(sub subscription) bool {
				return sub.id == id
			})
		})
	}
}

// subscribe must be called with s.mu held, or during construction.
func (s *Store) subscribe(observer Observer) uint64 {
	s.nextSubscriptionID++
	s.subscriptions = append(s.subscriptions, subscription{id: s.nextSubscriptionID, observer: observer})

	return s.nextSubscriptionID
}

// applied bumps the version and captures what has to be passed to the observers. Requires s.mu.
func (s *Store) applied() (Snapshot, []Observer) {
	s.version++

	if len(s.subscriptions) == 0 {
		return s.snapshotLocked(), nil
	}

	observers := make([]Observer, 0, len(s.subscriptions))
	for _, sub := range s.subscriptions {
		observers = append(observers, sub.observer)
	}

	return s.snapshotLocked(), observers
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Version: s.version,
		Draft:   s.draft,
		Events:  slices.Clone(s.events),
	}
}

func notify(observers []Observer, snapshot Snapshot) {
	for _, observer := range observers {
		observer(Snapshot{
			Version: snapshot.Version,
			Draft:   snapshot.Draft,
			Events:  slices.Clone(snapshot.Events),
		})
	}
}
