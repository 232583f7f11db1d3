// Package eventlist provides the in-memory store behind the group event planner.
//
// A Store owns two pieces of state:
//   - the Draft, i.e. the not yet committed new-event form (title, date, time, location)
//   - the ordered, append-only list of committed Events, each with an RSVP counter
//
// All mutations go through three operations, and each of them is a total function over the
// store's state: it either applies a change or does nothing. There are no error returns for
// incomplete drafts or unknown event IDs, those are ordinary "no-op" outcomes.
//
// Key types:
//   - Store: holds the state, serialises operations, notifies observers
//   - Snapshot: an immutable view of Draft + Events for rendering
//   - Field: the closed set of draft fields
//   - DecisionResult: the outcome of the pure DecideCommit / DecideRSVP functions
//
// Common usage pattern:
//
//	store, err := eventlist.NewStore(eventlist.WithLogger(slog.Default()))
//	if err != nil {
//		// handle error
//	}
//
//	unsubscribe := store.Subscribe(func(s eventlist.Snapshot) { render(s) })
//	defer unsubscribe()
//
//	store.UpdateDraftField(ctx, eventlist.FieldTitle, "Picnic")
//	store.UpdateDraftField(ctx, eventlist.FieldDate, "2025-06-01")
//	store.UpdateDraftField(ctx, eventlist.FieldTime, "12:00")
//	store.UpdateDraftField(ctx, eventlist.FieldLocation, "Park")
//
//	if event, committed := store.CommitDraft(ctx); committed {
//		store.RecordRSVP(ctx, event.ID)
//	}
package eventlist
