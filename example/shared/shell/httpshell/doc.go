// Package httpshell exposes an eventlist.Store as a small JSON API.
//
// It is a thin adapter: it decodes user actions, forwards them to the Store and
// renders the resulting Snapshot. It holds no state of its own.
//
// Routes:
//
//	GET  /snapshot             current Snapshot, ETag is the Snapshot version
//	PUT  /draft/{field}        {"value": "..."} replaces one Draft field
//	POST /draft/commit         commits the Draft; an incomplete Draft is reported, not rejected
//	POST /events/{id}/rsvp     records one RSVP; an unknown id is reported, not rejected
//	GET  /healthz              liveness
//	GET  /metrics              Prometheus exposition, if a metrics handler is configured
//
// Errors are written as RFC 7807 problem documents.
package httpshell
