package httpshell

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/group-event-planner-go/eventlist"
)

const defaultMaxBodyBytes = int64(64 << 10)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

var strictJSONAPI = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// ServerDeps holds everything the handlers need.
type ServerDeps struct {
	Store          *eventlist.Store
	Logger         *slog.Logger // optional
	MetricsHandler http.Handler // optional, serves GET /metrics
	MaxBodyBytes   int64        // defaults to 64 KiB
}

type updateDraftFieldReq struct {
	Value *string `json:"value"`
}

type commitResp struct {
	Committed     bool               `json:"committed"`
	Event         *eventlist.Event   `json:"event,omitempty"`
	MissingFields []string           `json:"missing_fields,omitempty"`
	Snapshot      eventlist.Snapshot `json:"snapshot"`
}

type rsvpResp struct {
	Recorded bool              `json:"recorded"`
	EventID  eventlist.EventID `json:"event_id"`
	Event    *eventlist.Event  `json:"event,omitempty"`
}

// --- Health ---

func (d *ServerDeps) HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// --- Snapshot ---

func (d *ServerDeps) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot := d.Store.Snapshot()
	etag := etagFor(snapshot.Version)

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	d.writeJSON(w, http.StatusOK, snapshot.Version, snapshot)
}

// --- Draft ---

func (d *ServerDeps) HandlePutDraftField(w http.ResponseWriter, r *http.Request) {
	defer DrainBody(r)

	field, err := eventlist.ParseField(r.PathValue("field"))
	if err != nil {
		WriteProblem(w, http.StatusNotFound, "unknown draft field", err.Error(), nil)
		return
	}

	var req updateDraftFieldReq
	if !d.decodeJSONStrict(w, r, &req) {
		return
	}

	if req.Value == nil {
		WriteProblem(w, http.StatusBadRequest, "validation failed", "one or more fields are invalid",
			map[string][]string{"value": {"is required"}})
		return
	}

	snapshot := d.Store.UpdateDraftFieldAndSnapshot(r.Context(), field, *req.Value)
	d.writeJSON(w, http.StatusOK, snapshot.Version, snapshot)
}

func (d *ServerDeps) HandlePostCommit(w http.ResponseWriter, r *http.Request) {
	defer DrainBody(r)

	event, committed, snapshot := d.Store.CommitDraftAndSnapshot(r.Context())

	if !committed {
		d.writeJSON(w, http.StatusOK, snapshot.Version, commitResp{
			Committed:     false,
			MissingFields: fieldNames(snapshot.Draft.MissingFields()),
			Snapshot:      snapshot,
		})
		return
	}

	w.Header().Set("Location", "/events/"+event.ID)
	d.writeJSON(w, http.StatusCreated, snapshot.Version, commitResp{
		Committed: true,
		Event:     &event,
		Snapshot:  snapshot,
	})
}

// --- RSVP ---

func (d *ServerDeps) HandlePostRSVP(w http.ResponseWriter, r *http.Request) {
	defer DrainBody(r)

	id := r.PathValue("id")
	event, recorded, snapshot := d.Store.RecordRSVPAndSnapshot(r.Context(), id)

	resp := rsvpResp{Recorded: recorded, EventID: id}
	if recorded {
		resp.Event = &event
	}

	d.writeJSON(w, http.StatusOK, snapshot.Version, resp)
}

// --- Router ---

func (d *ServerDeps) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", d.HandleHealthz)
	mux.HandleFunc("GET /snapshot", d.HandleGetSnapshot)
	mux.HandleFunc("PUT /draft/{field}", d.HandlePutDraftField)
	mux.HandleFunc("POST /draft/commit", d.HandlePostCommit)
	mux.HandleFunc("POST /events/{id}/rsvp", d.HandlePostRSVP)

	if d.MetricsHandler != nil {
		mux.Handle("GET /metrics", d.MetricsHandler)
	}

	maxBodyBytes := d.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}

	var h http.Handler = mux
	h = RequireJSON(h)
	h = BodyLimit(maxBodyBytes)(h)
	h = RequestLog(d.Logger)(h)

	return h
}

// decodeJSONStrict decodes the request body into v and writes a problem document if that fails.
func (d *ServerDeps) decodeJSONStrict(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteProblem(w, http.StatusRequestEntityTooLarge, "request body too large",
				"limit is "+strconv.FormatInt(maxBytesErr.Limit, 10)+" bytes", nil)
			return false
		}

		WriteProblem(w, http.StatusBadRequest, "invalid request body", err.Error(), nil)
		return false
	}

	if err := strictJSONAPI.Unmarshal(body, v); err != nil {
		WriteProblem(w, http.StatusBadRequest, "invalid json", err.Error(), nil)
		return false
	}

	return true
}

func (d *ServerDeps) writeJSON(w http.ResponseWriter, status int, version eventlist.VersionUint, v any) {
	body, err := jsonAPI.Marshal(v)
	if err != nil {
		if d.Logger != nil {
			d.Logger.Error("failed to encode response", "error", err.Error())
		}
		WriteProblem(w, http.StatusInternalServerError, "internal error", "response could not be encoded", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", etagFor(version))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func etagFor(version eventlist.VersionUint) string {
	return `"` + strconv.FormatUint(uint64(version), 10) + `"`
}

// etagMatches evaluates an If-None-Match header against etag with the weak comparison
// of RFC 9110: "*" matches anything, list members are compared without their W/ prefix.
func etagMatches(ifNoneMatch, etag string) bool {
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}

		if strings.TrimPrefix(candidate, "W/") == strings.TrimPrefix(etag, "W/") {
			return true
		}
	}

	return false
}

func fieldNames(fields []eventlist.Field) []string {
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.String())
	}

	return names
}
