package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	catalogSvc "github.com/C3604/ChronoAtlas/internal/domain/services/catalog"
	"github.com/C3604/ChronoAtlas/internal/httputil"
)

// EventHandler handles event reads, writes, history and queries
type EventHandler struct {
	eventService catalogSvc.EventService
	queryService catalogSvc.QueryService
	logger       *slog.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService catalogSvc.EventService, queryService catalogSvc.QueryService, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		queryService: queryService,
		logger:       logger,
	}
}

// ListEvents lists events matching the query filters
// GET /events?timeFrom=&timeTo=&tagIds=&categoryIds=&tagMatch=&keyword=
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	keyword := q.Get("keyword")
	if keyword == "" {
		keyword = q.Get("q")
	}

	list, err := h.queryService.ListEvents(r.Context(), &catalogSvc.ListEventsQuery{
		TimeFrom:    optionalParam(q, "timeFrom"),
		TimeTo:      optionalParam(q, "timeTo"),
		TagIDs:      q.Get("tagIds"),
		CategoryIDs: q.Get("categoryIds"),
		TagMatch:    q.Get("tagMatch"),
		Keyword:     keyword,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}

// optionalParam returns nil when key is absent from the query string
func optionalParam(q url.Values, key string) *string {
	if !q.Has(key) {
		return nil
	}
	v := q.Get(key)
	return &v
}

// SearchEvents runs a keyword search
// GET /events/search?q=
func (h *EventHandler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	list, err := h.queryService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}

// Aggregations returns catalog totals, year bounds and tag counts
// GET /events/aggregations
func (h *EventHandler) Aggregations(w http.ResponseWriter, r *http.Request) {
	agg, err := h.queryService.Aggregations(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, agg)
}

// GetEvent retrieves an event by ID
// GET /events/{id}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventService.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, event)
}

// CreateEvent creates an event
// POST /events
// Returns 201 with the event, or 202 when queued for approval
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req catalogSvc.CreateEventRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	res, err := h.eventService.CreateEvent(r.Context(), httputil.GetActor(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWrite(w, res, http.StatusCreated)
}

// UpdateEvent applies a partial update
// PATCH /events/{id}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req catalogSvc.UpdateEventRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	res, err := h.eventService.UpdateEvent(r.Context(), httputil.GetActor(r), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	respondWrite(w, res, http.StatusOK)
}

// DeleteEvent deletes an event
// DELETE /events/{id}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	res, err := h.eventService.DeleteEvent(r.Context(), httputil.GetActor(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	respondWrite(w, res, http.StatusOK)
}

// ListVersions returns an event's version history
// GET /events/{id}/versions
func (h *EventHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.eventService.ListVersions(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listResponse[catalog.EventVersion]{Items: versions})
}

type restoreRequest struct {
	VersionID string `json:"versionId"`
}

// RestoreVersion restores an event to a recorded version
// POST /events/{id}/restore
func (h *EventHandler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	event, err := h.eventService.RestoreVersion(r.Context(), httputil.GetActor(r), r.PathValue("id"), req.VersionID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, event)
}

// respondWrite answers an event write: 202 when queued for approval,
// otherwise the event with okStatus, or {ok} when nothing remains to show.
func respondWrite(w http.ResponseWriter, res *catalogSvc.WriteResult, okStatus int) {
	switch {
	case res.Pending:
		httputil.RespondJSON(w, http.StatusAccepted, res)
	case res.Event == nil:
		httputil.RespondJSON(w, http.StatusOK, okResponse{OK: true})
	default:
		httputil.RespondJSON(w, okStatus, res.Event)
	}
}
