package handler

import "net/http"

// Handlers groups every catalog handler for route registration
type Handlers struct {
	Health    *HealthHandler
	Events    *EventHandler
	Approvals *ApprovalHandler
	Tags      *TagHandler
	Transfer  *TransferHandler
}

// RegisterRoutes mounts the catalog API on mux (Go 1.22+ patterns)
func RegisterRoutes(mux *http.ServeMux, h *Handlers) {
	mux.HandleFunc("GET /health", h.Health.HealthCheck)

	// Event queries
	mux.HandleFunc("GET /events", h.Events.ListEvents)
	mux.HandleFunc("GET /events/search", h.Events.SearchEvents)
	mux.HandleFunc("GET /events/aggregations", h.Events.Aggregations)

	// Approval queue
	mux.HandleFunc("GET /events/approvals", h.Approvals.ListApprovals)
	mux.HandleFunc("POST /events/approvals/{id}/approve", h.Approvals.Approve)
	mux.HandleFunc("POST /events/approvals/{id}/reject", h.Approvals.Reject)

	// Event writes and history
	mux.HandleFunc("POST /events", h.Events.CreateEvent)
	mux.HandleFunc("GET /events/{id}", h.Events.GetEvent)
	mux.HandleFunc("PATCH /events/{id}", h.Events.UpdateEvent)
	mux.HandleFunc("DELETE /events/{id}", h.Events.DeleteEvent)
	mux.HandleFunc("GET /events/{id}/versions", h.Events.ListVersions)
	mux.HandleFunc("POST /events/{id}/restore", h.Events.RestoreVersion)

	// Tags
	mux.HandleFunc("GET /tags", h.Tags.ListTags)
	mux.HandleFunc("POST /tags", h.Tags.CreateTag)
	mux.HandleFunc("PATCH /tags/{id}", h.Tags.UpdateTag)
	mux.HandleFunc("DELETE /tags/{id}", h.Tags.DeleteTag)

	// Bulk transfer
	mux.HandleFunc("POST /import/events", h.Transfer.ImportEvents)
	mux.HandleFunc("GET /export/events", h.Transfer.ExportEvents)
}
