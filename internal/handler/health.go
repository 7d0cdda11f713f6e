package handler

import (
	"context"
	"net/http"

	"github.com/C3604/ChronoAtlas/internal/httputil"
)

// HealthHandler reports liveness and storage reachability
type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler creates a health handler. ping may be nil.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// HealthCheck returns the service status
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			httputil.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
