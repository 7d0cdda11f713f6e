package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError
	var tooLarge *domain.PayloadTooLargeError

	switch {
	case errors.As(err, &tooLarge):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, tooLarge.Error())
	case errors.Is(err, domain.ErrValidation):
		if field := domain.FieldOf(err); field != "" {
			httputil.RespondErrorWithExtras(w, http.StatusBadRequest, err.Error(), map[string]interface{}{"field": field})
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	default:
		slog.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// HandleCreateConflict handles conflicts during creation by returning the existing resource with 409
// If the error is a ConflictError, it calls fetchFn to retrieve the existing resource
func HandleCreateConflict[T any](w http.ResponseWriter, err error, fetchFn func(id string) (*T, error)) {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) && conflictErr.ResourceID != "" {
		existing, fetchErr := fetchFn(conflictErr.ResourceID)
		if fetchErr != nil {
			handleError(w, fetchErr)
			return
		}

		// Return existing resource with 409 status
		httputil.RespondJSON(w, http.StatusConflict, existing)
		return
	}

	// Not a conflict error, handle normally
	handleError(w, err)
}

// okResponse acknowledges writes that return no resource.
type okResponse struct {
	OK bool `json:"ok"`
}

// listResponse wraps collections as {items}.
type listResponse[T any] struct {
	Items []T `json:"items"`
}
