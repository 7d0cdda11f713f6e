package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	catalogSvc "github.com/C3604/ChronoAtlas/internal/domain/services/catalog"
	"github.com/C3604/ChronoAtlas/internal/httputil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TransferHandler handles bulk import and export
type TransferHandler struct {
	transferService catalogSvc.TransferService
	logger          *slog.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transferService catalogSvc.TransferService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

// ImportEvents imports a batch of events
// POST /import/events?mode=merge|replace
// Accepts a JSON or YAML body; a mode in the body wins over the query
func (h *TransferHandler) ImportEvents(w http.ResponseWriter, r *http.Request) {
	var req catalogSvc.ImportRequest
	if err := httputil.ParseBody(w, r, &req); err != nil {
		handleError(w, err)
		return
	}
	if req.Mode == "" {
		req.Mode = r.URL.Query().Get("mode")
	}

	result, err := h.transferService.ImportEvents(r.Context(), httputil.GetActor(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ExportEvents exports every event
// GET /export/events?format=json|xlsx
func (h *TransferHandler) ExportEvents(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))

	switch format {
	case "", "json":
		result, err := h.transferService.ExportEvents(r.Context())
		if err != nil {
			handleError(w, err)
			return
		}
		httputil.RespondJSON(w, http.StatusOK, result)

	case "xlsx":
		// Buffer so a failed workbook never leaves a half-written 200
		var buf bytes.Buffer
		if err := h.transferService.ExportWorkbook(r.Context(), &buf); err != nil {
			handleError(w, err)
			return
		}
		filename := fmt.Sprintf("chronoatlas-events-%s.xlsx", time.Now().UTC().Format("20060102"))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		httputil.RespondBytes(w, http.StatusOK, xlsxContentType, buf.Bytes())

	default:
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported export format %q", format),
			map[string]interface{}{"field": "format"})
	}
}
