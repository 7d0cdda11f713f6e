package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/C3604/ChronoAtlas/internal/domain/models"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	catalogSvc "github.com/C3604/ChronoAtlas/internal/domain/services/catalog"
	"github.com/C3604/ChronoAtlas/internal/httputil"
)

// ApprovalHandler handles the review queue for editor changes
type ApprovalHandler struct {
	approvalService catalogSvc.ApprovalService
	logger          *slog.Logger
}

// NewApprovalHandler creates a new approval handler
func NewApprovalHandler(approvalService catalogSvc.ApprovalService, logger *slog.Logger) *ApprovalHandler {
	return &ApprovalHandler{
		approvalService: approvalService,
		logger:          logger,
	}
}

type decisionResponse struct {
	OK       bool                   `json:"ok"`
	Approval *catalog.EventApproval `json:"approval"`
}

// ListApprovals lists approvals by status (default pending)
// GET /events/approvals?status=
func (h *ApprovalHandler) ListApprovals(w http.ResponseWriter, r *http.Request) {
	approvals, err := h.approvalService.ListApprovals(r.Context(), httputil.GetActor(r), r.URL.Query().Get("status"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listResponse[catalog.EventApproval]{Items: approvals})
}

// Approve applies a pending approval
// POST /events/approvals/{id}/approve
func (h *ApprovalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.approvalService.Approve)
}

// Reject rejects a pending approval
// POST /events/approvals/{id}/reject
func (h *ApprovalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.approvalService.Reject)
}

type decideFunc func(ctx context.Context, actor *models.Actor, id string, req *catalogSvc.DecisionRequest) (*catalog.EventApproval, error)

func (h *ApprovalHandler) decide(w http.ResponseWriter, r *http.Request, fn decideFunc) {
	var req catalogSvc.DecisionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	approval, err := fn(r.Context(), httputil.GetActor(r), r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, decisionResponse{OK: true, Approval: approval})
}
