package catalog

import (
	"context"

	"github.com/C3604/ChronoAtlas/internal/domain/models"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
)

// ApprovalService decides queued editor changes.
type ApprovalService interface {
	// ListApprovals returns approvals in the given status ("" means pending)
	ListApprovals(ctx context.Context, actor *models.Actor, status string) ([]catalog.EventApproval, error)

	// Approve applies the queued change and marks the approval approved
	Approve(ctx context.Context, actor *models.Actor, id string, req *DecisionRequest) (*catalog.EventApproval, error)

	// Reject marks the approval rejected without touching any event
	Reject(ctx context.Context, actor *models.Actor, id string, req *DecisionRequest) (*catalog.EventApproval, error)
}

// DecisionRequest carries the optional reviewer note.
type DecisionRequest struct {
	Note string `json:"note"`
}
