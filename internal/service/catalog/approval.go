package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	catalogSvc "github.com/C3604/ChronoAtlas/internal/domain/services/catalog"
)

// approvalService implements the ApprovalService interface
type approvalService struct {
	store  *Store
	logger *slog.Logger
}

// NewApprovalService creates a new approval service
func NewApprovalService(store *Store, logger *slog.Logger) catalogSvc.ApprovalService {
	return &approvalService{
		store:  store,
		logger: logger,
	}
}

func (s *approvalService) ListApprovals(ctx context.Context, actor *models.Actor, status string) ([]catalog.EventApproval, error) {
	if err := authorize(actor, models.CanApprove, "no permission to review approvals"); err != nil {
		return nil, err
	}
	want, ok := catalog.ParseApprovalStatus(strings.TrimSpace(status))
	if !ok {
		return nil, domain.NewValidationError("status", "status must be one of pending, approved, rejected")
	}

	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]catalog.EventApproval, 0)
	for _, a := range doc.EventApprovals {
		if a.Status != want {
			continue
		}
		item := *a.Clone()
		if u := doc.FindUser(a.RequestedBy); u != nil && u.Name != "" {
			item.RequestedByName = u.Name
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *approvalService) Approve(ctx context.Context, actor *models.Actor, id string, req *catalogSvc.DecisionRequest) (*catalog.EventApproval, error) {
	return s.decide(ctx, actor, id, req, catalog.ApprovalApproved)
}

func (s *approvalService) Reject(ctx context.Context, actor *models.Actor, id string, req *catalogSvc.DecisionRequest) (*catalog.EventApproval, error) {
	return s.decide(ctx, actor, id, req, catalog.ApprovalRejected)
}

// decide moves a pending approval to a terminal status, applying its change
// first when approving. Either both happen or neither is saved.
func (s *approvalService) decide(ctx context.Context, actor *models.Actor, id string, req *catalogSvc.DecisionRequest, status catalog.ApprovalStatus) (*catalog.EventApproval, error) {
	if err := authorize(actor, models.CanApprove, "no permission to review approvals"); err != nil {
		return nil, err
	}
	note := ""
	if req != nil {
		note = strings.TrimSpace(req.Note)
	}

	var out *catalog.EventApproval
	err := s.store.Update(ctx, func(doc *catalog.Document) error {
		a := doc.FindApproval(id)
		if a == nil {
			return domain.NewNotFoundError("approval", id)
		}
		if a.Status != catalog.ApprovalPending {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("approval %s already processed", id),
				ResourceType: "approval",
				ResourceID:   id,
			}
		}

		if status == catalog.ApprovalApproved {
			if err := s.apply(doc, actor, a); err != nil {
				return err
			}
		}

		decidedAt := now()
		a.Status = status
		a.DecidedBy = actor.ID
		a.DecidedAt = &decidedAt
		if note != "" {
			a.Note = note
		}
		out = a.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("approval decided",
		"id", id,
		"action", out.Action,
		"status", out.Status,
		"decided_by", actor.ID,
		"result_event_id", out.ResultEventID,
	)
	return out, nil
}

// apply commits the change an approval carries. Tags are re-resolved
// against the tag set as it is now.
func (s *approvalService) apply(doc *catalog.Document, actor *models.Actor, a *catalog.EventApproval) error {
	note := approvalNote(a.ID)

	switch a.Action {
	case catalog.ApprovalCreate:
		if a.Draft == nil {
			return domain.NewValidationError("draft", "approval %s has no draft", a.ID)
		}
		ts := now()
		event := &catalog.Event{
			ID:        catalog.NewID(catalog.PrefixEvent),
			Title:     a.Draft.Title,
			Summary:   a.Draft.Summary,
			Time:      a.Draft.Time.Clone(),
			TagIDs:    ResolveTagIDs(doc, draftTagInput(a.Draft)),
			CreatedAt: ts,
			UpdatedAt: ts,
			CreatedBy: a.RequestedBy,
		}
		doc.Events = append(doc.Events, event)
		recordVersion(doc, event, catalog.VersionCreate, actor.ID, note)
		a.ResultEventID = event.ID

	case catalog.ApprovalUpdate:
		if a.Draft == nil || a.EventID == "" {
			return domain.NewValidationError("draft", "approval %s has no draft", a.ID)
		}
		current := doc.FindEvent(a.EventID)
		if current == nil {
			return domain.NewNotFoundError("event", a.EventID)
		}
		tagIDs := ResolveTagIDs(doc, draftTagInput(a.Draft))
		recordVersion(doc, current, catalog.VersionUpdate, actor.ID, note)
		current.Title = a.Draft.Title
		current.Summary = a.Draft.Summary
		current.Time = a.Draft.Time.Clone()
		current.TagIDs = tagIDs
		current.UpdatedAt = now()

	case catalog.ApprovalDelete:
		idx := doc.EventIndex(a.EventID)
		if a.EventID == "" || idx < 0 {
			return domain.NewNotFoundError("event", a.EventID)
		}
		recordVersion(doc, doc.Events[idx], catalog.VersionDelete, actor.ID, note)
		doc.Events = append(doc.Events[:idx], doc.Events[idx+1:]...)

	default:
		return domain.NewValidationError("action", "unknown approval action %q", a.Action)
	}
	return nil
}
