package catalog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	catalogSvc "github.com/C3604/ChronoAtlas/internal/domain/services/catalog"
)

// eventService implements the EventService interface
type eventService struct {
	store  *Store
	logger *slog.Logger
}

// NewEventService creates a new event service
func NewEventService(store *Store, logger *slog.Logger) catalogSvc.EventService {
	return &eventService{
		store:  store,
		logger: logger,
	}
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*catalog.EventView, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	event := doc.FindEvent(id)
	if event == nil {
		return nil, domain.NewNotFoundError("event", id)
	}
	view := doc.View(event)
	return &view, nil
}

func (s *eventService) CreateEvent(ctx context.Context, actor *models.Actor, req *catalogSvc.CreateEventRequest) (*catalogSvc.WriteResult, error) {
	if err := authorize(actor, models.CanWriteContent, "no permission to write content"); err != nil {
		return nil, err
	}

	content := eventContent{
		Title:   strings.TrimSpace(req.Title),
		Summary: strings.TrimSpace(req.Summary),
		Time:    req.Time,
	}
	if err := validateEventContent(content); err != nil {
		return nil, err
	}
	input := tagInputOf(req)

	var result *catalogSvc.WriteResult
	err := s.store.Update(ctx, func(doc *catalog.Document) error {
		if models.RequiresApproval(actor.Role) {
			tagIDs, refs := proposeTagIDs(doc, input)
			approval := queueApproval(doc, actor, catalog.ApprovalCreate, "", &catalog.EventDraft{
				Title:   content.Title,
				Summary: content.Summary,
				Time:    content.Time.Clone(),
				TagIDs:  tagIDs,
				Tags:    refs,
			}, nil)
			result = &catalogSvc.WriteResult{Pending: true, ApprovalID: approval.ID}
			return nil
		}

		ts := now()
		event := &catalog.Event{
			ID:        catalog.NewID(catalog.PrefixEvent),
			Title:     content.Title,
			Summary:   content.Summary,
			Time:      content.Time.Clone(),
			TagIDs:    ResolveTagIDs(doc, input),
			CreatedAt: ts,
			UpdatedAt: ts,
			CreatedBy: actor.ID,
		}
		doc.Events = append(doc.Events, event)
		recordVersion(doc, event, catalog.VersionCreate, actor.ID, "")

		view := doc.View(event)
		result = &catalogSvc.WriteResult{Event: &view}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Pending {
		s.logger.Info("event create queued for approval", "approval_id", result.ApprovalID, "requested_by", actor.ID)
	} else {
		s.logger.Info("event created", "id", result.Event.ID, "created_by", actor.ID)
	}
	return result, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, actor *models.Actor, id string, req *catalogSvc.UpdateEventRequest) (*catalogSvc.WriteResult, error) {
	if err := authorize(actor, models.CanWriteContent, "no permission to write content"); err != nil {
		return nil, err
	}

	var result *catalogSvc.WriteResult
	err := s.store.Update(ctx, func(doc *catalog.Document) error {
		current := doc.FindEvent(id)
		if current == nil {
			return domain.NewNotFoundError("event", id)
		}

		content := eventContent{Title: current.Title, Summary: current.Summary}
		if req.Title != nil {
			content.Title = *req.Title
		}
		if req.Summary != nil {
			content.Summary = *req.Summary
		}
		content.Title = strings.TrimSpace(content.Title)
		content.Summary = strings.TrimSpace(content.Summary)
		merged := current.Time.Merge(req.Time)
		content.Time = &merged
		if err := validateEventContent(content); err != nil {
			return err
		}

		if models.RequiresApproval(actor.Role) {
			tagIDs, refs := current.TagIDs, tagRefsFor(doc, current.TagIDs)
			if req.HasTagInput() {
				tagIDs, refs = proposeTagIDs(doc, updateTagInputOf(req))
			}
			approval := queueApproval(doc, actor, catalog.ApprovalUpdate, id, &catalog.EventDraft{
				Title:   content.Title,
				Summary: content.Summary,
				Time:    merged,
				TagIDs:  tagIDs,
				Tags:    refs,
			}, current)
			result = &catalogSvc.WriteResult{Pending: true, ApprovalID: approval.ID}
			return nil
		}

		tagIDs := current.TagIDs
		if req.HasTagInput() {
			tagIDs = ResolveTagIDs(doc, updateTagInputOf(req))
		}
		recordVersion(doc, current, catalog.VersionUpdate, actor.ID, "")
		current.Title = content.Title
		current.Summary = content.Summary
		current.Time = merged
		current.TagIDs = tagIDs
		current.UpdatedAt = now()

		view := doc.View(current)
		result = &catalogSvc.WriteResult{Event: &view}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Pending {
		s.logger.Info("event update queued for approval", "id", id, "approval_id", result.ApprovalID)
	} else {
		s.logger.Info("event updated", "id", id, "updated_by", actor.ID)
	}
	return result, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, actor *models.Actor, id string) (*catalogSvc.WriteResult, error) {
	if err := authorize(actor, models.CanWriteContent, "no permission to write content"); err != nil {
		return nil, err
	}

	var result *catalogSvc.WriteResult
	err := s.store.Update(ctx, func(doc *catalog.Document) error {
		idx := doc.EventIndex(id)
		if idx < 0 {
			return domain.NewNotFoundError("event", id)
		}
		current := doc.Events[idx]

		if models.RequiresApproval(actor.Role) {
			approval := queueApproval(doc, actor, catalog.ApprovalDelete, id, nil, current)
			result = &catalogSvc.WriteResult{Pending: true, ApprovalID: approval.ID}
			return nil
		}

		recordVersion(doc, current, catalog.VersionDelete, actor.ID, "")
		doc.Events = append(doc.Events[:idx], doc.Events[idx+1:]...)
		result = &catalogSvc.WriteResult{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Pending {
		s.logger.Info("event delete queued for approval", "id", id, "approval_id", result.ApprovalID)
	} else {
		s.logger.Info("event deleted", "id", id, "deleted_by", actor.ID)
	}
	return result, nil
}

func (s *eventService) ListVersions(ctx context.Context, eventID string) ([]catalog.EventVersion, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]catalog.EventVersion, 0)
	for _, v := range doc.EventVersions {
		if v.EventID == eventID {
			items = append(items, *v)
		}
	}
	return items, nil
}

func (s *eventService) RestoreVersion(ctx context.Context, actor *models.Actor, eventID, versionID string) (*catalog.EventView, error) {
	if err := authorize(actor, models.CanManageContent, "no permission to manage content"); err != nil {
		return nil, err
	}
	versionID = strings.TrimSpace(versionID)
	if versionID == "" {
		return nil, domain.NewValidationError("versionId", "versionId is required")
	}

	var view catalog.EventView
	err := s.store.Update(ctx, func(doc *catalog.Document) error {
		var source *catalog.EventVersion
		for _, v := range doc.EventVersions {
			if v.ID == versionID && v.EventID == eventID {
				source = v
				break
			}
		}
		if source == nil {
			return domain.NewNotFoundError("version", versionID)
		}

		restored := source.Snapshot.Clone()
		restored.UpdatedAt = now()
		if idx := doc.EventIndex(eventID); idx >= 0 {
			doc.Events[idx] = restored
		} else {
			doc.Events = append(doc.Events, restored)
		}
		recordVersion(doc, restored, catalog.VersionRestore, actor.ID, restoreNote(versionID))

		view = doc.View(restored)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("event restored", "id", eventID, "version_id", versionID, "restored_by", actor.ID)
	return &view, nil
}

func tagInputOf(req *catalogSvc.CreateEventRequest) TagInput {
	return TagInput{
		IDs:          req.TagIDs,
		Refs:         req.Tags,
		CategoryIDs:  req.CategoryIDs,
		CategoryRefs: req.Categories,
	}
}

func updateTagInputOf(req *catalogSvc.UpdateEventRequest) TagInput {
	return TagInput{
		IDs:          req.TagIDs,
		Refs:         req.Tags,
		CategoryIDs:  req.CategoryIDs,
		CategoryRefs: req.Categories,
	}
}
