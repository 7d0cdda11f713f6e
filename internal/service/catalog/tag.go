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

// tagService implements the TagService interface
type tagService struct {
	store  *Store
	logger *slog.Logger
}

// NewTagService creates a new tag service
func NewTagService(store *Store, logger *slog.Logger) catalogSvc.TagService {
	return &tagService{
		store:  store,
		logger: logger,
	}
}

func (s *tagService) ListTags(ctx context.Context) ([]catalog.Tag, error) {
	doc, err := s.store.Read(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]catalog.Tag, 0, len(doc.Tags))
	for _, t := range doc.Tags {
		items = append(items, *t)
	}
	return items, nil
}

// CreateTag adds a tag. A tag with the same name, ignoring case and
// surrounding space, is a conflict carrying the existing tag's id.
func (s *tagService) CreateTag(ctx context.Context, actor *models.Actor, req *catalogSvc.CreateTagRequest) (*catalog.Tag, error) {
	if err := authorize(actor, models.CanManageContent, "no permission to manage tags"); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if err := validateTagName(name); err != nil {
		return nil, err
	}

	var created catalog.Tag
	err := s.store.Update(ctx, func(doc *catalog.Document) error {
		if err := checkNameFree(doc, name, ""); err != nil {
			return err
		}
		parentID, err := checkParent(doc, req.ParentID, "")
		if err != nil {
			return err
		}
		tag := &catalog.Tag{ID: catalog.NewID(catalog.PrefixTag), Name: name, ParentID: parentID}
		doc.Tags = append(doc.Tags, tag)
		created = *tag
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tag created", "id", created.ID, "name", created.Name)
	return &created, nil
}

func (s *tagService) UpdateTag(ctx context.Context, actor *models.Actor, id string, req *catalogSvc.UpdateTagRequest) (*catalog.Tag, error) {
	if err := authorize(actor, models.CanManageContent, "no permission to manage tags"); err != nil {
		return nil, err
	}

	var updated catalog.Tag
	err := s.store.Update(ctx, func(doc *catalog.Document) error {
		tag := doc.FindTag(id)
		if tag == nil {
			return domain.NewNotFoundError("tag", id)
		}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if err := validateTagName(name); err != nil {
				return err
			}
			if err := checkNameFree(doc, name, id); err != nil {
				return err
			}
			tag.Name = name
		}
		if req.ParentIDSet {
			parentID, err := checkParent(doc, req.ParentID, id)
			if err != nil {
				return err
			}
			tag.ParentID = parentID
		}
		updated = *tag
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tag updated", "id", id)
	return &updated, nil
}

func (s *tagService) DeleteTag(ctx context.Context, actor *models.Actor, id string) error {
	if err := authorize(actor, models.CanManageContent, "no permission to manage tags"); err != nil {
		return err
	}

	affected := 0
	err := s.store.Update(ctx, func(doc *catalog.Document) error {
		idx := doc.TagIndex(id)
		if idx < 0 {
			return domain.NewNotFoundError("tag", id)
		}
		doc.Tags = append(doc.Tags[:idx], doc.Tags[idx+1:]...)

		for _, t := range doc.Tags {
			if t.ParentID != nil && *t.ParentID == id {
				t.ParentID = nil
			}
		}

		affected = 0
		ts := now()
		for _, e := range doc.Events {
			if !e.HasTag(id) {
				continue
			}
			kept := make([]string, 0, len(e.TagIDs)-1)
			for _, tagID := range e.TagIDs {
				if tagID != id {
					kept = append(kept, tagID)
				}
			}
			e.TagIDs = kept
			e.UpdatedAt = ts
			affected++
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("tag deleted", "id", id, "events_updated", affected)
	return nil
}

// checkNameFree fails with a conflict when another tag already uses name.
func checkNameFree(doc *catalog.Document, name, selfID string) error {
	key := catalog.NameKey(name)
	for _, t := range doc.Tags {
		if t.ID != selfID && catalog.NameKey(t.Name) == key {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("tag %q already exists", t.Name),
				ResourceType: "tag",
				ResourceID:   t.ID,
			}
		}
	}
	return nil
}

// checkParent validates a parent reference. Empty clears the parent.
func checkParent(doc *catalog.Document, parentID *string, selfID string) (*string, error) {
	if parentID == nil || strings.TrimSpace(*parentID) == "" {
		return nil, nil
	}
	pid := strings.TrimSpace(*parentID)
	if pid == selfID {
		return nil, domain.NewValidationError("parentId", "a tag cannot be its own parent")
	}
	if doc.FindTag(pid) == nil {
		return nil, domain.NewValidationError("parentId", "parent tag %s does not exist", pid)
	}
	// walk up from the new parent; reaching selfID would close a cycle
	seen := map[string]bool{}
	for cur := doc.FindTag(pid); cur != nil && cur.ParentID != nil && !seen[cur.ID]; cur = doc.FindTag(*cur.ParentID) {
		seen[cur.ID] = true
		if selfID != "" && *cur.ParentID == selfID {
			return nil, domain.NewValidationError("parentId", "tag hierarchy cannot contain a cycle")
		}
	}
	return &pid, nil
}
