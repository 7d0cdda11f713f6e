package catalog

import (
	"context"

	"github.com/C3604/ChronoAtlas/internal/domain/models"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
)

// TagService manages the tag vocabulary.
type TagService interface {
	ListTags(ctx context.Context) ([]catalog.Tag, error)
	CreateTag(ctx context.Context, actor *models.Actor, req *CreateTagRequest) (*catalog.Tag, error)
	UpdateTag(ctx context.Context, actor *models.Actor, id string, req *UpdateTagRequest) (*catalog.Tag, error)

	// DeleteTag removes a tag and strips it from every event that carries it
	DeleteTag(ctx context.Context, actor *models.Actor, id string) error
}

// CreateTagRequest is the body of a tag create.
type CreateTagRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

// UpdateTagRequest is a partial tag update.
// This is transport-agnostic - handler maps from httputil.OptionalString.
// ParentIDSet with a nil ParentID clears the parent.
type UpdateTagRequest struct {
	Name        *string
	ParentID    *string
	ParentIDSet bool
}
