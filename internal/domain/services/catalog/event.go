package catalog

import (
	"context"

	"github.com/C3604/ChronoAtlas/internal/domain/models"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
)

// EventService handles event writes, version history and restore.
// Writes by editors are queued as approvals instead of being applied.
type EventService interface {
	// GetEvent returns one event with its tags expanded
	GetEvent(ctx context.Context, id string) (*catalog.EventView, error)

	// CreateEvent creates an event, or queues a create approval for editors
	CreateEvent(ctx context.Context, actor *models.Actor, req *CreateEventRequest) (*WriteResult, error)

	// UpdateEvent applies a partial update, or queues an update approval for editors
	UpdateEvent(ctx context.Context, actor *models.Actor, id string, req *UpdateEventRequest) (*WriteResult, error)

	// DeleteEvent removes an event, or queues a delete approval for editors
	DeleteEvent(ctx context.Context, actor *models.Actor, id string) (*WriteResult, error)

	// ListVersions returns the version history of an event in recording order
	ListVersions(ctx context.Context, eventID string) ([]catalog.EventVersion, error)

	// RestoreVersion replaces the live event with a recorded snapshot
	RestoreVersion(ctx context.Context, actor *models.Actor, eventID, versionID string) (*catalog.EventView, error)
}

// CreateEventRequest is the body of an event create. Tags and Categories
// carry inline references that may name tags which do not exist yet.
type CreateEventRequest struct {
	Title       string             `json:"title" yaml:"title"`
	Summary     string             `json:"summary" yaml:"summary"`
	Time        *catalog.EventTime `json:"time" yaml:"time"`
	TagIDs      catalog.StringList `json:"tagIds" yaml:"tagIds"`
	Tags        []catalog.TagRef   `json:"tags" yaml:"tags"`
	CategoryIDs catalog.StringList `json:"categoryIds" yaml:"categoryIds"`
	Categories  []catalog.TagRef   `json:"categories" yaml:"categories"`
}

// UpdateEventRequest is the body of a partial event update. Absent fields
// keep their current value; TagIDs absent keeps the current tags.
type UpdateEventRequest struct {
	Title       *string            `json:"title"`
	Summary     *string            `json:"summary"`
	Time        *catalog.TimePatch `json:"time"`
	TagIDs      catalog.StringList `json:"tagIds"`
	Tags        []catalog.TagRef   `json:"tags"`
	CategoryIDs catalog.StringList `json:"categoryIds"`
	Categories  []catalog.TagRef   `json:"categories"`
}

// HasTagInput reports whether the update supplies any tag references.
func (r *UpdateEventRequest) HasTagInput() bool {
	return r.TagIDs != nil || r.Tags != nil || r.CategoryIDs != nil || r.Categories != nil
}

// WriteResult is the outcome of an event write: either the committed event
// or the id of the approval it was queued under.
type WriteResult struct {
	Event      *catalog.EventView `json:"event,omitempty"`
	Pending    bool               `json:"pending"`
	ApprovalID string             `json:"approvalId,omitempty"`
}
