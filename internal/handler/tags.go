package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	catalogSvc "github.com/C3604/ChronoAtlas/internal/domain/services/catalog"
	"github.com/C3604/ChronoAtlas/internal/httputil"
)

// TagHandler handles tag vocabulary requests
type TagHandler struct {
	tagService catalogSvc.TagService
	logger     *slog.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService catalogSvc.TagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		logger:     logger,
	}
}

// ListTags lists every tag
// GET /tags
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.ListTags(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listResponse[catalog.Tag]{Items: tags})
}

// CreateTag creates a tag
// POST /tags
// Returns 409 with the existing tag when the name is taken
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req catalogSvc.CreateTagRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	tag, err := h.tagService.CreateTag(r.Context(), httputil.GetActor(r), &req)
	if err != nil {
		HandleCreateConflict(w, err, func(id string) (*catalog.Tag, error) {
			return h.findTag(r.Context(), id)
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, tag)
}

// updateTagRequest distinguishes an absent parentId from an explicit null
type updateTagRequest struct {
	Name     *string                 `json:"name"`
	ParentID httputil.OptionalString `json:"parentId"`
}

// UpdateTag renames or reparents a tag
// PATCH /tags/{id}
func (h *TagHandler) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var req updateTagRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, err)
		return
	}

	tag, err := h.tagService.UpdateTag(r.Context(), httputil.GetActor(r), r.PathValue("id"), &catalogSvc.UpdateTagRequest{
		Name:        req.Name,
		ParentID:    req.ParentID.Value,
		ParentIDSet: req.ParentID.Present,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tag)
}

// DeleteTag deletes a tag and strips it from events
// DELETE /tags/{id}
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.tagService.DeleteTag(r.Context(), httputil.GetActor(r), r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, okResponse{OK: true})
}

func (h *TagHandler) findTag(ctx context.Context, id string) (*catalog.Tag, error) {
	tags, err := h.tagService.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tags {
		if tags[i].ID == id {
			return &tags[i], nil
		}
	}
	return nil, domain.NewNotFoundError("tag", id)
}
