package catalog

import (
	"slices"
	"time"
)

// Event is a time-anchored historical event.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Time      EventTime `json:"time"`
	TagIDs    []string  `json:"tagIds"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy string    `json:"createdBy,omitempty"`

	// CategoryIDs is only populated by documents written before the tag merge.
	CategoryIDs []string `json:"categoryIds,omitempty"`
}

// Clone returns a deep copy of e.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	out := *e
	out.Time = e.Time.Clone()
	out.TagIDs = cloneIDs(e.TagIDs)
	out.CategoryIDs = slices.Clone(e.CategoryIDs)
	return &out
}

// HasTag reports whether the event carries tagID.
func (e *Event) HasTag(tagID string) bool {
	return slices.Contains(e.TagIDs, tagID)
}

// cloneIDs copies ids, turning nil into an empty list so JSON encodes [].
func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// EventView is an event with its tags expanded inline.
type EventView struct {
	Event
	Tags []Tag `json:"tags"`
}

// EventList is the result shape of list, search and export queries.
type EventList struct {
	Items []EventView `json:"items"`
	Total int         `json:"total"`
}
