package catalog

import (
	"slices"
	"time"
)

// ApprovalAction is the kind of change an approval proposes.
type ApprovalAction string

const (
	ApprovalCreate ApprovalAction = "create"
	ApprovalUpdate ApprovalAction = "update"
	ApprovalDelete ApprovalAction = "delete"
)

// ApprovalStatus is the state of an approval. Approved and rejected are terminal.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// ParseApprovalStatus maps a query value to a status. Empty means pending.
func ParseApprovalStatus(raw string) (ApprovalStatus, bool) {
	switch ApprovalStatus(raw) {
	case "", ApprovalPending:
		return ApprovalPending, true
	case ApprovalApproved:
		return ApprovalApproved, true
	case ApprovalRejected:
		return ApprovalRejected, true
	}
	return "", false
}

// EventDraft is the proposed content of a create or update approval.
// Tags keeps the names of the resolved tags so a tag deleted before the
// decision is recreated under its name rather than its id.
type EventDraft struct {
	Title   string    `json:"title"`
	Summary string    `json:"summary"`
	Time    EventTime `json:"time"`
	TagIDs  []string  `json:"tagIds"`
	Tags    []TagRef  `json:"tags,omitempty"`

	CategoryIDs []string `json:"categoryIds,omitempty"`
}

// Clone returns a deep copy of d.
func (d *EventDraft) Clone() *EventDraft {
	if d == nil {
		return nil
	}
	out := *d
	out.Time = d.Time.Clone()
	out.TagIDs = cloneIDs(d.TagIDs)
	out.Tags = slices.Clone(d.Tags)
	out.CategoryIDs = slices.Clone(d.CategoryIDs)
	return &out
}

// EventApproval is a queued change awaiting a maker-checker decision.
type EventApproval struct {
	ID              string         `json:"id"`
	Action          ApprovalAction `json:"action"`
	EventID         string         `json:"eventId,omitempty"`
	Draft           *EventDraft    `json:"draft,omitempty"`
	Snapshot        *Event         `json:"snapshot,omitempty"`
	RequestedBy     string         `json:"requestedBy,omitempty"`
	RequestedByName string         `json:"requestedByName,omitempty"`
	RequestedAt     time.Time      `json:"requestedAt"`
	Status          ApprovalStatus `json:"status"`
	DecidedBy       string         `json:"decidedBy,omitempty"`
	DecidedAt       *time.Time     `json:"decidedAt,omitempty"`
	Note            string         `json:"note,omitempty"`
	ResultEventID   string         `json:"resultEventId,omitempty"`
}

// Clone returns a deep copy of a.
func (a *EventApproval) Clone() *EventApproval {
	out := *a
	out.Draft = a.Draft.Clone()
	out.Snapshot = a.Snapshot.Clone()
	if a.DecidedAt != nil {
		t := *a.DecidedAt
		out.DecidedAt = &t
	}
	return &out
}
