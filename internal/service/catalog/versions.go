package catalog

import (
	"time"

	"github.com/C3604/ChronoAtlas/internal/domain/models"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
)

// now is the service clock.
var now = func() time.Time { return time.Now().UTC() }

// recordVersion appends an immutable snapshot of event to the history.
func recordVersion(doc *catalog.Document, event *catalog.Event, action catalog.VersionAction, changedBy, note string) *catalog.EventVersion {
	v := &catalog.EventVersion{
		ID:        catalog.NewID(catalog.PrefixVersion),
		EventID:   event.ID,
		Snapshot:  *event.Clone(),
		Action:    action,
		ChangedAt: now(),
		ChangedBy: changedBy,
		Note:      note,
	}
	doc.EventVersions = append(doc.EventVersions, v)
	return v
}

// queueApproval appends a pending approval requested by actor.
func queueApproval(doc *catalog.Document, actor *models.Actor, action catalog.ApprovalAction, eventID string, draft *catalog.EventDraft, snapshot *catalog.Event) *catalog.EventApproval {
	a := &catalog.EventApproval{
		ID:              catalog.NewID(catalog.PrefixApproval),
		Action:          action,
		EventID:         eventID,
		Draft:           draft.Clone(),
		Snapshot:        snapshot.Clone(),
		RequestedBy:     actor.ID,
		RequestedByName: actor.Name,
		RequestedAt:     now(),
		Status:          catalog.ApprovalPending,
	}
	doc.EventApprovals = append(doc.EventApprovals, a)
	return a
}

func approvalNote(approvalID string) string { return "approval:" + approvalID }

func restoreNote(versionID string) string { return "restore:" + versionID }
