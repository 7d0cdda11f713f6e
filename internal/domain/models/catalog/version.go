package catalog

import "time"

// VersionAction names the mutation a version was recorded for.
type VersionAction string

const (
	VersionCreate  VersionAction = "create"
	VersionUpdate  VersionAction = "update"
	VersionDelete  VersionAction = "delete"
	VersionRestore VersionAction = "restore"
	VersionImport  VersionAction = "import"
)

// EventVersion is an immutable snapshot of an event. Update and delete
// versions hold the state before the change; create, import and restore
// versions hold the state after it.
type EventVersion struct {
	ID        string        `json:"id"`
	EventID   string        `json:"eventId"`
	Snapshot  Event         `json:"snapshot"`
	Action    VersionAction `json:"action"`
	ChangedAt time.Time     `json:"changedAt"`
	ChangedBy string        `json:"changedBy,omitempty"`
	Note      string        `json:"note,omitempty"`
}
