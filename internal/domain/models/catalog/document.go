package catalog

import (
	"slices"
	"time"
)

// UserProfile holds optional contact details for a user.
type UserProfile struct {
	Phone        string `json:"phone,omitempty"`
	Title        string `json:"title,omitempty"`
	Organization string `json:"organization,omitempty"`
	Location     string `json:"location,omitempty"`
	Bio          string `json:"bio,omitempty"`
}

// User is an account stored in the catalog document. Role is kept as the
// raw stored string so legacy values survive decoding until normalization.
type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         string       `json:"role"`
	PasswordHash string       `json:"passwordHash"`
	Salt         string       `json:"salt,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	Profile      *UserProfile `json:"profile"`
}

// Session is an issued login session.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Document is the whole catalog state, persisted as one unit.
type Document struct {
	Events         []*Event         `json:"events"`
	Tags           []*Tag           `json:"tags"`
	Users          []*User          `json:"users"`
	Sessions       []*Session       `json:"sessions"`
	EventVersions  []*EventVersion  `json:"eventVersions"`
	EventApprovals []*EventApproval `json:"eventApprovals"`

	// Categories is only populated by documents written before the tag merge.
	Categories []*Category `json:"categories,omitempty"`
}

// EventIndex returns the position of the event with id, or -1.
func (d *Document) EventIndex(id string) int {
	return slices.IndexFunc(d.Events, func(e *Event) bool { return e.ID == id })
}

// FindEvent returns the live event with id, or nil.
func (d *Document) FindEvent(id string) *Event {
	if i := d.EventIndex(id); i >= 0 {
		return d.Events[i]
	}
	return nil
}

// TagIndex returns the position of the tag with id, or -1.
func (d *Document) TagIndex(id string) int {
	return slices.IndexFunc(d.Tags, func(t *Tag) bool { return t.ID == id })
}

// FindTag returns the tag with id, or nil.
func (d *Document) FindTag(id string) *Tag {
	if i := d.TagIndex(id); i >= 0 {
		return d.Tags[i]
	}
	return nil
}

// FindApproval returns the approval with id, or nil.
func (d *Document) FindApproval(id string) *EventApproval {
	for _, a := range d.EventApprovals {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// FindUser returns the user with id, or nil.
func (d *Document) FindUser(id string) *User {
	for _, u := range d.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// View expands an event's tag ids into tags. Ids with no tag are skipped.
func (d *Document) View(e *Event) EventView {
	byID := make(map[string]*Tag, len(d.Tags))
	for _, t := range d.Tags {
		byID[t.ID] = t
	}
	return d.view(e, byID)
}

// Views expands a list of events.
func (d *Document) Views(events []*Event) []EventView {
	byID := make(map[string]*Tag, len(d.Tags))
	for _, t := range d.Tags {
		byID[t.ID] = t
	}
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		out = append(out, d.view(e, byID))
	}
	return out
}

func (d *Document) view(e *Event, byID map[string]*Tag) EventView {
	tags := make([]Tag, 0, len(e.TagIDs))
	for _, id := range e.TagIDs {
		if t, ok := byID[id]; ok {
			tags = append(tags, *t)
		}
	}
	return EventView{Event: *e.Clone(), Tags: tags}
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := &Document{
		Events:         make([]*Event, 0, len(d.Events)),
		Tags:           make([]*Tag, 0, len(d.Tags)),
		Users:          make([]*User, 0, len(d.Users)),
		Sessions:       make([]*Session, 0, len(d.Sessions)),
		EventVersions:  make([]*EventVersion, 0, len(d.EventVersions)),
		EventApprovals: make([]*EventApproval, 0, len(d.EventApprovals)),
	}
	for _, e := range d.Events {
		out.Events = append(out.Events, e.Clone())
	}
	for _, t := range d.Tags {
		out.Tags = append(out.Tags, cloneTag(t))
	}
	for _, u := range d.Users {
		c := *u
		if u.Profile != nil {
			p := *u.Profile
			c.Profile = &p
		}
		out.Users = append(out.Users, &c)
	}
	for _, s := range d.Sessions {
		c := *s
		out.Sessions = append(out.Sessions, &c)
	}
	for _, v := range d.EventVersions {
		c := *v
		c.Snapshot = *v.Snapshot.Clone()
		out.EventVersions = append(out.EventVersions, &c)
	}
	for _, a := range d.EventApprovals {
		out.EventApprovals = append(out.EventApprovals, a.Clone())
	}
	for _, c := range d.Categories {
		out.Categories = append(out.Categories, cloneTag(c))
	}
	return out
}

func cloneTag(t *Tag) *Tag {
	c := *t
	if t.ParentID != nil {
		p := *t.ParentID
		c.ParentID = &p
	}
	return &c
}
