package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	catalogSvc "github.com/C3604/ChronoAtlas/internal/domain/services/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEvent(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	res, err := s.events.CreateEvent(ctx, superAdmin, &catalogSvc.CreateEventRequest{
		Title:   "  Qin unification ",
		Summary: "Qin conquers the other six states.",
		Time:    yearSpan(-230, -221),
		TagIDs:  catalog.StringList{"tag_1"},
		Tags:    []catalog.TagRef{{Name: "Dynasties"}},
	})
	require.NoError(t, err)
	require.False(t, res.Pending)

	event := res.Event
	assert.Equal(t, "Qin unification", event.Title)
	assert.Equal(t, superAdmin.ID, event.CreatedBy)
	assert.Equal(t, event.CreatedAt, event.UpdatedAt)
	require.Len(t, event.Tags, 2)
	assert.Equal(t, "战争", event.Tags[0].Name)
	assert.Equal(t, "Dynasties", event.Tags[1].Name)

	tags, err := s.tags.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 6)

	versions, err := s.events.ListVersions(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, catalog.VersionCreate, versions[0].Action)
	assert.Equal(t, "Qin unification", versions[0].Snapshot.Title)
}

func TestCreateEventValidation(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   *catalogSvc.CreateEventRequest
		field string
	}{
		{
			name:  "blank title",
			req:   &catalogSvc.CreateEventRequest{Title: "   ", Time: singleYear(1)},
			field: "title",
		},
		{
			name:  "missing time",
			req:   &catalogSvc.CreateEventRequest{Title: "No time"},
			field: "time",
		},
		{
			name: "precision finer than fields",
			req: &catalogSvc.CreateEventRequest{Title: "Too precise", Time: &catalog.EventTime{
				Start:     catalog.TimePoint{Year: 1949, Month: intPtr(10)},
				Precision: catalog.PrecisionDay,
			}},
			field: "time.precision",
		},
		{
			name:  "start after end",
			req:   &catalogSvc.CreateEventRequest{Title: "Backwards", Time: yearSpan(10, 5)},
			field: "time.end",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.events.CreateEvent(ctx, superAdmin, tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.Equal(t, tt.field, domain.FieldOf(err))
		})
	}

	doc := readDoc(t, s)
	assert.Empty(t, doc.Events)
	assert.Empty(t, doc.EventVersions)
}

func TestEventWritesRequirePermission(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	req := &catalogSvc.CreateEventRequest{Title: "x", Time: singleYear(1)}

	_, err := s.events.CreateEvent(ctx, nil, req)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.events.CreateEvent(ctx, reader, req)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	created := mustCreate(t, s, req)
	_, err = s.events.RestoreVersion(ctx, editor, created.ID, "ver_x")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestEditorCreateQueuesApproval(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	res, err := s.events.CreateEvent(ctx, editor, &catalogSvc.CreateEventRequest{
		Title:  "Proposed",
		Time:   singleYear(1066),
		TagIDs: catalog.StringList{"tag_1", "Normans"},
	})
	require.NoError(t, err)
	assert.True(t, res.Pending)
	assert.Nil(t, res.Event)
	assert.NotEmpty(t, res.ApprovalID)

	doc := readDoc(t, s)
	assert.Empty(t, doc.Events)
	assert.Len(t, doc.Tags, 5, "proposed tags are created on approval")
	require.Len(t, doc.EventApprovals, 1)
	a := doc.EventApprovals[0]
	assert.Equal(t, catalog.ApprovalCreate, a.Action)
	assert.Equal(t, catalog.ApprovalPending, a.Status)
	assert.Equal(t, editor.ID, a.RequestedBy)
	require.Len(t, a.Draft.Tags, 2)
	assert.Equal(t, "Normans", a.Draft.Tags[1].Name)
}

func TestUpdateEvent(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	created := mustCreate(t, s, &catalogSvc.CreateEventRequest{
		Title:   "Original",
		Summary: "keep me",
		Time:    singleYear(1500),
		TagIDs:  catalog.StringList{"tag_2"},
	})

	res, err := s.events.UpdateEvent(ctx, admin, created.ID, &catalogSvc.UpdateEventRequest{
		Title: strPtr("Renamed"),
		Time:  &catalog.TimePatch{End: &catalog.TimePoint{Year: 1510}},
	})
	require.NoError(t, err)

	updated := res.Event
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "keep me", updated.Summary)
	assert.Equal(t, 1500, updated.Time.Start.Year)
	assert.Equal(t, 1510, updated.Time.End.Year)
	assert.Equal(t, []string{"tag_2"}, updated.TagIDs, "absent tag input keeps tags")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	versions, err := s.events.ListVersions(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, catalog.VersionUpdate, versions[1].Action)
	assert.Equal(t, "Original", versions[1].Snapshot.Title, "update records the prior state")
	assert.Equal(t, admin.ID, versions[1].ChangedBy)

	res, err = s.events.UpdateEvent(ctx, admin, created.ID, &catalogSvc.UpdateEventRequest{
		TagIDs: catalog.StringList{},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Event.TagIDs, "empty tag list clears tags")
}

func TestUpdateEventRejectsInvalidMerge(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	created := mustCreate(t, s, &catalogSvc.CreateEventRequest{Title: "Span", Time: yearSpan(100, 200)})

	_, err := s.events.UpdateEvent(ctx, superAdmin, created.ID, &catalogSvc.UpdateEventRequest{
		Time: &catalog.TimePatch{Start: &catalog.TimePoint{Year: 300}},
	})
	require.Error(t, err)
	assert.Equal(t, "time.end", domain.FieldOf(err))

	_, err = s.events.UpdateEvent(ctx, superAdmin, "evt_missing", &catalogSvc.UpdateEventRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteEvent(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	created := mustCreate(t, s, &catalogSvc.CreateEventRequest{Title: "Gone soon", Time: singleYear(5)})

	res, err := s.events.DeleteEvent(ctx, superAdmin, created.ID)
	require.NoError(t, err)
	assert.False(t, res.Pending)

	_, err = s.events.GetEvent(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	versions, err := s.events.ListVersions(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, catalog.VersionDelete, versions[1].Action)
	assert.Equal(t, "Gone soon", versions[1].Snapshot.Title)

	_, err = s.events.DeleteEvent(ctx, superAdmin, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRestoreVersionRoundTrip(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	created := mustCreate(t, s, &catalogSvc.CreateEventRequest{
		Title:  "First draft",
		Time:   singleYear(800),
		TagIDs: catalog.StringList{"tag_3"},
	})
	_, err := s.events.UpdateEvent(ctx, superAdmin, created.ID, &catalogSvc.UpdateEventRequest{Title: strPtr("Second draft")})
	require.NoError(t, err)
	_, err = s.events.DeleteEvent(ctx, superAdmin, created.ID)
	require.NoError(t, err)

	versions, err := s.events.ListVersions(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)

	restored, err := s.events.RestoreVersion(ctx, admin, created.ID, versions[0].ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, restored.ID)
	assert.Equal(t, "First draft", restored.Title)
	assert.Equal(t, created.CreatedAt, restored.CreatedAt)
	assert.True(t, restored.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, []string{"tag_3"}, restored.TagIDs)

	doc := readDoc(t, s)
	assert.Len(t, doc.Events, 1, "a deleted event is re-added")

	versions, err = s.events.ListVersions(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, versions, 4)
	last := versions[3]
	assert.Equal(t, catalog.VersionRestore, last.Action)
	assert.Equal(t, "restore:"+versions[0].ID, last.Note)
	assert.Equal(t, admin.ID, last.ChangedBy)

	// restoring onto a live event replaces it in place
	_, err = s.events.RestoreVersion(ctx, admin, created.ID, versions[2].ID)
	require.NoError(t, err)
	view, err := s.events.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Second draft", view.Title)
	assert.Len(t, readDoc(t, s).Events, 1)
}

func TestRestoreVersionErrors(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	a := mustCreate(t, s, &catalogSvc.CreateEventRequest{Title: "A", Time: singleYear(1)})
	b := mustCreate(t, s, &catalogSvc.CreateEventRequest{Title: "B", Time: singleYear(2)})

	_, err := s.events.RestoreVersion(ctx, superAdmin, a.ID, "  ")
	assert.Equal(t, "versionId", domain.FieldOf(err))

	_, err = s.events.RestoreVersion(ctx, superAdmin, a.ID, "ver_missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	versionsB, err := s.events.ListVersions(ctx, b.ID)
	require.NoError(t, err)
	_, err = s.events.RestoreVersion(ctx, superAdmin, a.ID, versionsB[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "a version only restores its own event")
}

func TestListVersionsUnknownEventIsEmpty(t *testing.T) {
	s := newServices(t)
	versions, err := s.events.ListVersions(context.Background(), "evt_none")
	require.NoError(t, err)
	assert.NotNil(t, versions)
	assert.Empty(t, versions)
}
