package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	"github.com/C3604/ChronoAtlas/internal/domain/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "db.json")
	store := NewDocumentStore(path)

	doc, rev, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, doc)

	saved := &catalog.Document{
		Events: []*catalog.Event{{
			ID:     "evt_1",
			Title:  "Unification of Qin",
			Time:   catalog.EventTime{Start: catalog.TimePoint{Year: -220}, Precision: catalog.PrecisionYear},
			TagIDs: []string{"tag_1"},
		}},
		Tags: []*catalog.Tag{{ID: "tag_1", Name: "战争"}},
	}
	rev, err = store.Save(ctx, saved, rev)
	require.NoError(t, err)

	loaded, loadedRev, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, rev, loadedRev)
	require.Len(t, loaded.Events, 1)
	assert.Equal(t, -220, loaded.Events[0].Time.Start.Year)
	assert.Equal(t, "战争", loaded.Tags[0].Name)

	_, err = store.Save(ctx, saved, rev-1)
	assert.ErrorIs(t, err, repositories.ErrRevisionConflict)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestDocumentStore_ExternalEditIsConflict(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"events":[],"tags":[]}`), 0o644))

	store := NewDocumentStore(path)
	_, rev, err := store.Load(ctx)
	require.NoError(t, err)

	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	_, err = store.Save(ctx, &catalog.Document{}, rev)
	assert.ErrorIs(t, err, repositories.ErrRevisionConflict)
}

func TestDocumentStore_BlankFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o644))

	doc, _, err := NewDocumentStore(path).Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, doc)
}
