package memory

import (
	"context"
	"testing"

	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	"github.com/C3604/ChronoAtlas/internal/domain/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStore_RevisionCheck(t *testing.T) {
	ctx := context.Background()
	store := NewDocumentStore()

	doc, rev, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.Equal(t, int64(0), rev)

	first := &catalog.Document{Tags: []*catalog.Tag{{ID: "tag_1", Name: "war"}}}
	rev, err = store.Save(ctx, first, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)

	_, err = store.Save(ctx, first, 0)
	assert.ErrorIs(t, err, repositories.ErrRevisionConflict)

	first.Tags[0].Name = "mutated after save"
	loaded, rev, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rev)
	assert.Equal(t, "war", loaded.Tags[0].Name)

	require.NoError(t, store.Reset(ctx))
	loaded, rev, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
	assert.Equal(t, int64(2), rev, "reset must invalidate readers of the old document")
}
