package repositories

import (
	"context"
	"errors"

	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
)

// ErrRevisionConflict is returned by Save when the stored revision no longer
// matches the revision the caller read.
var ErrRevisionConflict = errors.New("document revision conflict")

// DocumentStore persists the single catalog document together with a
// revision number that increases on every successful save.
type DocumentStore interface {
	// Load returns the stored document and its revision.
	// An empty store returns a nil document and revision 0.
	Load(ctx context.Context) (*catalog.Document, int64, error)

	// Save writes doc if the stored revision still equals expected and
	// returns the new revision. The write is all-or-nothing.
	Save(ctx context.Context, doc *catalog.Document, expected int64) (int64, error)
}

// DocumentResetter is implemented by stores that can discard their document.
type DocumentResetter interface {
	Reset(ctx context.Context) error
}
