package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/C3604/ChronoAtlas/internal/config"
	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	"github.com/C3604/ChronoAtlas/internal/domain/repositories"
)

// Store serializes access to the catalog document. Mutations run under an
// in-process mutex and are saved with a revision check, so a writer in
// another process forces a reload and re-run instead of a lost update.
type Store struct {
	backend repositories.DocumentStore
	seeder  *Seeder
	logger  *slog.Logger

	mu sync.Mutex
}

// NewStore wraps a document backend.
func NewStore(backend repositories.DocumentStore, seeder *Seeder, logger *slog.Logger) *Store {
	return &Store{
		backend: backend,
		seeder:  seeder,
		logger:  logger,
	}
}

// Read returns a private copy of the current document. The first read of an
// empty or unnormalized store persists the seeded or repaired document.
func (s *Store) Read(ctx context.Context) (*catalog.Document, error) {
	doc, _, changed, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !changed {
		return doc, nil
	}

	err = s.Update(ctx, func(d *catalog.Document) error {
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Update runs fn on a fresh copy of the document and saves the result.
// Nothing is saved when fn fails. fn may run more than once if the stored
// revision moves underneath it, so it must derive everything from its
// argument.
func (s *Store) Update(ctx context.Context, fn func(doc *catalog.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 1; attempt <= config.MaxStoreRetries; attempt++ {
		doc, rev, _, err := s.load(ctx)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}

		_, err = s.backend.Save(ctx, doc, rev)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrRevisionConflict) {
			return fmt.Errorf("save document: %w", err)
		}
		s.logger.Warn("document revision conflict, retrying",
			"attempt", attempt,
			"revision", rev,
		)
	}

	return &domain.ConflictError{
		Message:      "catalog was modified concurrently, please retry",
		ResourceType: "document",
	}
}

// load reads the stored document, seeding an empty store and normalizing
// the result. changed reports whether the returned document differs from
// what is stored.
func (s *Store) load(ctx context.Context) (*catalog.Document, int64, bool, error) {
	doc, rev, err := s.backend.Load(ctx)
	if err != nil {
		return nil, 0, false, fmt.Errorf("load document: %w", err)
	}

	changed := false
	if doc == nil {
		doc, err = s.seeder.NewDocument()
		if err != nil {
			return nil, 0, false, err
		}
		changed = true
		s.logger.Info("seeding empty catalog", "tags", len(doc.Tags), "users", len(doc.Users))
	}

	doc, normalized, err := s.seeder.Normalize(doc)
	if err != nil {
		return nil, 0, false, fmt.Errorf("normalize document: %w", err)
	}
	if normalized && rev > 0 {
		s.logger.Info("normalized stored catalog", "revision", rev)
	}
	return doc, rev, changed || normalized, nil
}
