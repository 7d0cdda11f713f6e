package memory

import (
	"context"
	"sync"

	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	"github.com/C3604/ChronoAtlas/internal/domain/repositories"
)

// DocumentStore keeps the catalog document in process memory. Loads and
// saves copy the document so callers never share state with the store.
type DocumentStore struct {
	mu  sync.RWMutex
	doc *catalog.Document
	rev int64
}

// NewDocumentStore creates an empty in-memory store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{}
}

// Load implements repositories.DocumentStore.
func (s *DocumentStore) Load(ctx context.Context) (*catalog.Document, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, s.rev, nil
	}
	return s.doc.Clone(), s.rev, nil
}

// Save implements repositories.DocumentStore.
func (s *DocumentStore) Save(ctx context.Context, doc *catalog.Document, expected int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rev != expected {
		return 0, repositories.ErrRevisionConflict
	}
	s.doc = doc.Clone()
	s.rev++
	return s.rev, nil
}

// Reset drops the document.
func (s *DocumentStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = nil
	s.rev++
	return nil
}
