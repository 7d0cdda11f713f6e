package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/C3604/ChronoAtlas/internal/domain/models/catalog"
	"github.com/C3604/ChronoAtlas/internal/domain/repositories"
)

// DocumentStore keeps the catalog document in a JSON file (the db.json
// layout). Writes go to a temp file that is renamed over the target, so a
// reader never sees a partial document. The revision is tracked per
// process together with the file's modification time, which turns an edit
// by another process into a revision conflict.
type DocumentStore struct {
	path string

	mu      sync.Mutex
	rev     int64
	modTime time.Time
}

// NewDocumentStore creates a store backed by path. The directory is created
// on first save.
func NewDocumentStore(path string) *DocumentStore {
	return &DocumentStore{path: path}
}

// Load implements repositories.DocumentStore. A missing or blank file is an
// empty store.
func (s *DocumentStore) Load(ctx context.Context) (*catalog.Document, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, modTime, err := s.read()
	if err != nil {
		return nil, 0, err
	}
	s.observe(modTime)
	if len(data) == 0 {
		return nil, s.rev, nil
	}

	var doc catalog.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return &doc, s.rev, nil
}

// Save implements repositories.DocumentStore.
func (s *DocumentStore) Save(ctx context.Context, doc *catalog.Document, expected int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, modTime, err := s.read()
	if err != nil {
		return 0, err
	}
	s.observe(modTime)
	if s.rev != expected {
		return 0, repositories.ErrRevisionConflict
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode document: %w", err)
	}
	if err := writeAtomic(s.path, data); err != nil {
		return 0, err
	}

	info, err := os.Stat(s.path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", s.path, err)
	}
	s.rev++
	s.modTime = info.ModTime()
	return s.rev, nil
}

// Reset removes the file.
func (s *DocumentStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	s.rev++
	s.modTime = time.Time{}
	return nil
}

// observe bumps the revision when the file changed since we last saw it.
func (s *DocumentStore) observe(modTime time.Time) {
	if !modTime.Equal(s.modTime) {
		s.rev++
		s.modTime = modTime
	}
}

// read returns the file content with surrounding whitespace trimmed.
// A missing file reads as empty with a zero modification time.
func (s *DocumentStore) read() ([]byte, time.Time, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("stat %s: %w", s.path, err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	return bytes.TrimSpace(data), info.ModTime(), nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }() // Error ignored: already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
