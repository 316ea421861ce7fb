// Package filestore implements the in-memory file registry backing
// /v1/files uploads and /files/{id} retrieval.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"aibridge/internal/core"
)

// Store maps opaque file ids to stored-file metadata. Entries are never
// updated or evicted; each Save uses a fresh id, so concurrent writes
// cannot collide on a key.
type Store struct {
	dir string

	mu    sync.RWMutex
	files map[string]core.FileRecord
}

// New creates a Store writing file contents under dir, creating it if
// needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create file dir %q: %w", dir, err)
	}
	return &Store{
		dir:   dir,
		files: make(map[string]core.FileRecord),
	}, nil
}

// Save persists the content to disk under a fresh id and registers the
// record. The display name is kept verbatim for later retrieval.
func (s *Store) Save(name string, content io.Reader) (core.FileRecord, error) {
	id := uuid.NewString()
	path := filepath.Join(s.dir, id)

	f, err := os.Create(path)
	if err != nil {
		return core.FileRecord{}, fmt.Errorf("create file %q: %w", path, err)
	}
	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		return core.FileRecord{}, fmt.Errorf("write file %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return core.FileRecord{}, fmt.Errorf("close file %q: %w", path, err)
	}

	rec := core.FileRecord{ID: id, Name: name, Path: path}

	s.mu.Lock()
	s.files[id] = rec
	s.mu.Unlock()

	return rec, nil
}

// Get returns the record for id, or a not-found error the boundary renders
// as HTTP 404.
func (s *Store) Get(id string) (core.FileRecord, error) {
	s.mu.RLock()
	rec, ok := s.files[id]
	s.mu.RUnlock()

	if !ok {
		return core.FileRecord{}, core.NewNotFoundError("file not found")
	}
	return rec, nil
}

// Reference builds the wire-facing reference for a record. Pure string
// assembly, no I/O.
func Reference(rec core.FileRecord, externalBaseURL string) core.FileReference {
	return core.FileReference{
		ID:   rec.ID,
		Name: rec.Name,
		URL:  externalBaseURL + "/files/" + rec.ID,
	}
}
