// Package memory provides an in-memory IndexStore used by tests and
// as the reference implementation of the store's batch semantics.
package memory

import (
	"context"
	"sync"

	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore.
// All batch methods hold the lock for the whole call, so a batch is
// observed either fully applied or not at all.
type IndexStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	closed    bool

	// Writes counts committed batch calls, for idempotence tests.
	writes int
}

// NewIndexStore creates a new in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{documents: make(map[string]domain.Document)}
}

// AddBatch indexes new documents as one atomic commit.
func (s *IndexStore) AddBatch(_ context.Context, docs []*domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrIndexClosed
	}
	for _, doc := range docs {
		s.documents[doc.ID] = *doc
	}
	if len(docs) > 0 {
		s.writes++
	}
	return nil
}

// UpdateBatch overwrites stored documents as one atomic commit.
func (s *IndexStore) UpdateBatch(_ context.Context, docs []*domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrIndexClosed
	}
	for _, doc := range docs {
		s.documents[doc.ID] = *doc
	}
	if len(docs) > 0 {
		s.writes++
	}
	return nil
}

// DeleteBatch removes documents by id. Absent ids are no-ops.
func (s *IndexStore) DeleteBatch(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrIndexClosed
	}
	for _, id := range ids {
		delete(s.documents, id)
	}
	if len(ids) > 0 {
		s.writes++
	}
	return nil
}

// Get retrieves a document by id.
func (s *IndexStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrIndexClosed
	}
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// QueryByKind projects stored documents of one kind to index entries.
func (s *IndexStore) QueryByKind(_ context.Context, kind string) ([]driven.IndexEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrIndexClosed
	}
	var entries []driven.IndexEntry
	for id := range s.documents {
		doc := s.documents[id]
		if doc.Kind != kind {
			continue
		}
		entries = append(entries, driven.IndexEntry{
			ID:           doc.ID,
			ModifiedTime: doc.ModifiedTime,
			Fingerprint:  doc.Fingerprint,
		})
	}
	return entries, nil
}

// Count returns the number of stored documents.
func (s *IndexStore) Count(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, domain.ErrIndexClosed
	}
	return uint64(len(s.documents)), nil
}

// Close marks the store closed; subsequent calls fail.
func (s *IndexStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// WriteCount returns the number of committed batches. Test helper for
// asserting that an idempotent re-sync performed zero writes.
func (s *IndexStore) WriteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
