package driven

import (
	"context"
	"time"

	"github.com/chorus-search/chorus/internal/core/domain"
)

// IndexEntry is one row of the local map: a stored document projected
// to the attributes the diff needs.
type IndexEntry struct {
	// ID is the document id.
	ID string

	// ModifiedTime is the stored last-modified timestamp.
	ModifiedTime time.Time

	// Fingerprint is the stored content hash, if any.
	Fingerprint string
}

// IndexStore is the full-text index the engine writes to. Implementations
// are opened against the unified schema; opening a pre-existing index
// whose on-disk schema differs fails with domain.SchemaMismatchError
// rather than silently adapting.
//
// Each batch method commits atomically: a crash mid-call leaves the
// index in either the pre-call or post-call state, never partially
// applied. The write path is safe for concurrent callers; writers are
// serialised internally.
type IndexStore interface {
	// AddBatch indexes new documents as one atomic commit.
	AddBatch(ctx context.Context, docs []*domain.Document) error

	// UpdateBatch overwrites stored documents as one atomic commit.
	UpdateBatch(ctx context.Context, docs []*domain.Document) error

	// DeleteBatch removes documents by id as one atomic commit.
	// Deleting an absent id is a no-op.
	DeleteBatch(ctx context.Context, ids []string) error

	// Get returns a stored document by id, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// QueryByKind projects all stored documents of one kind to
	// (id, modified_time, fingerprint) entries.
	QueryByKind(ctx context.Context, kind string) ([]IndexEntry, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (uint64, error)

	// Close releases resources.
	Close() error
}
