package driving

import (
	"context"

	"github.com/chorus-search/chorus/internal/core/domain"
)

// DocumentService provides ad hoc access to indexed documents and the
// unified schema, for front ends and validation tooling.
type DocumentService interface {
	// Get returns a stored document by id, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Schema returns the unified schema the index was opened with.
	Schema() (domain.Schema, error)
}
