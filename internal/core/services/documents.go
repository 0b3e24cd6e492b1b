package services

import (
	"context"

	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/ports/driven"
	"github.com/chorus-search/chorus/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService exposes ad hoc document lookup and the unified
// schema to front ends. It is a thin passthrough over the index store.
type DocumentService struct {
	index   driven.IndexStore
	unifier *SchemaUnifier
}

// NewDocumentService creates a document service over an opened index.
func NewDocumentService(index driven.IndexStore, unifier *SchemaUnifier) *DocumentService {
	return &DocumentService{index: index, unifier: unifier}
}

// Get returns a stored document by id, or domain.ErrNotFound.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.index.Get(ctx, id)
}

// Schema returns the unified schema. Cached after the first build.
func (s *DocumentService) Schema() (domain.Schema, error) {
	return s.unifier.BuildSchema()
}
