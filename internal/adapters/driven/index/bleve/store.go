// Package bleve provides the IndexStore backed by the bleve full-text
// index. The engine delegates term inversion and query execution to
// bleve; this adapter only maps the unified schema onto a bleve
// mapping and preserves the batch-commit contract.
package bleve

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/ports/driven"
	"github.com/chorus-search/chorus/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

const (
	// indexDirName is the bleve index directory inside the data dir.
	indexDirName = "index.bleve"

	// schemaFileName is the sidecar recording the schema fingerprint
	// the index was created with.
	schemaFileName = "schema.json"

	// queryPageSize bounds one page of a QueryByKind scan.
	queryPageSize = 1000
)

// Store is a bleve-backed implementation of driven.IndexStore.
// Writers are serialised by a mutex; each batch call maps to one
// bleve batch, which commits atomically.
type Store struct {
	mu     sync.Mutex
	index  bleve.Index
	schema domain.Schema
	path   string
	closed bool
}

// schemaSidecar is the persisted schema record next to the index.
type schemaSidecar struct {
	Fingerprint string        `json:"fingerprint"`
	Fields      domain.Schema `json:"fields"`
}

// Open opens or creates an index at dataDir against the unified
// schema. Opening a pre-existing index whose recorded schema differs
// from the given one fails with domain.SchemaMismatchError; the index
// is never silently adapted. An empty dataDir opens an in-memory
// index (used by tests).
func Open(dataDir string, schema domain.Schema) (*Store, error) {
	want := fingerprint(schema)

	if dataDir == "" {
		idx, err := bleve.NewMemOnly(buildIndexMapping(schema))
		if err != nil {
			return nil, fmt.Errorf("creating in-memory index: %w", err)
		}
		return &Store{index: idx, schema: schema.Clone()}, nil
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	indexPath := filepath.Join(dataDir, indexDirName)
	schemaPath := filepath.Join(dataDir, schemaFileName)

	if _, err := os.Stat(indexPath); err == nil {
		// Existing index: verify the recorded schema before opening.
		got, err := readSidecar(schemaPath)
		if err != nil {
			return nil, &domain.SchemaMismatchError{Path: indexPath, Want: want, Got: "unreadable"}
		}
		if got.Fingerprint != want {
			return nil, &domain.SchemaMismatchError{Path: indexPath, Want: want, Got: got.Fingerprint}
		}
		idx, err := bleve.Open(indexPath)
		if err != nil {
			return nil, fmt.Errorf("opening index: %w", err)
		}
		logger.Debug("Opened existing index at %s (%d schema fields)", indexPath, len(schema))
		return &Store{index: idx, schema: schema.Clone(), path: indexPath}, nil
	}

	idx, err := bleve.New(indexPath, buildIndexMapping(schema))
	if err != nil {
		return nil, fmt.Errorf("creating index: %w", err)
	}
	if err := writeSidecar(schemaPath, schemaSidecar{Fingerprint: want, Fields: schema}); err != nil {
		idx.Close()
		return nil, fmt.Errorf("recording schema: %w", err)
	}
	logger.Info("Created new index at %s (%d schema fields)", indexPath, len(schema))
	return &Store{index: idx, schema: schema.Clone(), path: indexPath}, nil
}

// fingerprint returns a stable hash of the schema: field names in
// sorted order with their full specs.
func fingerprint(schema domain.Schema) string {
	h := sha256.New()
	for _, name := range schema.FieldNames() {
		spec := schema[name]
		fmt.Fprintf(h, "%s=%s/%t/%t/%g;", name, spec.Type, spec.Stored, spec.Indexed, spec.Boost)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func readSidecar(path string) (*schemaSidecar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc schemaSidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func writeSidecar(path string, sc schemaSidecar) error {
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// AddBatch indexes new documents as one bleve batch.
func (s *Store) AddBatch(ctx context.Context, docs []*domain.Document) error {
	return s.writeBatch(ctx, docs)
}

// UpdateBatch overwrites stored documents. Bleve indexing by id is an
// upsert, so adds and updates share the same write path.
func (s *Store) UpdateBatch(ctx context.Context, docs []*domain.Document) error {
	return s.writeBatch(ctx, docs)
}

func (s *Store) writeBatch(ctx context.Context, docs []*domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrIndexClosed
	}

	batch := s.index.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ID, encodeDocument(doc)); err != nil {
			return fmt.Errorf("batch index %s: %w", doc.ID, err)
		}
	}
	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// DeleteBatch removes documents by id as one bleve batch. Deleting an
// absent id is a no-op inside bleve.
func (s *Store) DeleteBatch(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrIndexClosed
	}

	batch := s.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("committing delete batch: %w", err)
	}
	return nil
}

// Get retrieves a stored document by id.
func (s *Store) Get(ctx context.Context, id string) (*domain.Document, error) {
	req := bleve.NewSearchRequest(query.NewDocIDQuery([]string{id}))
	req.Fields = []string{"*"}
	req.Size = 1

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", id, err)
	}
	if len(res.Hits) == 0 {
		return nil, domain.ErrNotFound
	}
	return decodeDocument(id, res.Hits[0].Fields, s.schema)
}

// QueryByKind scans all documents of one kind, projecting the stored
// modified time and fingerprint. The scan pages through the full
// result set.
func (s *Store) QueryByKind(ctx context.Context, kind string) ([]driven.IndexEntry, error) {
	term := query.NewTermQuery(kind)
	term.SetField(domain.FieldKind)

	var entries []driven.IndexEntry
	for from := 0; ; from += queryPageSize {
		req := bleve.NewSearchRequestOptions(term, queryPageSize, from, false)
		req.Fields = []string{domain.FieldModifiedTime, domain.FieldFingerprint}

		res, err := s.index.SearchInContext(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("query kind %s: %w", kind, err)
		}
		for _, hit := range res.Hits {
			entry := driven.IndexEntry{ID: hit.ID}
			if v, ok := hit.Fields[domain.FieldFingerprint].(string); ok {
				entry.Fingerprint = v
			}
			if v, ok := hit.Fields[domain.FieldModifiedTime].(string); ok {
				t, err := time.Parse(time.RFC3339, v)
				if err != nil {
					return nil, fmt.Errorf("stored modified_time for %s: %w", hit.ID, err)
				}
				entry.ModifiedTime = t
			}
			entries = append(entries, entry)
		}
		if len(res.Hits) < queryPageSize {
			return entries, nil
		}
	}
}

// Count returns the number of stored documents.
func (s *Store) Count(_ context.Context) (uint64, error) {
	return s.index.DocCount()
}

// Close releases the underlying bleve index.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.index.Close()
}
