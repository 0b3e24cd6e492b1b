package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/ports/driven"
	"github.com/chorus-search/chorus/internal/core/ports/driving"
	"github.com/chorus-search/chorus/internal/logger"
)

// Ensure Synchronizer implements the interface.
var _ driving.Syncer = (*Synchronizer)(nil)

// DefaultSyncConcurrency bounds how many (kind, instance) passes run
// at once. Passes are independent; the index store serialises writers.
const DefaultSyncConcurrency = 4

// Synchronizer reconciles remote sources against the index store.
// Each sync invocation runs one pass per configured (kind, instance)
// pair; pairs are isolated, so one failing pair never aborts its
// siblings.
type Synchronizer struct {
	registry *Registry
	config   driven.ConfigProvider
	index    driven.IndexStore
	schema   domain.Schema

	// runs is optional sync-run history; nil disables recording.
	runs driven.RunStore

	concurrency int
}

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

// WithRunStore enables sync-run history recording.
func WithRunStore(runs driven.RunStore) SyncOption {
	return func(s *Synchronizer) { s.runs = runs }
}

// WithConcurrency bounds concurrent passes. Values below 1 mean serial.
func WithConcurrency(n int) SyncOption {
	return func(s *Synchronizer) {
		if n < 1 {
			n = 1
		}
		s.concurrency = n
	}
}

// NewSynchronizer creates a synchronizer over an opened index store.
// The schema must be the unified schema the store was opened with;
// fetched documents are validated against it before writing.
func NewSynchronizer(
	registry *Registry,
	config driven.ConfigProvider,
	index driven.IndexStore,
	schema domain.Schema,
	opts ...SyncOption,
) *Synchronizer {
	s := &Synchronizer{
		registry:    registry,
		config:      config,
		index:       index,
		schema:      schema,
		concurrency: DefaultSyncConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// syncPair identifies one scheduled (kind, instance) pass.
type syncPair struct {
	kind     string
	instance string
}

// Sync runs one reconciliation pass per configured (kind, instance)
// pair. With no kinds given, every active kind is synced. An unknown
// kind label aborts the whole invocation before any pair runs; all
// other failures are scoped to their pair and reported in the outcome.
func (s *Synchronizer) Sync(ctx context.Context, kinds ...string) (*domain.SyncReport, error) {
	if len(kinds) == 0 {
		kinds = s.config.ActiveKinds()
	}

	// Unknown labels are a global failure: fail the request up front
	// rather than partially syncing.
	for _, kind := range kinds {
		if _, err := s.registry.Lookup(kind); err != nil {
			return nil, err
		}
	}

	// Schedule one pass per (kind, instance). A kind with zero
	// configured instances is skipped entirely, not an error.
	var pairs []syncPair
	for _, kind := range kinds {
		instances := s.config.InstancesForKind(kind)
		if len(instances) == 0 {
			logger.Debug("Kind %s has no configured instances, skipping", kind)
			continue
		}
		for _, name := range instances {
			pairs = append(pairs, syncPair{kind: kind, instance: name})
		}
	}

	report := &domain.SyncReport{StartedAt: time.Now()}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, pair := range pairs {
		g.Go(func() error {
			outcome := s.runPair(gctx, pair)
			mu.Lock()
			report.Outcomes = append(report.Outcomes, outcome)
			mu.Unlock()
			// Pair failures are recorded, not propagated: sibling
			// pairs keep running.
			return nil
		})
	}
	_ = g.Wait()

	report.FinishedAt = time.Now()
	sort.Slice(report.Outcomes, func(i, j int) bool {
		a, b := report.Outcomes[i], report.Outcomes[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Instance < b.Instance
	})

	s.recordRun(ctx, report)
	return report, nil
}

// recordRun persists the report when a run store is configured.
// History is best effort; a storage failure never fails the sync.
func (s *Synchronizer) recordRun(ctx context.Context, report *domain.SyncReport) {
	if s.runs == nil {
		return
	}
	runID := uuid.NewString()
	if err := s.runs.SaveRun(ctx, runID, report); err != nil {
		logger.Warn("Failed to record sync run %s: %v", runID, err)
	}
}

// runPair executes the state machine for one (kind, instance) pair:
// Enumerating, Diffing, then Fetching/Writing per bucket. Any failure
// transitions the pair to Failed and is captured in the outcome.
func (s *Synchronizer) runPair(ctx context.Context, pair syncPair) domain.PairOutcome {
	outcome := domain.PairOutcome{Kind: pair.kind, Instance: pair.instance, Status: domain.StatusDone}

	added, updated, deleted, err := s.syncOne(ctx, pair)
	outcome.Added, outcome.Updated, outcome.Deleted = added, updated, deleted
	if err != nil {
		outcome.Status = domain.StatusFailed
		outcome.Err = err
		logger.Warn("Sync failed for %s/%s: %v", pair.kind, pair.instance, err)
		return outcome
	}

	logger.Info("Synced %s/%s: %d added, %d updated, %d deleted",
		pair.kind, pair.instance, added, updated, deleted)
	return outcome
}

//nolint:gocyclo // Orchestration function with necessary sequential steps
func (s *Synchronizer) syncOne(ctx context.Context, pair syncPair) (added, updated, deleted int, err error) {
	reg, err := s.registry.Lookup(pair.kind)
	if err != nil {
		return 0, 0, 0, err
	}

	instance, err := s.config.Instance(pair.instance)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("resolve instance: %w", err)
	}

	connector, err := reg.Build(instance)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("build connector: %w", err)
	}
	defer connector.Close()

	// Enumerating: establish the API handle, then snapshot both sides.
	if err := connector.ValidateCredentials(ctx); err != nil {
		return 0, 0, 0, fmt.Errorf("validate credentials: %w", err)
	}

	remote, err := connector.EnumerateRemote(ctx)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("enumerate remote: %w", err)
	}

	entries, err := s.index.QueryByKind(ctx, pair.kind)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("read local map: %w", err)
	}
	local := make(map[string]driven.IndexEntry, len(entries))
	for _, entry := range entries {
		local[entry.ID] = entry
	}

	// Diffing.
	d := diffMaps(remote, local)
	logger.Debug("Diff for %s/%s: %d to add, %d to delete, %d update candidates",
		pair.kind, pair.instance, len(d.toAdd), len(d.toDelete), len(d.toUpdate))

	// Fetching/Writing, one atomic batch per bucket. The context is
	// checked between buckets: cancellation lands on a committed
	// boundary, never inside a batch.
	added, err = s.applyAdds(ctx, connector, d.toAdd)
	if err != nil {
		return added, 0, 0, err
	}
	if err := ctx.Err(); err != nil {
		return added, 0, 0, err
	}

	deleted, err = s.applyDeletes(ctx, d.toDelete)
	if err != nil {
		return added, 0, deleted, err
	}
	if err := ctx.Err(); err != nil {
		return added, 0, deleted, err
	}

	updated, err = s.applyUpdates(ctx, connector, remote, local, d.toUpdate)
	if err != nil {
		return added, updated, deleted, err
	}

	return added, updated, deleted, nil
}

// applyAdds fetches every new id and commits them as one batch.
// An id that vanished between enumeration and fetch is skipped: the
// remote changed concurrently and the next pass will reconcile it.
func (s *Synchronizer) applyAdds(ctx context.Context, connector driven.Connector, ids []string) (int, error) {
	docs := make([]*domain.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := s.fetchOne(ctx, connector, id)
		if err != nil {
			return 0, fmt.Errorf("fetch %s: %w", id, err)
		}
		if doc == nil {
			continue // disappeared since enumeration
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	if err := s.index.AddBatch(ctx, docs); err != nil {
		return 0, fmt.Errorf("add batch: %w", err)
	}
	return len(docs), nil
}

// applyDeletes removes locally indexed ids that are gone remotely.
// Deleting an id that already vanished from the index is harmless.
func (s *Synchronizer) applyDeletes(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.index.DeleteBatch(ctx, ids); err != nil {
		return 0, fmt.Errorf("delete batch: %w", err)
	}
	return len(ids), nil
}

// applyUpdates refreshes shared ids whose remote timestamp is strictly
// newer. A fetched document whose fingerprint matches the stored one is
// not re-written: remote clock skew alone must not churn the index.
func (s *Synchronizer) applyUpdates(
	ctx context.Context,
	connector driven.Connector,
	remote map[string]time.Time,
	local map[string]driven.IndexEntry,
	ids []string,
) (int, error) {
	docs := make([]*domain.Document, 0, len(ids))
	for _, id := range ids {
		entry := local[id]
		if !needsRefresh(remote[id], entry.ModifiedTime) {
			continue
		}
		doc, err := s.fetchOne(ctx, connector, id)
		if err != nil {
			return 0, fmt.Errorf("fetch %s: %w", id, err)
		}
		if doc == nil {
			continue
		}
		if doc.Fingerprint != "" && doc.Fingerprint == entry.Fingerprint {
			logger.Debug("Skipping %s: fingerprint unchanged", id)
			continue
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	if err := s.index.UpdateBatch(ctx, docs); err != nil {
		return 0, fmt.Errorf("update batch: %w", err)
	}
	return len(docs), nil
}

// fetchOne retrieves and validates one document, stamping its indexed
// time. Returns (nil, nil) when the id no longer exists at the remote.
func (s *Synchronizer) fetchOne(ctx context.Context, connector driven.Connector, id string) (*domain.Document, error) {
	doc, err := connector.Fetch(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Debug("Document %s disappeared before fetch, skipping", id)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	doc.IndexedTime = time.Now().UTC().Truncate(time.Second)
	if err := doc.Validate(s.schema); err != nil {
		return nil, err
	}
	return doc, nil
}
