package driven

import (
	"context"
	"time"

	"github.com/chorus-search/chorus/internal/core/domain"
)

// RunStore persists sync-run history. Optional: the synchronizer
// tolerates a nil store and simply skips recording.
type RunStore interface {
	// SaveRun records one sync invocation and its pair outcomes.
	SaveRun(ctx context.Context, runID string, report *domain.SyncReport) error

	// ListRuns returns recorded run summaries, newest first,
	// up to limit entries.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)

	// Close releases resources.
	Close() error
}

// RunSummary is one recorded sync invocation.
type RunSummary struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Pairs      int
	Failed     int
	Writes     int
}
