package driving

import (
	"context"

	"github.com/chorus-search/chorus/internal/core/domain"
)

// Syncer reconciles remote sources against the index.
type Syncer interface {
	// Sync runs one synchronization pass for the given kinds, or for
	// every active kind when none are given. The returned report
	// enumerates every attempted (kind, instance) pair. The error is
	// non-nil only for global failures - an unknown kind label or a
	// configuration provider failure - which abort the invocation
	// before any pair runs.
	Sync(ctx context.Context, kinds ...string) (*domain.SyncReport, error)
}
