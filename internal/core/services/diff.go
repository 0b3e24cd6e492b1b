package services

import (
	"time"

	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/ports/driven"
)

// diffResult partitions the remote and local key sets for one
// (kind, instance) pass. The three buckets are disjoint and together
// cover the union of both key sets exactly once.
type diffResult struct {
	// toAdd is present remotely, absent locally.
	toAdd []string

	// toDelete is present locally, absent remotely.
	toDelete []string

	// toUpdate is present in both: a candidate for refresh, gated by
	// timestamp comparison at apply time.
	toUpdate []string
}

// diffMaps computes the bucket partition over the remote map (id to
// last-modified) and the local map (id to index entry). Keys in each
// bucket are sorted so a pass applies writes in a deterministic order.
func diffMaps(remote map[string]time.Time, local map[string]driven.IndexEntry) diffResult {
	var d diffResult

	for id := range remote {
		if _, ok := local[id]; ok {
			d.toUpdate = append(d.toUpdate, id)
		} else {
			d.toAdd = append(d.toAdd, id)
		}
	}
	for id := range local {
		if _, ok := remote[id]; !ok {
			d.toDelete = append(d.toDelete, id)
		}
	}

	d.toAdd = sortedCopy(d.toAdd)
	d.toDelete = sortedCopy(d.toDelete)
	d.toUpdate = sortedCopy(d.toUpdate)
	return d
}

// needsRefresh applies the update gate: only a strictly newer remote
// timestamp triggers a re-fetch. Equal or older remote timestamps are
// a no-op, which makes a re-run with no remote changes perform zero
// fetches on this path. Timestamps are truncated to second precision
// before comparison so sub-second noise from remote APIs cannot defeat
// idempotence.
func needsRefresh(remoteModified, localModified time.Time) bool {
	return domain.TruncateTimestamp(remoteModified).After(domain.TruncateTimestamp(localModified))
}
