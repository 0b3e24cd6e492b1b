package domain

import "time"

// PairStatus is the terminal state of one (kind, instance) sync pass.
type PairStatus string

const (
	// StatusDone means the pass applied all three buckets.
	StatusDone PairStatus = "done"

	// StatusFailed means the pass aborted; sibling passes continue.
	StatusFailed PairStatus = "failed"
)

// PairOutcome records the result of syncing one (kind, instance) pair.
type PairOutcome struct {
	// Kind and Instance identify the pair.
	Kind     string
	Instance string

	// Status is Done or Failed.
	Status PairStatus

	// Added, Updated and Deleted count applied index writes.
	Added   int
	Updated int
	Deleted int

	// Err carries the failure detail when Status is Failed.
	Err error
}

// Failed reports whether this pair aborted.
func (o PairOutcome) Failed() bool {
	return o.Status == StatusFailed
}

// SyncReport is the structured result of one sync invocation,
// enumerating every attempted (kind, instance) pair. A caller can
// distinguish "3 of 4 sources synced, one token expired" from a
// total failure.
type SyncReport struct {
	// StartedAt and FinishedAt bound the invocation.
	StartedAt  time.Time
	FinishedAt time.Time

	// Outcomes holds one entry per attempted pair, in a stable
	// (kind, instance) order.
	Outcomes []PairOutcome
}

// AllDone reports whether every attempted pair completed.
func (r *SyncReport) AllDone() bool {
	for _, o := range r.Outcomes {
		if o.Failed() {
			return false
		}
	}
	return true
}

// FailedCount returns the number of failed pairs.
func (r *SyncReport) FailedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}

// TotalWrites returns the sum of added, updated and deleted documents
// across all pairs.
func (r *SyncReport) TotalWrites() int {
	n := 0
	for _, o := range r.Outcomes {
		n += o.Added + o.Updated + o.Deleted
	}
	return n
}
