package driven

import (
	"context"
	"time"

	"github.com/chorus-search/chorus/internal/core/domain"
)

// Connector is one configured handle to a remote document source.
// Each connector kind (github_issue, gdrive_file, filesystem, ...)
// implements this interface; each value is bound to one instance.
type Connector interface {
	// Kind returns the connector type label.
	Kind() string

	// Name returns the configured instance name.
	Name() string

	// ValidateCredentials establishes the live API handle used by
	// subsequent calls. It is idempotent: repeated calls on an
	// already-validated connector are no-ops. Returns
	// domain.ErrAuth when credentials are missing, malformed, or
	// rejected by the remote.
	ValidateCredentials(ctx context.Context) error

	// EnumerateRemote pages through the remote's full result set and
	// returns a map of document id to last-modified timestamp.
	// An empty source yields an empty map, not an error. Transient
	// network or API failures surface as domain.ErrRemoteUnavailable;
	// retry policy belongs to the caller, never in here.
	EnumerateRemote(ctx context.Context) (map[string]time.Time, error)

	// Fetch retrieves one document's full indexable payload, matching
	// the unified schema for this kind. Returns domain.ErrNotFound if
	// the id no longer exists at the remote - a legitimate outcome
	// when a document was deleted between enumeration and fetch.
	Fetch(ctx context.Context, id string) (*domain.Document, error)

	// Close releases resources.
	Close() error
}

// ConnectorBuilder constructs a Connector for one configured instance.
// Builders do not touch the network; credential validation happens on
// the first ValidateCredentials call.
type ConnectorBuilder func(instance domain.Instance) (Connector, error)

// Watcher is an optional capability for connectors that can push
// change events. The channel carries document ids that changed; it is
// closed when ctx is cancelled.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}
