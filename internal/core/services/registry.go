package services

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/ports/driven"
	"github.com/chorus-search/chorus/internal/logger"
)

// Registration declares one connector kind: its label, the kind-specific
// sub-schema its documents carry, and the builder that constructs
// configured instances. Kind and Schema are static per type,
// independent of any instance.
type Registration struct {
	// Kind is the unique type label. When empty, Register assigns a
	// generated fallback label and logs a warning.
	Kind string

	// Schema is the kind-specific field-to-type mapping, excluding
	// the common fields.
	Schema domain.Schema

	// Build constructs a connector for one configured instance.
	Build driven.ConnectorBuilder
}

// Registry maps kind labels to connector registrations. It is
// constructed once at process start, written to during initialisation,
// and read-only afterwards; re-registration of a label is permitted
// (last writer wins) to support test fixtures. Registration never
// fails.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Registration
}

// NewRegistry creates an empty connector registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Registration)}
}

// Register adds a connector kind and returns the label it was
// registered under. An empty kind label gets a generated fallback so
// registration cannot fail; the condition is surfaced as a warning.
func (r *Registry) Register(reg Registration) string {
	if reg.Kind == "" {
		reg.Kind = "connector-" + uuid.NewString()[:8]
		logger.Warn("Connector registered without a kind label, using fallback %q", reg.Kind)
	}
	if reg.Schema == nil {
		reg.Schema = domain.Schema{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[reg.Kind]; exists {
		logger.Debug("Re-registering connector kind %q", reg.Kind)
	}
	r.entries[reg.Kind] = reg
	return reg.Kind
}

// Lookup returns the registration for a kind label. An absent label
// fails with domain.UnknownDoctypeError reporting the known labels.
func (r *Registry) Lookup(kind string) (Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[kind]
	if !ok {
		return Registration{}, &domain.UnknownDoctypeError{Kind: kind, Known: r.kindsLocked()}
	}
	return reg, nil
}

// Kinds returns all registered kind labels in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.kindsLocked()
}

// kindsLocked collects labels; callers must hold at least a read lock.
func (r *Registry) kindsLocked() []string {
	kinds := make([]string, 0, len(r.entries))
	for kind := range r.entries {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
