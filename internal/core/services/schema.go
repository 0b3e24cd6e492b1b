package services

import (
	"sort"
	"sync"

	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/logger"
)

// SchemaUnifier merges the registered connector kinds' field
// declarations into one index schema. The result is deterministic
// given the registry contents and the configured kind order, and is
// cached for the unifier's lifetime: schema shape does not change
// without a restart.
type SchemaUnifier struct {
	registry *Registry
	kinds    []string

	once   sync.Once
	schema domain.Schema
	err    error
}

// NewSchemaUnifier creates a unifier over the given active kinds.
// Kinds must be supplied in configuration order for reproducible
// conflict reporting.
func NewSchemaUnifier(registry *Registry, kinds []string) *SchemaUnifier {
	return &SchemaUnifier{registry: registry, kinds: kinds}
}

// BuildSchema returns the unified schema: the fixed common sub-schema
// plus the union of each configured kind's declared sub-schema. Two
// kinds declaring the same field name must declare identical types; a
// mismatch fails with domain.SchemaConflictError before any indexing
// occurs. The first call computes, subsequent calls return the cached
// result.
func (u *SchemaUnifier) BuildSchema() (domain.Schema, error) {
	u.once.Do(func() {
		u.schema, u.err = u.build()
	})
	if u.err != nil {
		return nil, u.err
	}
	return u.schema.Clone(), nil
}

func (u *SchemaUnifier) build() (domain.Schema, error) {
	unified := domain.CommonSchema()

	// owners tracks which kind first contributed each field, for
	// conflict reporting. Common fields have no owner.
	owners := make(map[string]string, len(unified))

	for _, kind := range u.kinds {
		reg, err := u.registry.Lookup(kind)
		if err != nil {
			return nil, err
		}

		// Iterate fields in sorted order so the reported conflict is
		// stable across runs.
		names := reg.Schema.FieldNames()
		for _, name := range names {
			spec := reg.Schema[name]
			existing, present := unified[name]
			if !present {
				unified[name] = spec
				owners[name] = kind
				continue
			}
			if !existing.Equal(spec) {
				return nil, &domain.SchemaConflictError{
					Field:        name,
					Kind:         kind,
					Declared:     spec,
					ExistingKind: owners[name],
					Existing:     existing,
				}
			}
			// Same name, same type: the field appears once.
		}
	}

	logger.Debug("Unified schema has %d fields across %d kinds", len(unified), len(u.kinds))
	return unified, nil
}

// Kinds returns the configured kind order the unifier was built with.
func (u *SchemaUnifier) Kinds() []string {
	kinds := make([]string, len(u.kinds))
	copy(kinds, u.kinds)
	return kinds
}

// sortedCopy returns a sorted copy of names. Used by tests and
// deterministic iteration helpers.
func sortedCopy(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}
