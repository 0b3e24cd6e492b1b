package driven

import "github.com/chorus-search/chorus/internal/core/domain"

// ConfigProvider supplies connector-instance configuration.
// Implementations load from a file, environment, or test fixtures.
type ConfigProvider interface {
	// ActiveKinds returns the kinds that have at least one configured
	// instance, in the order they first appear in configuration.
	// Order matters: schema unification iterates kinds in this order
	// for reproducibility.
	ActiveKinds() []string

	// InstancesForKind returns the instance names configured for a
	// kind, in configuration order. A kind with zero instances
	// returns an empty slice.
	InstancesForKind(kind string) []string

	// Instance returns the configuration block for a named instance.
	// Returns domain.ErrConfig if the name is unknown.
	Instance(name string) (domain.Instance, error)
}
