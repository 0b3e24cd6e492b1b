package domain

// Instance is a named, configured handle to one remote account,
// credential, or scope. Multiple instances may share a connector kind.
// Instances are reconstructed from configuration on every sync run and
// never persisted.
type Instance struct {
	// Name is the configuration name identifying this instance.
	// Distinct from Kind.
	Name string

	// Kind identifies the connector type this instance uses.
	Kind string

	// Config contains connector-specific configuration.
	// List-valued settings are comma-separated.
	Config map[string]string
}

// ConfigValue returns the named setting or an empty string.
func (i Instance) ConfigValue(key string) string {
	return i.Config[key]
}

// IgnoreFunc decides whether a candidate remote item should be excluded
// from enumeration before it enters the remote map. The name is the
// item's display name; meta carries connector-specific attributes such
// as a MIME type or path.
type IgnoreFunc func(name string, meta map[string]string) bool

// AcceptAll is the base predicate that excludes nothing.
func AcceptAll(string, map[string]string) bool { return false }

// ChainIgnore composes a specialised predicate with its parent's.
// The result ignores an item when either predicate ignores it, so
// exclusion rules accumulate monotonically down a specialisation chain.
func ChainIgnore(parent, child IgnoreFunc) IgnoreFunc {
	if parent == nil {
		parent = AcceptAll
	}
	if child == nil {
		child = AcceptAll
	}
	return func(name string, meta map[string]string) bool {
		return parent(name, meta) || child(name, meta)
	}
}
