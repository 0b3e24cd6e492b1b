// Package domain defines the core business entities for Chorus.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: an indexed document (common fields plus kind-specific fields)
//   - Schema: the field-to-type mapping the index is built against
//   - Instance: a named, credentialed handle to one connector type
//   - SyncReport: the per-(kind, instance) outcome of a sync invocation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
