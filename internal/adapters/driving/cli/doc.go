// Package cli provides the chorus command-line interface: syncing
// configured sources into the index, inspecting the unified schema,
// fetching stored documents and watching local sources for changes.
package cli
