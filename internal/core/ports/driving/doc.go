// Package driving defines the interfaces through which the outside
// world drives the engine: the sync entry point and ad hoc document
// lookup. Front ends (CLI, HTTP) depend on these, never on the
// service implementations directly.
package driving
