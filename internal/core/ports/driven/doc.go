// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Connector: enumerates and fetches documents from one remote source
//   - IndexStore: the full-text index the engine writes to
//   - ConfigProvider: named instance configuration and the active kind list
//
// # Optional Interfaces
//
// These can be nil - the engine degrades gracefully:
//
//   - RunStore: sync-run history persistence
//   - Watcher: change notification for connectors that can push events
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
