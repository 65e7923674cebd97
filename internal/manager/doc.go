// Package manager owns model lifecycle for the daemon: scanning the
// repository, building backends through the factory, and serving status. It
// is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: internal state types (State, model entries).
//   - errors.go: error types and helpers (IsModelNotFound, IsLoadInProgress).
//   - load.go: LoadAll/Load pipeline from repository entry to ready backend.
//   - unload.go: Unload and Close teardown paths.
//   - reload.go: repository reconciliation used by the filesystem watcher.
//   - status_report.go: Status projection for the HTTP layer.
//   - sanity.go: runtime/repository sanity checks for diagnostics.
//   - events.go: lifecycle event publishing; eventpub_memory.go is the
//     in-memory publisher used by tests.
//   - metrics.go: prometheus collectors for loads, unloads and model states.
//   - ops.go: operation id generation for event correlation.
//
// The native runtime reaches this package only through the backend factory,
// so the manager itself is build-tag free; runtime availability shows up as
// per-model load errors and in SanityCheck.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (New/NewWithConfig, LoadAll, Load, Unload, Reload,
// Ready, Status, Close). Internal types are subject to change.
package manager
