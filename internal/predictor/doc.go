// Package predictor holds the trained price model in memory and answers
// prediction requests against it. It is structured into small files by
// concern:
//
//   - predictor.go: Predictor type, constructor, simple getters.
//   - config.go: Config and package defaults.
//   - types.go: lifecycle State.
//   - errors.go: error types and helpers (IsNotReady, IsInvalidInput, IsModelNotFound).
//   - load.go: resolving and deserializing the artifact, atomic reloads.
//   - infer.go: single and batch predictions with input validation.
//   - status_report.go: Status reporting.
//   - events.go, eventpub_memory.go: lifecycle events.
//   - watch.go: optional reload when the artifact on disk changes.
//
// The model is read once at startup and queried synchronously per request;
// a reload swaps the whole artifact under a write lock.
package predictor
