// Package audit implements async event dispatching for security observations.
//
// # Components
//
//   - [Sink]: event consumer interface, with channel, JSON writer, fan-out and no-op sinks.
//   - [Dispatcher]: buffered async relay that drops events when full.
//   - [Event]: one structured observation record.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which events
// to emit; the Monitor does.
//
// # What this package must NOT do
//
//   - Block the emitting goroutine: a full buffer drops and counts.
//   - Let a sink panic escape the dispatcher goroutine.
//   - Import goGuard or any sibling internal package.
package audit
