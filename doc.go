// Package goGuard provides a security utility layer for code sitting at a trust
// boundary: allow-list input validation, context-specific output sanitization,
// CSPRNG tokens, declared-metadata upload checks, and ordered role checks.
//
// The package is designed for concurrent server workloads: Monitor methods are safe to
// call from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goGuard is the public surface. It exposes [Monitor], [Builder], [Config], and value
// types (MetricsSnapshot, SecurityReport, AuditEvent). The decision logic lives in the
// rules, sanitize, token, upload, permission and csrf packages, each usable on its own.
// Audit dispatch and Redis rejection signals live under internal/ and are never exported.
//
// # What this package must NOT do
//
//   - Let observation change or delay a result. Sinks run on the dispatcher goroutine;
//     a full buffer drops the event.
//   - Record validated values, generated tokens, or upload content.
//   - Fall back to a non-cryptographic generator when entropy is unavailable.
//   - Import any sub-package that re-imports goGuard (no import cycles).
//
// # Performance contract
//
// Validate, the sanitizers and HasPermission perform no I/O and take no locks on the
// hot path. Redis is touched only by the dispatcher goroutine when signals are enabled.
package goGuard
