// Package signal keeps Redis-backed fixed-window counters of rejected calls so
// operators can spot bursts of hostile input against one rule or boundary.
//
// # Window semantics
//
// INCR + conditional EXPIRE on the first hit of a window. Keys are
// <prefix>:<subject>, e.g. gg:sig:validate:searchInput.
//
// # What this package must NOT do
//
//   - Block a validation call (it runs on the audit dispatcher goroutine).
//   - Decide whether input is accepted; it only counts.
//   - Be imported outside the goGuard module.
package signal
