// Package rules provides the pattern registry and validator used by goGuard at
// input boundaries (form fields, search boxes, upload names).
//
// # Rules
//
// A [Rule] is an immutable allow-list: length bounds counted in runes plus a
// compiled pattern and/or a format check. Rules are grouped in a [Registry]
// that is frozen at construction. [Default] returns the built-in table
// (searchInput, fileName, email, url, phone, strongPassword).
//
// # Outcomes
//
// [Registry.Validate] returns an [Outcome] for user input and an error only for
// programming faults (an unknown rule id wraps [ErrUnknownRule]). Callers must
// branch on [Outcome.IsAccepted].
//
// # What this package must NOT do
//
//   - Mutate a registry after construction.
//   - Use deny-lists: every predicate names the characters it permits.
//   - Log, count, or otherwise observe calls (the root package does that).
package rules
