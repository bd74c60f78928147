// Package security derives the posture report for a configured Monitor: the
// effective limits, which optional hardening is active, and which documented
// gaps remain.
//
// # What this package must NOT do
//
//   - Read configuration files or inspect live traffic. It only summarizes
//     the values it is given.
package security
