// Package permission provides the role order used by goGuard authorization
// checks.
//
// # Roles
//
// [Role] is a closed enumeration with a strict total order
// Viewer < Editor < Manager < Admin. The zero value [RoleUnknown] sits below
// every role and is never granted anything. [HasPermission] compares levels.
//
// # Open-ended roles
//
// Deployments that need custom role names use a [Hierarchy]: an explicit
// name-to-level table that is populated at startup, frozen, and then read
// concurrently. Absent names are denied.
//
// # What this package must NOT do
//
//   - Consult time, network, or any state beyond the table when deciding.
//   - Grant anything to an unknown role, on either side of the comparison.
package permission
