// Package middleware exposes HTTP adapters over a goGuard.Monitor and a csrf.Issuer.
//
// # Guards
//
//   - [RequireRole] rejects requests whose role does not reach the required level.
//   - [LimitUpload] vets multipart file parts against the Monitor's upload policy.
//   - [CSRF] enforces double-submit anti-forgery tokens on state-changing methods.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Monitor calls. It does NOT make security
// decisions itself: role order, upload policy and token validity are all delegated.
// Identity comes from the caller, through a RoleFunc or goGuard.WithRole.
//
// # What this package must NOT do
//
//   - Authenticate principals or manage sessions.
//   - Access Redis (the Monitor handles I/O).
//   - Echo rejected input back in error bodies.
package middleware
