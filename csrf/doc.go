// Package csrf issues and verifies signed, expiring anti-forgery tokens.
//
// A token is an HS256 JWT whose only payload is a random nonce from the token
// package, an optional binding hash, and the registered expiry claims. Tokens
// carry no identity; a binding value (for example a session id) is stored only
// as a SHA-256 digest.
//
// # Architecture boundaries
//
// The Issuer is immutable after NewIssuer and safe for concurrent use. HTTP
// transport (cookies, headers) belongs to the middleware package.
//
// # What this package must NOT do
//
//   - Accept any signing algorithm other than HS256.
//   - Fall back to an unsigned or weakly random nonce.
package csrf
