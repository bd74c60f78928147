// Package token generates unpredictable identifiers from the system CSPRNG.
//
// Tokens are opaque lowercase hex strings with no identity or expiry; callers
// attach meaning (anti-forgery nonce, reset link) themselves. When the entropy
// source fails the functions return [ErrEntropyUnavailable]. There is no
// fallback to a weaker generator.
//
// # What this package must NOT do
//
//   - Import math/rand or any seeded generator.
//   - Cache, store, or log generated tokens.
package token
