// Package canonical produces deterministic JSON for container exports.
//
// Output follows RFC 8785 where it matters for content addressing:
//   - Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//   - No HTML escaping
//   - Strings NFC normalized
//   - Numbers in shortest round-trip form
//
// Unlike strict RFC 8785, null is allowed: containers legitimately hold
// absent values. NaN and infinities are rejected.
//
// Content hashes use SHA-256 with a domain prefix and a NUL separator, so a
// snapshot hash can never collide with an invocation hash over the same bytes.
package canonical
