// Package auth provides the credential and session core for the shop API:
// password hashing and verification, claims construction, and two session
// issuance paths sharing one claim set.
//
// Credentials:
//   - HashPassword derives base64(salt || key) with PBKDF2-HMAC-SHA256 and a
//     per-secret random salt. VerifyPassword re-derives with the stored salt
//     and compares in constant time; malformed blobs fail closed.
//
// Issuance:
//   - TokenService signs the claim set into a stateless HS256 token that is
//     valid until its expiry with no server-side state.
//   - SessionManager keeps the claim set server-side behind an opaque cookie
//     id with a 24 hour sliding window, renewable on use and revocable on
//     logout. Both implement the Issuer interface over the same claims.
//
// Identity:
//   - The Users repository is the identity store contract: lookups return
//     active records only, and the stored credential blob is only ever
//     decoded by VerifyPassword. UserProvider collapses unknown email and
//     wrong password into one failure so responses cannot enumerate
//     accounts.
package auth
