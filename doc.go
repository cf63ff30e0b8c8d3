// Package session implements the authentication slice of a conventional web
// application: JWT issuance and verification, a credential store backed by
// Bun repositories, an HTTP controller for register/login/profile, and the
// client half of the flow (a durable session state holder plus a role-based
// access guard).
//
// Token lifecycle:
//   - TokenService mints bearer tokens signed with a shared HS256 key. Decode
//     verifies signature and structure only; expiry is always the caller's
//     check, so a token can be inspected after it has lapsed.
//   - Holder owns the client-side state. It persists the raw token through a
//     TokenStorage, decodes it on activation, and collapses to a logged-out
//     state whenever the persisted token is corrupt or expired.
//
// Access gating:
//   - CanAccess is a pure predicate over the holder's AuthState. It never
//     touches rendering or routing; callers act on the returned Decision
//     (allow, pending, or redirect).
package session
