// Package session owns the client's authentication state.
//
// A Manager is the only writer of the in-memory session and, together with
// the API gateway's 401 handler, of the persisted credential. Hosts read
// immutable Snapshot values and may Subscribe to changes; they never hold a
// reference to mutable state.
//
// Lifecycle:
//
//	Uninitialized -> Verifying -> Authenticated | Unauthenticated
//	Authenticated -> Unauthenticated  (Logout, forced invalidation)
//
// Results of requests that were issued before a logout or a new login are
// dropped: every login, register, logout and forced invalidation starts a
// new generation, and profile updates and startup verification only apply
// their result while their generation is still current.
package session
