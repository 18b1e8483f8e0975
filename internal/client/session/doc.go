// Package session holds the authenticated context of the client: the bearer
// token, its decoded expiry and the current user.
//
// A Session is created on application start from the persisted token and
// destroyed on logout. Dependents that cache per-user state register
// teardown callbacks with Subscribe; Destroy runs them after clearing the
// session, so every cascade starts from an already logged-out state.
package session
