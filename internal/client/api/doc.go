// Package api is the HTTP transport to the search portal's REST API.
//
// # Overview
//
// HTTPClient issues JSON requests against a base URL, attaching the bearer
// token from an injected TokenSource and an X-Request-ID per call. Every call
// runs under a bounded wait chosen by its class:
//
//   - auth (5s): login, register, profile update, password reset flows
//   - session (3s): /auth/me, API key refresh, e-mail availability
//   - logout (2s)
//   - request (5s): everything else
//
// # Error Handling
//
// Failures are mapped to typed errors that also match sentinel values with
// errors.Is:
//
//   - *AuthError      (401/403)            -> ErrUnauthorized
//   - *TimeoutError   (client deadline)    -> ErrTimeout
//   - *ServerError    (other non-2xx)      -> ErrServer
//   - *NetworkError   (no response)        -> ErrUnavailable
//
// Cancellation by the caller is returned as context.Canceled unchanged; an
// abandoned request is not a failure to report. No call is retried.
//
// An AuthError on an authenticated call (anything except login, register,
// logout and the password-reset flow) fires the unauthorized hook, which the
// application wires to the session teardown.
package api
