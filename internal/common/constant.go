// Package common contains shared constants, sentinel errors and small helpers
// used by both the portal client and the reference portal API.
package common

const (
	// AuthorizationHeaderName carries the bearer token on authenticated calls.
	AuthorizationHeaderName = "Authorization"
	// BearerPrefix precedes the token inside the Authorization header.
	BearerPrefix = "Bearer "
	// RequestIDHeaderName tags each outbound call so server logs can be correlated.
	RequestIDHeaderName = "X-Request-ID"
)
