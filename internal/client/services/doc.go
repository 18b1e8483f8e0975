// Package services contains the orchestration layer of the portal client.
//
// Each service coordinates one or more calls on a narrow API interface
// (implemented by api.HTTPClient) into a UI-facing operation. Stateful
// services hold transient copies of server-owned data and only change them
// after the server confirms a write; they implement Resetter so that the
// session teardown can clear them.
package services
