// Package fakeportal is an in-memory implementation of the portal REST API.
//
// It serves the same routes and payloads as the real backend so the client
// can be developed and tested without it: accounts with bcrypt hashes,
// HS256 access tokens with an expiry, favorites, search history, activity
// stats and the contact inbox. Search results are canned and depend only on
// the request, so they are stable across runs. A query of "nothing" yields
// an empty result list.
//
// cmd/devserver runs it on a TCP port; tests mount Handler on httptest.
package fakeportal
