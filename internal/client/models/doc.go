// Package models defines the wire and domain types exchanged with the search
// portal API: users and auth payloads, search requests and results,
// favorites, history, dashboard statistics and contact messages.
package models
