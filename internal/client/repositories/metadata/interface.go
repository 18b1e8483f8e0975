// Package metadata is a small key/value repository over the local SQLite
// store. The client keeps its persisted auth token here.
package metadata

import (
	"context"
	"time"
)

// Entry describes one stored key without its value.
type Entry struct {
	Key       string
	Size      int
	UpdatedAt time.Time
}

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// List returns the stored keys ordered by name.
	List(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) error
}
