// Package store keeps persisted scenes in a key/value backend: memory for
// tests and the browser build, files on disk, or PostgreSQL.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// KV is a byte-blob key/value store. Get returns ErrNotFound for a missing
// key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
