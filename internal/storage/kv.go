// Package storage persists the capital ledger as a single snapshot record in a key-value store.
package storage

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound no value stored under the requested key.
var ErrNotFound = errors.New("key not found")

// KV durable key-value store holding opaque records.
type KV interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the value stored under key. It returns once the write is durable.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
