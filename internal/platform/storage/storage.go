// Package storage provides key-to-JSON-blob persistence with file, memory,
// Redis, and Postgres backends. All backends share the same small contract:
// get, set, and delete by string key, at-least-once, no transactions.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written or has
// been deleted.
var ErrNotFound = errors.New("storage: key not found")

// Store is the blob storage contract.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
