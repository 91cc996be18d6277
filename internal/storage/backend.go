// Package storage persists library collections as JSON documents in a
// key-value backend and keeps saves off the caller's path.
package storage

import (
	"context"
)

// Backend is the raw key-value contract the gateway is built on. Load
// reports absence through its second return value instead of an error.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}
