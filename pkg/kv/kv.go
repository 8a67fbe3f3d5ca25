// Package kv abstracts the durable key-value boundary used for draft
// snapshots and session carts. Callers must treat missing or malformed
// values as an instruction to fall back to defaults, never as a fatal
// condition.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports that no value is stored at the key.
var ErrNotFound = errors.New("kv: key not found")

// Store is the minimal surface the core needs from durable storage.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
}
