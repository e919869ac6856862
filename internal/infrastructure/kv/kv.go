package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("kv: key not found")

// Store is a key-value store with per-key expiry. The rate limiter, test
// session, and settings all sit on this interface so they can run against
// Redis in production and an in-memory store with a fake clock in tests.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes key with a time-to-live. A non-positive ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Incr increments the integer value at key and returns the new count.
	// The ttl is applied only when the key is created by this call, so the
	// expiry window starts at the first increment.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
