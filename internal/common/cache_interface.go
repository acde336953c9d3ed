package common

import (
	"context"
	"time"
)

// CacheInterface defines the contract for short-lived cache implementations.
// Values are stored as JSON so every backend round-trips the same types.
type CacheInterface interface {
	// Set stores value under key for the given duration
	Set(ctx context.Context, key string, value any, duration time.Duration) error

	// Get decodes the cached value into out.
	// Returns false when the key is absent or expired.
	Get(ctx context.Context, key string, out any) (bool, error)

	// Delete removes a value from cache by key
	Delete(ctx context.Context, key string) error

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}
