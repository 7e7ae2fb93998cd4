// internal/cache/cache.go
//
// Key/value caches for dictionary lookups.
// Backends:
//   - Memory: process-local map with expiry (default).
//   - SQLite: survives restarts; schema applied from embedded migrations.
//   - Redis:  shared between replicas.
//
// Values are opaque strings; callers own the encoding.

package cache

import (
	"context"
	"time"
)

// Cache stores string values with a time-to-live.
type Cache interface {
	// Get returns the value and true on a hit, or "", false on a miss.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Close releases backend resources.
	Close() error
}
