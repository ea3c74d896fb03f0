// Package cache stores remote responses between runs.
//
// Index searches, fetched license texts and repository metadata are
// cached under keys built by a [Keyer]. Three backends exist:
//
//   - [FileCache]: one JSON entry per key under a local directory
//   - [RedisCache]: a shared Redis instance, for CI fleets
//   - [NullCache]: caching disabled
//
// All backends treat expired or corrupt entries as misses.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}
