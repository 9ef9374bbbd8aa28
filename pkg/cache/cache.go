// Package cache provides the storage layer for computed layouts, rendered
// artifacts and probed thumbnail sizes.
//
// Three backends implement [Cache]: [FileCache] for CLI use, [RedisCache]
// for the HTTP server and [NullCache] to disable caching. Keys are produced
// by a [Keyer] so that every backend shares one key scheme.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the value for key and whether it was found. An expired
	// entry is a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
