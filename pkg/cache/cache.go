// Package cache stores the outputs of expensive morphology operations.
//
// Entries are opaque byte slices addressed by string keys. Keys are built by
// a [Keyer] from a content hash of the input plus the parameters of the
// operation, so a changed input or parameter never hits a stale entry.
//
// Backends:
//   - [NullCache]: stores nothing, used with --no-cache
//   - [FileCache]: one JSON file per entry under a directory, used by the CLI
//   - [RedisCache]: shared cache for several workers or the HTTP server
package cache

import (
	"context"
	"time"
)

// Cache is a key-value store with optional per-entry expiration.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is reported
	// as a miss with a nil error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Entry lifetimes. Outputs are pure functions of their key, so they only
// expire to bound disk use.
const (
	TTLShrink = 7 * 24 * time.Hour
	TTLClone  = 7 * 24 * time.Hour
)
