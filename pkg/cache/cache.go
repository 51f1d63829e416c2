// Package cache memoizes run results and rendered artifacts.
//
// Caching is opt-in: the CLI only opens a [FileCache] when asked to, and
// every other caller gets a [NullCache]. Keys are produced by a [Keyer] from
// the content hash of the input plus the options that influence the result,
// so a changed input or option never hits a stale entry.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// An expired or unreadable entry is reported as a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default time-to-live values.
const (
	// TTLResult applies to memoized run results. Results are a pure function
	// of the keyed input, so the TTL only bounds disk usage.
	TTLResult = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered SVG/PNG/DOT output.
	TTLArtifact = 7 * 24 * time.Hour
)
