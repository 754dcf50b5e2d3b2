package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer.
// Implementations can be swapped (Redis, in-memory).
type Cache interface {
	// Get loads the entry at key and unmarshals it into dest.
	// found=false on a cache miss, dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Ping checks the connection
	Ping(ctx context.Context) error
}
