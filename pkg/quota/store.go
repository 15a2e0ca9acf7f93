package quota

import (
	"context"
	"time"
)

// Store keeps usage counters.
type Store interface {
	// Count returns the current value of key, 0 when absent or expired.
	Count(ctx context.Context, key string) (int64, error)

	// Increment adds one to key and returns the new value. The key expires
	// after ttl; ttl is applied when the key is created.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Reset deletes key.
	Reset(ctx context.Context, key string) error
}
