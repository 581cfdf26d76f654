// Package cache provides the rate-limited cache gateway that fronts all
// outbound Reddit calls: a fixed-window call counter per logical key plus a
// TTL-boxed JSON value cache.
package cache

import (
	"context"
	"time"
)

// RateLimitResult reports the post-increment state of a rate counter.
type RateLimitResult struct {
	Allowed   bool
	Remaining int
}

// Gateway combines a sliding-counter rate limiter with an opaque value cache.
// The counter is a fixed window, not a true sliding window: bursts across a
// window boundary are accepted as a known approximation.
type Gateway interface {
	// Allow increments the counter for key. The first increment in a window
	// arms the counter's expiry at window from now. Allowed is true while
	// the post-increment count does not exceed limit.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error)

	// Get decodes the cached value for key into dest. The second return
	// distinguishes a missing key from a stored zero value.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
