package repository

import (
	"context"
	"time"
)

// RateLimitRepository defines the interface for rate limit buckets.
// Buckets are fixed windows keyed by (class, key, windowStart); the
// increment must be atomic so concurrent requests cannot all observe a
// pre-increment count under the ceiling.
type RateLimitRepository interface {
	Repository
	// Increment bumps the counter for the bucket and returns the count
	// after the increment. A missing bucket starts at one.
	Increment(ctx context.Context, class, key string, windowStart time.Time) (int, error)
	// DeleteBefore removes buckets whose window started before cutoff.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
