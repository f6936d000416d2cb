// Package ratelimit provides the store-backed request throttle for the
// step-up flows. Counters live in the shared store, not in process
// memory, so ceilings hold across service instances.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"teamplan/internal/config"
	"teamplan/internal/repository"
	"time"
)

// Limit classes. Each class has its own ceiling and window; buckets are
// independent per class and per key.
const (
	ClassChallengeIssuance = "challenge-issuance"
	ClassCodeVerification  = "code-verification"
	ClassPasswordUpdate    = "password-update"
	ClassAccountCreation   = "account-creation"
)

// ErrUnknownClass indicates a limit class with no configured ceiling
var ErrUnknownClass = errors.New("unknown rate limit class")

// Decision is the outcome of a rate limit check
type Decision struct {
	Allowed bool
	// RetryAfter is how long the caller should wait before retrying.
	// Zero when Allowed.
	RetryAfter time.Duration
}

// Limiter enforces per-class fixed-window ceilings. Every Check
// increments the counter whether or not the guarded action later
// succeeds, so failures cannot be probed by selective counting.
type Limiter struct {
	repo    repository.RateLimitRepository
	classes map[string]config.LimitClass
	now     func() time.Time
}

// NewLimiter creates a limiter with the configured per-class ceilings
func NewLimiter(repo repository.RateLimitRepository, cfg config.LimitsConfig) *Limiter {
	return &Limiter{
		repo: repo,
		classes: map[string]config.LimitClass{
			ClassChallengeIssuance: cfg.ChallengeIssuance,
			ClassCodeVerification:  cfg.CodeVerification,
			ClassPasswordUpdate:    cfg.PasswordUpdate,
			ClassAccountCreation:   cfg.AccountCreation,
		},
		now: time.Now,
	}
}

// Key builds the composite bucket key from the network origin and the
// subject identifier.
func Key(origin, subject string) string {
	return origin + "|" + subject
}

// Check increments the bucket for (class, key) and compares the
// post-increment count against the class ceiling. The increment and
// compare happen against a single atomic store operation, so concurrent
// requests cannot all slip under the ceiling.
func (l *Limiter) Check(ctx context.Context, class, key string) (Decision, error) {
	limit, ok := l.classes[class]
	if !ok {
		return Decision{}, fmt.Errorf("%w: %s", ErrUnknownClass, class)
	}

	now := l.now()
	windowStart := now.Truncate(limit.Window)

	count, err := l.repo.Increment(ctx, class, key, windowStart)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to increment rate limit bucket: %w", err)
	}

	if count > limit.Ceiling {
		return Decision{
			Allowed:    false,
			RetryAfter: windowStart.Add(limit.Window).Sub(now),
		}, nil
	}

	return Decision{Allowed: true}, nil
}

// Window returns the configured window for a class. Used by the
// hygiene sweep to compute a safe deletion cutoff.
func (l *Limiter) Window(class string) time.Duration {
	return l.classes[class].Window
}
