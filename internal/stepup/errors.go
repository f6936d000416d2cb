package stepup

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrChallengeNotFound indicates no active challenge exists for the
	// (subject, operation type) pair; the caller must re-issue.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrChallengeExpired indicates the challenge is past its TTL
	ErrChallengeExpired = errors.New("challenge expired")
	// ErrCodeMismatch indicates the submitted code is wrong; retryable
	// up to the attempt bound.
	ErrCodeMismatch = errors.New("code mismatch")
	// ErrAttemptsExhausted indicates the challenge was invalidated after
	// too many wrong codes; the caller must re-issue.
	ErrAttemptsExhausted = errors.New("attempts exhausted")

	// ErrTokenNotFound indicates no such operation token exists
	ErrTokenNotFound = errors.New("operation token not found")
	// ErrTokenExpired indicates the token is past its TTL
	ErrTokenExpired = errors.New("operation token expired")
	// ErrTokenConsumed indicates the token was already redeemed
	ErrTokenConsumed = errors.New("operation token already consumed")
	// ErrScopeMismatch indicates the token was minted for a different
	// operation type. Treated as a security violation: audited, and the
	// claim is not undone.
	ErrScopeMismatch = errors.New("operation token scope mismatch")

	// ErrUnsupportedOperation indicates an operation type that cannot be
	// redeemed (provider linking is additive and never token-gated).
	ErrUnsupportedOperation = errors.New("operation cannot be redeemed")
)

// ThrottledError is returned when a rate ceiling is hit. It is distinct
// from validation failures and carries a retry-after hint.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// IsThrottled returns the ThrottledError when err is one
func IsThrottled(err error) (*ThrottledError, bool) {
	var te *ThrottledError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
