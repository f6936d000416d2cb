package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"teamplan/internal/config"
	"teamplan/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter throttles requests per client IP using a token bucket.
// This is the coarse HTTP edge limit; the per-subject action limits
// live in the ratelimit package.
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	cleanup  time.Duration
	window   int
	requests int
}

// NewRateLimiter creates a new rate limiter middleware
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	ratePerSecond := rate.Every(time.Duration(cfg.RateLimit.Window) * time.Second / time.Duration(cfg.RateLimit.Requests))

	limiter := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(ratePerSecond),
		burst:    cfg.RateLimit.Requests,
		cleanup:  time.Hour,
		window:   cfg.RateLimit.Window,
		requests: cfg.RateLimit.Requests,
	}

	go limiter.cleanupRoutine()

	return limiter
}

// getLimiter returns a rate limiter for the given key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[key]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double check after acquiring write lock
	limiter, exists = rl.limiters[key]
	if exists {
		return limiter
	}

	limiter = rate.NewLimiter(rl.rate, rl.burst)

	// Reserve zero tokens to prime the bucket so first requests pass
	now := time.Now()
	r := limiter.ReserveN(now, 0)
	if r.OK() {
		delay := r.Delay()
		if delay > 0 {
			limiter.AllowN(now.Add(-delay), 1)
		}
	}

	rl.limiters[key] = limiter
	return limiter
}

// cleanupRoutine periodically drops idle limiters to bound memory
func (rl *RateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		rl.limiters = make(map[string]*rate.Limiter)
		rl.mu.Unlock()
	}
}

// reject writes the throttle response and aborts the request
func (rl *RateLimiter) reject(c *gin.Context, reset time.Time, retryAfter int) {
	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.requests))
	c.Header("X-RateLimit-Remaining", "0")
	c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", reset.Unix()))
	c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
	c.JSON(http.StatusTooManyRequests, models.ThrottledResponse{
		Error:      "rate limit exceeded",
		RetryAfter: retryAfter,
	})
	c.Abort()
}

// Middleware returns a Gin middleware function that implements rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting for Swagger documentation
		if c.Request.URL.Path == "/swagger/index.html" ||
			c.Request.URL.Path == "/swagger/doc.json" ||
			c.Request.URL.Path == "/swagger/*any" {
			c.Next()
			return
		}

		key := c.ClientIP()
		limiter := rl.getLimiter(key)

		now := time.Now()
		r := limiter.ReserveN(now, 1)
		if !r.OK() {
			rl.reject(c, now.Add(time.Duration(rl.window)*time.Second), rl.window)
			return
		}

		delay := r.Delay()
		if delay > 0 {
			rl.reject(c, now.Add(delay), int(delay.Seconds()))
			return
		}

		tokens := int(limiter.Tokens())
		if tokens > rl.requests {
			tokens = rl.requests
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.requests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", tokens))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(time.Duration(rl.window)*time.Second).Unix()))

		c.Next()
	}
}
