package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"teamplan/internal/config"
	"teamplan/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limiterConfig(requests, window, burst int) *config.Config {
	cfg := &config.Config{}
	cfg.RateLimit.Requests = requests
	cfg.RateLimit.Window = window
	cfg.RateLimit.Burst = burst
	return cfg
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		config        *config.Config
		requests      int
		expectedCodes []int
		timeBetween   time.Duration
		clientIP      string
	}{
		{
			name:          "Normal usage - under limit",
			config:        limiterConfig(10, 1, 10),
			requests:      3,
			expectedCodes: []int{200, 200, 200},
			timeBetween:   50 * time.Millisecond,
			clientIP:      "192.168.1.1",
		},
		{
			name:          "At rate limit",
			config:        limiterConfig(2, 1, 2),
			requests:      2,
			expectedCodes: []int{200, 200},
			timeBetween:   10 * time.Millisecond,
			clientIP:      "192.168.1.2",
		},
		{
			name:          "Exceeds rate limit",
			config:        limiterConfig(2, 1, 2),
			requests:      3,
			expectedCodes: []int{200, 200, 429},
			timeBetween:   10 * time.Millisecond,
			clientIP:      "192.168.1.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := NewRateLimiter(tt.config)

			router := gin.New()
			router.Use(limiter.Middleware())
			router.GET("/test", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			for i := 0; i < tt.requests; i++ {
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				req.Header.Set("X-Forwarded-For", tt.clientIP)

				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				assert.Equal(t, tt.expectedCodes[i], w.Code,
					"Request %d: expected status %d but got %d",
					i+1, tt.expectedCodes[i], w.Code)

				time.Sleep(tt.timeBetween)
			}
		})
	}
}

func TestRateLimiterThrottledBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(limiterConfig(1, 60, 1))

	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	var w *httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-For", "192.168.1.6")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var body models.ThrottledResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "rate limit exceeded", body.Error)
	assert.Greater(t, body.RetryAfter, 0)

	header, err := strconv.Atoi(w.Header().Get("Retry-After"))
	assert.NoError(t, err)
	assert.Equal(t, header, body.RetryAfter)
}

func TestRateLimiterSeparateIPs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(limiterConfig(1, 1, 1))

	router := gin.New()
	router.Use(limiter.Middleware())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, ip := range []string{"192.168.1.4", "192.168.1.5"} {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, 200, w.Code, "request from %s should succeed", ip)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	limiter := NewRateLimiter(limiterConfig(10, 1, 10))
	limiter.cleanup = 100 * time.Millisecond

	ips := []string{"192.168.1.1", "192.168.1.2", "192.168.1.3"}
	for _, ip := range ips {
		limiter.getLimiter(ip)
	}

	assert.Equal(t, len(ips), len(limiter.limiters), "Expected limiters to be created")

	time.Sleep(150 * time.Millisecond)

	limiter.mu.RLock()
	remaining := len(limiter.limiters)
	limiter.mu.RUnlock()
	assert.Equal(t, 0, remaining, "Expected limiters to be cleaned up")
}
