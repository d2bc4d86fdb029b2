package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/speechturn/errors"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// RequestsPerMinute is the allowance per key. Zero disables limiting.
	RequestsPerMinute int `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	// KeyFunc extracts the rate limit key. Defaults to UserBasedKey.
	KeyFunc func(*gin.Context) string `yaml:"-" mapstructure:"-"`
	// Now replaces time.Now in tests.
	Now func() time.Time `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults sets the key and clock.
func (c *RateLimitConfig) ApplyDefaults() {
	if c.KeyFunc == nil {
		c.KeyFunc = UserBasedKey
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// RateLimit applies a per-key sliding one-minute window. Rejections are 429
// RATE_LIMITED responses.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	cfg.ApplyDefaults()
	if cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	rl := &rateLimiter{
		requests: make(map[string][]time.Time),
		limit:    cfg.RequestsPerMinute,
		now:      cfg.Now,
	}
	return func(c *gin.Context) {
		if !rl.allow(cfg.KeyFunc(c)) {
			abort(c, apperrors.RateLimited())
			return
		}
		c.Next()
	}
}

// IPBasedKey keys by client IP.
func IPBasedKey(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// UserBasedKey keys by authenticated user, falling back to client IP.
func UserBasedKey(c *gin.Context) string {
	if uid := c.GetString(UserIDKey); uid != "" {
		return "user:" + uid
	}
	return IPBasedKey(c)
}

type rateLimiter struct {
	mu        sync.Mutex
	requests  map[string][]time.Time
	limit     int
	now       func() time.Time
	lastSweep time.Time
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-time.Minute)
	if now.Sub(rl.lastSweep) > 5*time.Minute {
		rl.sweep(cutoff)
		rl.lastSweep = now
	}

	valid := filterByTime(rl.requests[key], cutoff)
	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}
	rl.requests[key] = append(valid, now)
	return true
}

// sweep drops keys with no requests inside the window.
func (rl *rateLimiter) sweep(cutoff time.Time) {
	for key, times := range rl.requests {
		valid := filterByTime(times, cutoff)
		if len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

func filterByTime(times []time.Time, cutoff time.Time) []time.Time {
	var result []time.Time
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}
