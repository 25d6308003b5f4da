package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// UserRateLimiter throttles expensive endpoints (receipt emails) per
// authenticated user, falling back to the client IP.
type UserRateLimiter struct {
	limiters map[string]*rateLimiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	entryTTL time.Duration
	now      func() time.Time
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterConfig holds configuration for the rate limiter
type RateLimiterConfig struct {
	RequestsPerMinute float64
	BurstSize         int
	EntryTTL          time.Duration
}

// DefaultRateLimiterConfig allows a short burst of emails, then one every
// ten seconds.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		RequestsPerMinute: 6,
		BurstSize:         5,
		EntryTTL:          30 * time.Minute,
	}
}

func NewUserRateLimiter(cfg RateLimiterConfig) *UserRateLimiter {
	return &UserRateLimiter{
		limiters: make(map[string]*rateLimiterEntry),
		rate:     rate.Limit(cfg.RequestsPerMinute / 60),
		burst:    cfg.BurstSize,
		entryTTL: cfg.EntryTTL,
		now:      time.Now,
	}
}

func (rl *UserRateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	entry, exists := rl.limiters[key]
	if !exists {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// Cleanup removes entries that haven't been used recently and returns how
// many were dropped. It is scheduled on the background worker.
func (rl *UserRateLimiter) Cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.entryTTL)
	removed := 0
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}

// Middleware returns a Gin middleware that applies per-user rate limiting
func (rl *UserRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := GetUserID(c)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		limiter := rl.getLimiter(key)
		if !limiter.Allow() {
			c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		c.Next()
	}
}

func (rl *UserRateLimiter) retryAfterSeconds() int {
	if rl.rate <= 0 {
		return 60
	}
	seconds := int(math.Round(1 / float64(rl.rate)))
	if seconds < 1 {
		return 1
	}
	return seconds
}
