package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiterConfig tunes the per-IP throttle on the auth endpoints.
type RateLimiterConfig struct {
	MaxRequests int           // attempts allowed per window
	Window      time.Duration // counting window
	BlockTime   time.Duration // lockout once the limit is exceeded
}

// RateLimiter throttles login/registration attempts per client IP, backed by
// Redis so the limit holds across server instances. Exceeding the limit
// starts a lockout for BlockTime, not just until the window rolls over.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimiterConfig
}

func NewRateLimiter(redisClient *redis.Client, config RateLimiterConfig) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		config: config,
	}
}

func attemptKey(ip string) string { return "authlimit:" + ip }
func lockoutKey(ip string) string { return "authblock:" + ip }

// Middleware rejects over-limit clients with 429 and a Retry-After header.
// Redis errors fail open so an outage never locks everyone out of login.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		clientIP := c.ClientIP()

		retryAfter, err := rl.LockoutRemaining(ctx, clientIP)
		if err != nil {
			c.Next()
			return
		}
		if retryAfter > 0 {
			tooManyRequests(c, retryAfter)
			return
		}

		allowed, retryAfter, err := rl.Allow(ctx, clientIP)
		if err != nil {
			c.Next()
			return
		}
		if !allowed {
			tooManyRequests(c, retryAfter)
			return
		}

		c.Next()
	}
}

func tooManyRequests(c *gin.Context, retryAfter time.Duration) {
	seconds := int(retryAfter.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	c.Header("Retry-After", fmt.Sprintf("%d", seconds))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":       "too many attempts, please try again later",
		"retry_after": seconds,
	})
	c.Abort()
}

// Allow counts one attempt for the IP. INCR plus EXPIRE gives a fixed-window
// counter; the first attempt in a window sets the expiry. Crossing the limit
// arms the lockout key.
func (rl *RateLimiter) Allow(ctx context.Context, ip string) (bool, time.Duration, error) {
	count, err := rl.redis.Incr(ctx, attemptKey(ip)).Result()
	if err != nil {
		return false, 0, err
	}

	if count == 1 {
		if err := rl.redis.Expire(ctx, attemptKey(ip), rl.config.Window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count > int64(rl.config.MaxRequests) {
		if err := rl.redis.Set(ctx, lockoutKey(ip), 1, rl.config.BlockTime).Err(); err != nil {
			return false, 0, err
		}
		return false, rl.config.BlockTime, nil
	}

	return true, 0, nil
}

// LockoutRemaining reports how long an IP stays locked out; zero means it
// isn't.
func (rl *RateLimiter) LockoutRemaining(ctx context.Context, ip string) (time.Duration, error) {
	ttl, err := rl.redis.TTL(ctx, lockoutKey(ip)).Result()
	if err != nil {
		return 0, err
	}
	if ttl > 0 {
		return ttl, nil
	}
	return 0, nil
}
