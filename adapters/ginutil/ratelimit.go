package ginutil

import "github.com/gin-gonic/gin"

// RateLimiter is the sliding-window limiter contract implemented by
// ratelimit/memory and ratelimit/redis.
type RateLimiter interface {
	AllowNamed(bucket, key string) (bool, error)
}

// AllowNamed checks the per-client limit for a named bucket. A nil limiter
// or a limiter error allows the request; limiting is best-effort.
func AllowNamed(c *gin.Context, rl RateLimiter, bucket string) bool {
	if rl == nil {
		return true
	}
	ok, err := rl.AllowNamed(bucket, c.ClientIP())
	if err != nil {
		return true
	}
	return ok
}
