package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/emmiamia/nourishsteps/utils"
)

const limiterIdle = 5 * time.Minute

type ipLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu       sync.Mutex
	limiters map[string]*ipLimiter
}

// NewRateLimiter allows perMinute requests per IP, with half of that as burst.
func NewRateLimiter(perMinute int) *RateLimiter {
	perMinute = max(perMinute, 1)
	return &RateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
		limiters: map[string]*ipLimiter{},
	}
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !rl.Allow(ctx.ClientIP()) {
			utils.Error(ctx, http.StatusTooManyRequests, utils.CodeRateLimited, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// Allow consumes one token for key.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for k, l := range rl.limiters {
		if now.After(l.expires) {
			delete(rl.limiters, k)
		}
	}

	l, ok := rl.limiters[key]
	if !ok {
		l = &ipLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = l
	}
	l.expires = now.Add(limiterIdle)
	return l.limiter.Allow()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
