package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sunrinpass/server/internal/constants"
	"github.com/sunrinpass/server/pkg/logger"
)

type rateLimiter struct {
	tokens     map[string][]time.Time
	maxRequest int
	duration   time.Duration
	mu         sync.Mutex
}

func newRateLimiter(maxRequest int, duration time.Duration) *rateLimiter {
	return &rateLimiter{
		tokens:     make(map[string][]time.Time),
		maxRequest: maxRequest,
		duration:   duration,
	}
}

func (rl *rateLimiter) cleanup(now time.Time) {
	for ip, tokens := range rl.tokens {
		var valid []time.Time
		for _, t := range tokens {
			if now.Sub(t) <= rl.duration {
				valid = append(valid, t)
			}
		}
		if len(valid) > 0 {
			rl.tokens[ip] = valid
		} else {
			delete(rl.tokens, ip)
		}
	}
}

// RateLimit caps requests per client IP within a sliding window.
func RateLimit(maxRequest int, duration time.Duration) gin.HandlerFunc {
	limiter := newRateLimiter(maxRequest, duration)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		limiter.mu.Lock()
		defer limiter.mu.Unlock()

		limiter.cleanup(now)

		tokens := limiter.tokens[ip]
		if len(tokens) >= maxRequest {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)

			c.JSON(http.StatusTooManyRequests, constants.BuildErrorResponse("Rate limit exceeded", nil))
			c.Abort()
			return
		}

		limiter.tokens[ip] = append(tokens, now)

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequest))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", maxRequest-len(tokens)-1))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(duration).Unix()))

		c.Next()
	}
}
