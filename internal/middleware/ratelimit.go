package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"commflock/internal/pkg"
	"commflock/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

// Limiter admits or rejects one request for an identifier within a window.
type Limiter interface {
	Allow(ctx context.Context, scope, identifier string, limit int, window time.Duration) (redis.LimitResult, error)
}

// Window presets matching the product limits: strict guards signup and reset
// links, auth guards credential checks, api guards general mutations.
const (
	ScopeStrict = "strict"
	ScopeAuth   = "auth"
	ScopeAPI    = "api"
)

// RateLimit applies a sliding-window limit keyed by client IP. Fails open with
// a warning if the limiter backend is unavailable.
func RateLimit(limiter Limiter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		res, err := limiter.Allow(c.Request.Context(), scope, c.ClientIP(), limit, window)
		if err != nil {
			pkg.Logger().Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", res.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", res.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", res.Reset.Unix()))

		if !res.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"msg":  "too many requests, please try again later",
				"kind": "rate_limited",
			})
			return
		}
		c.Next()
	}
}
