package middleware

import (
	"fmt"
	"time"

	"commflock/internal/metrics"
	"commflock/internal/pkg"

	"github.com/gin-gonic/gin"
)

// RequestLog emits one structured line per request and feeds the request counter.
func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, route, fmt.Sprintf("%dxx", status/100)).Inc()

		pkg.Logger().Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
