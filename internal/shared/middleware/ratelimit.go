package middleware

import (
	"catalog-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Limiter decides whether a keyed request may proceed
type Limiter interface {
	Allow(key string) bool
}

// RateLimit throttles requests per client IP. Requires ClientIPMiddleware
// earlier in the chain; falls back to gin's ClientIP otherwise.
func RateLimit(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString("client_ip")
		if key == "" {
			key = c.ClientIP()
		}

		if !limiter.Allow(key) {
			log.Warn().
				Str("request_id", c.GetString("request_id")).
				Str("ip", key).
				Str("path", c.Request.URL.Path).
				Msg("rate limit exceeded")
			response.TooManyRequests(c, "too many requests, please slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
