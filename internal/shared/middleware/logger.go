package middleware

import (
	"time"

	"catalog-backend/internal/domains/catalog/auth"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger writes one structured line per request. Server errors log at error
// level, client errors at warn.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event = event.
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency_ms", time.Since(start)).
			Str("ip", c.GetString("client_ip"))

		if u, ok := auth.CurrentUser(c.Request.Context()); ok {
			event = event.Str("user", u.Username)
		}

		event.Msg("HTTP Request")
	}
}
