package middleware

import (
	"runtime/debug"

	"catalog-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Recovery turns a handler panic into a 500 envelope and logs the stack
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			log.Error().
				Str("request_id", c.GetString("request_id")).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("Panic recovered")

			response.InternalServerError(c, "Internal server error")
			c.Abort()
		}()

		c.Next()
	}
}
