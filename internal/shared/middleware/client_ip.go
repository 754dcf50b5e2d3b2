package middleware

import (
	"context"

	"catalog-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type clientIPKey struct{}

// ClientIPMiddleware extracts the client IP address from the request and
// stores it in both the gin context and the request context.
//
// Usage:
//
//	router.Use(middleware.ClientIPMiddleware())
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set("client_ip", clientIP)

		ctx := context.WithValue(c.Request.Context(), clientIPKey{}, clientIP)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetClientIPFromContext retrieves the client IP from context
// Returns empty string if not found
func GetClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
