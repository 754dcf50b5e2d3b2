package middleware

import (
	"context"
	"errors"

	"catalog-backend/internal/domains/catalog/model"
	"catalog-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Authenticator resolves the Authorization header into a request context
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (context.Context, error)
}

// AuthMiddleware attaches the current user to the request context.
// Requests without a header pass through anonymously; a header that does not
// authenticate is rejected with 401 instead of falling back to anonymous.
func AuthMiddleware(gate Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, err := gate.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			if errors.Is(err, model.ErrTokenInvalid) {
				response.Unauthorized(c, model.ToErrorCode(err), model.ToMessage(err))
				c.Abort()
				return
			}

			log.Error().
				Err(err).
				Str("request_id", c.GetString("request_id")).
				Msg("authentication lookup failed")
			response.InternalServerError(c, "Internal server error")
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
