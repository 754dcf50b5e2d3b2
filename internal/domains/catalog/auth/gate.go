package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog-backend/internal/domains/catalog/model"
	"catalog-backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const bearerPrefix = "Bearer "

// TokenVerifier checks a signed session token
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// UserLookup resolves the user id embedded in a token
type UserLookup interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Gate turns the request credential header into a current user
type Gate struct {
	tokens TokenVerifier
	users  UserLookup
}

func NewGate(tokens TokenVerifier, users UserLookup) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate resolves the Authorization header value.
//
// An empty header yields ctx unchanged (anonymous). Anything else must be a
// "Bearer <token>" whose signature verifies and whose user still exists;
// otherwise model.ErrTokenInvalid is returned and no user is attached.
func (g *Gate) Authenticate(ctx context.Context, header string) (context.Context, error) {
	if header == "" {
		return ctx, nil
	}

	if !strings.HasPrefix(header, bearerPrefix) {
		return ctx, fmt.Errorf("%w: unsupported authorization scheme", model.ErrTokenInvalid)
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return ctx, fmt.Errorf("%w: empty bearer token", model.ErrTokenInvalid)
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", model.ErrTokenInvalid, err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ctx, fmt.Errorf("%w: malformed user id", model.ErrTokenInvalid)
	}

	u, err := g.users.GetUserByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		log.Debug().Str("user_id", claims.UserID).Msg("token references unknown user")
		return ctx, fmt.Errorf("%w: unknown user", model.ErrTokenInvalid)
	}
	if err != nil {
		return ctx, fmt.Errorf("resolve current user: %w", err)
	}

	return WithCurrentUser(ctx, u), nil
}
