package auth

import (
	"context"

	"catalog-backend/internal/domains/catalog/model"
)

type contextKey string

const currentUserKey contextKey = "current_user"

// WithCurrentUser returns a child context carrying u as the current user
func WithCurrentUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

// CurrentUser returns the user attached by the gate, if any
func CurrentUser(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(currentUserKey).(*model.User)
	return u, ok && u != nil
}

// RequireUser returns the current user or model.ErrAuthenticationRequired
func RequireUser(ctx context.Context) (*model.User, error) {
	u, ok := CurrentUser(ctx)
	if !ok {
		return nil, model.ErrAuthenticationRequired
	}
	return u, nil
}
