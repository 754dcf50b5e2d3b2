package repository

import (
	"context"
	"time"

	"catalog-backend/internal/domains/catalog/model"
	"catalog-backend/pkg/cache"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const userCacheKeyPrefix = "user:"

// CachedUserLookup resolves users by id through a cache before hitting the store.
// Users are never mutated after creation, so entries need no invalidation;
// deleted users are not a concern of this service.
type CachedUserLookup struct {
	users UserRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedUserLookup wraps users with a read-through cache.
// A nil cache disables caching.
func NewCachedUserLookup(users UserRepository, c cache.Cache, ttl time.Duration) *CachedUserLookup {
	return &CachedUserLookup{users: users, cache: c, ttl: ttl}
}

// GetUserByID returns model.ErrNotFound if not exists. Cache failures are
// logged and fall through to the store.
func (l *CachedUserLookup) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if l.cache == nil {
		return l.users.GetUserByID(ctx, id)
	}

	key := userCacheKeyPrefix + id.String()

	var u model.User
	found, err := l.cache.Get(ctx, key, &u)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("user cache get failed")
	} else if found {
		return &u, nil
	}

	stored, err := l.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := l.cache.Set(ctx, key, stored, l.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("user cache set failed")
	}
	return stored, nil
}
