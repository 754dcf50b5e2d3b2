package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catalog-backend/pkg/cache"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisCache implements cache.Cache with JSON encoded values
type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache creates a Redis backed cache. The connection is verified by Connect.
func NewRedisCache(host, password string, db int) cache.Cache {
	return &RedisCache{
		Client: redis.NewClient(&redis.Options{
			Addr:         host,
			Password:     password,
			DB:           db,
			PoolSize:     10,
			MinIdleConns: 5,
			MaxRetries:   3,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}),
	}
}

func (r *RedisCache) Connect(ctx context.Context) error {
	log.Info().Str("addr", r.Client.Options().Addr).Msg("Connecting to Redis")

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	log.Info().Msg("Redis connected")
	return nil
}

func (r *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("redis decode %s: %w", key, err)
	}
	return true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis encode %s: %w", key, err)
	}
	if err := r.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := r.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}
