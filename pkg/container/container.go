package container

import (
	"context"
	"fmt"
	"time"

	"catalog-backend/internal/config"
	"catalog-backend/internal/domains/catalog/auth"
	catalogHandler "catalog-backend/internal/domains/catalog/handler"
	catalogRepo "catalog-backend/internal/domains/catalog/repository"
	catalogService "catalog-backend/internal/domains/catalog/service"
	infraCache "catalog-backend/internal/infrastructure/cache"
	"catalog-backend/internal/infrastructure/database"
	"catalog-backend/pkg/cache"
	"catalog-backend/pkg/jwt"
	"catalog-backend/pkg/ratelimit"

	"github.com/rs/zerolog/log"
)

const loginLimiterIdleTTL = 10 * time.Minute

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application.
// Initialization order: config → infrastructure → store → services → handlers.
type Container struct {
	// Infrastructure
	Config       *config.Config
	DB           *database.PostgresDB // nil unless STORE_DRIVER=postgres
	Cache        cache.Cache          // nil when Redis is disabled or unreachable
	JWTManager   *jwt.Manager
	LoginLimiter *ratelimit.KeyedRateLimiter

	// Data access
	Store catalogRepo.Store

	// Business logic
	QueryService    catalogService.QueryService
	MutationService catalogService.MutationService
	Gate            *auth.Gate

	// HTTP
	CatalogHandler *catalogHandler.CatalogHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the dependency graph from environment configuration
func NewContainer() (*Container, error) {
	log.Info().Msg("Initializing DI container")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewContainerWithConfig(cfg)
}

// NewContainerWithConfig builds the dependency graph from cfg
func NewContainerWithConfig(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}
	log.Info().Str("environment", cfg.App.Environment).Str("store", cfg.Store.Driver).Msg("Config loaded")

	if err := c.initStore(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	c.initCache()

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL)
	c.LoginLimiter = ratelimit.New(cfg.Login.RateRPS, cfg.Login.RateBurst, loginLimiterIdleTTL)

	if err := c.initServices(); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	c.CatalogHandler = catalogHandler.NewCatalogHandler(c.QueryService, c.MutationService)

	log.Info().Msg("DI container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initStore() error {
	switch c.Config.Store.Driver {
	case config.StoreMemory:
		c.Store = catalogRepo.NewMemoryStore()

	case config.StoreBadger:
		store, err := catalogRepo.NewBadgerStore(c.Config.Store.BadgerPath)
		if err != nil {
			return err
		}
		c.Store = store

	case config.StorePostgres:
		dbConfig, err := config.LoadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load database config: %w", err)
		}

		db := database.NewPostgresDB(dbConfig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := db.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db

		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database health check failed: %w", err)
		}
		if err := catalogRepo.EnsureSchema(ctx, db.Pool); err != nil {
			return err
		}
		c.Store = catalogRepo.NewPostgresStore(db.Pool)

	default:
		return fmt.Errorf("unknown store driver %q", c.Config.Store.Driver)
	}

	log.Info().Str("driver", c.Config.Store.Driver).Msg("Store ready")
	return nil
}

// initCache connects Redis when enabled. Redis failure is not critical:
// the gate then reads users straight from the store.
func (c *Container) initCache() {
	if !c.Config.Redis.Enabled {
		return
	}

	redisCache := infraCache.NewRedisCache(
		c.Config.Redis.Host,
		c.Config.Redis.Password,
		c.Config.Redis.DB,
	)

	rc, ok := redisCache.(*infraCache.RedisCache)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed (non-critical), user cache disabled")
		_ = rc.Close()
		return
	}
	c.Cache = redisCache
}

func (c *Container) initServices() error {
	credentials, err := auth.NewSharedSecretChecker(c.Config.Login.SharedSecret)
	if err != nil {
		return err
	}

	c.QueryService = catalogService.NewQueryService(c.Store)
	c.MutationService = catalogService.NewMutationService(c.Store, c.JWTManager, credentials)

	users := catalogRepo.NewCachedUserLookup(c.Store, c.Cache, c.Config.Redis.UserTTL)
	c.Gate = auth.NewGate(c.JWTManager, users)

	return nil
}

// HealthCheck verifies the store and, when configured, the cache
func (c *Container) HealthCheck(ctx context.Context) map[string]string {
	status := map[string]string{"store": "ok"}

	if err := c.Store.Ping(ctx); err != nil {
		status["store"] = err.Error()
	}
	if c.Cache != nil {
		status["cache"] = "ok"
		if err := c.Cache.Ping(ctx); err != nil {
			status["cache"] = err.Error()
		}
	}

	return status
}

// Cleanup releases resources on shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.LoginLimiter != nil {
		c.LoginLimiter.Stop()
	}

	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close store")
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}
}
