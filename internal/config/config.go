package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Store drivers
const (
	StoreMemory   = "memory"
	StoreBadger   = "badger"
	StorePostgres = "postgres"
)

// Config holds the whole application configuration, populated from environment variables
type Config struct {
	App   AppConfig
	Store StoreConfig
	Redis RedisConfig
	JWT   JWTConfig
	Login LoginConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type StoreConfig struct {
	Driver     string // memory, badger, postgres
	BadgerPath string // empty = in-memory badger
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Password string
	DB       int
	UserTTL  time.Duration
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration // 0 = tokens never expire
}

type LoginConfig struct {
	SharedSecret string
	RateRPS      float64
	RateBurst    int
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Library Catalog API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "4000"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Store: StoreConfig{
			Driver:     getEnv("STORE_DRIVER", StoreMemory),
			BadgerPath: getEnv("BADGER_PATH", ""),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			UserTTL:  getEnvDuration("USER_CACHE_TTL", 15*time.Minute),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", defaultJWTSecret),
			TTL:    getEnvDuration("JWT_TTL", 0),
		},
		Login: LoginConfig{
			SharedSecret: getEnv("LOGIN_SHARED_SECRET", "secret"),
			RateRPS:      getEnvFloat("LOGIN_RATE_RPS", 1),
			RateBurst:    getEnvInt("LOGIN_RATE_BURST", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the config is usable
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreMemory, StoreBadger, StorePostgres:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Login.SharedSecret == "" {
		return fmt.Errorf("LOGIN_SHARED_SECRET must not be empty")
	}
	if c.Login.RateRPS <= 0 || c.Login.RateBurst <= 0 {
		return fmt.Errorf("LOGIN_RATE_RPS and LOGIN_RATE_BURST must be positive")
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Store.Driver == StoreMemory {
			return fmt.Errorf("STORE_DRIVER=memory is not allowed in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
