package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "STORE_DRIVER", "JWT_SECRET", "JWT_TTL", "LOGIN_SHARED_SECRET", "REDIS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "4000", cfg.App.Port)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, "secret", cfg.Login.SharedSecret)
	assert.Zero(t, cfg.JWT.TTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreBadger)
	t.Setenv("BADGER_PATH", "/tmp/catalog")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("LOGIN_RATE_RPS", "0.5")
	t.Setenv("LOGIN_RATE_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreBadger, cfg.Store.Driver)
	assert.Equal(t, "/tmp/catalog", cfg.Store.BadgerPath)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 0.5, cfg.Login.RateRPS)
	assert.Equal(t, 3, cfg.Login.RateBurst)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:   AppConfig{Environment: "development"},
			Store: StoreConfig{Driver: StoreMemory},
			JWT:   JWTConfig{Secret: defaultJWTSecret},
			Login: LoginConfig{SharedSecret: "secret", RateRPS: 1, RateBurst: 5},
		}
	}

	require.NoError(t, valid().Validate())

	tests := map[string]func(c *Config){
		"unknown driver":         func(c *Config) { c.Store.Driver = "mongo" },
		"empty jwt secret":       func(c *Config) { c.JWT.Secret = "" },
		"empty shared secret":    func(c *Config) { c.Login.SharedSecret = "" },
		"zero rate":              func(c *Config) { c.Login.RateRPS = 0 },
		"default secret in prod": func(c *Config) { c.App.Environment = "production"; c.Store.Driver = StorePostgres },
		"memory store in prod": func(c *Config) {
			c.App.Environment = "production"
			c.JWT.Secret = "real-secret"
		},
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_MAX_CONN_LIFETIME", "10m")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.MaxConnLifetime)
	assert.Equal(t, int32(25), cfg.MaxConns)

	t.Setenv("DB_RETRY_DELAY", "soon")
	_, err = LoadDatabaseConfig()
	assert.Error(t, err)

	t.Setenv("DB_RETRY_DELAY", "")
	t.Setenv("DB_PORT", "not-a-port")
	_, err = LoadDatabaseConfig()
	assert.Error(t, err)
}
