package main

import (
	"os"

	"catalog-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// ========================================
	// LOAD ENVIRONMENT VARIABLES
	// ========================================
	// .env is optional; production uses the process environment
	envFileErr := godotenv.Load()

	env := getEnv("APP_ENV", "development")
	logger.Init(env)

	if envFileErr != nil {
		log.Debug().Msg("No .env file found, using system environment variables")
	}

	// ========================================
	// SET GIN MODE
	// ========================================
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info().Str("environment", env).Msg("Starting catalog API")

	Serve()
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
