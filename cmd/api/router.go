package main

import (
	"context"
	"net/http"
	"time"

	"catalog-backend/internal/shared/middleware"
	"catalog-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ClientIPMiddleware(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		catalog := v1.Group("")
		catalog.Use(middleware.AuthMiddleware(c.Gate))
		c.CatalogHandler.RegisterRoutes(catalog, middleware.RateLimit(c.LoginLimiter))
	}

	return router
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()

		checks := c.HealthCheck(checkCtx)

		// The cache is optional; only the store decides availability
		status := http.StatusOK
		if checks["store"] != "ok" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"status":  http.StatusText(status),
			"service": c.Config.App.Name,
			"version": c.Config.App.Version,
			"checks":  checks,
		})
	}
}
