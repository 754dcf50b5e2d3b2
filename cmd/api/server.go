package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-backend/pkg/container"

	"github.com/rs/zerolog/log"
)

func Serve() {
	// ========================================
	// 1. BUILD DI CONTAINER
	// ========================================
	appContainer, err := container.NewContainer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize container")
	}
	defer appContainer.Cleanup()

	// ========================================
	// 2. SETUP ROUTER
	// ========================================
	router := SetupRouter(appContainer)

	// ========================================
	// 3. CONFIGURE HTTP SERVER
	// ========================================
	port := appContainer.Config.App.Port
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", port),
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// ========================================
	// 4. START SERVER (NON-BLOCKING)
	// ========================================
	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("health", fmt.Sprintf("http://localhost:%s/api/v1/health", port)).
			Msg("Server starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// ========================================
	// 5. GRACEFUL SHUTDOWN
	// ========================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down server")
	case err := <-serverErr:
		log.Error().Err(err).Msg("Server failed")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
