package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-backend/internal/config"
	"catalog-backend/pkg/container"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, err := container.NewContainerWithConfig(&config.Config{
		App:   config.AppConfig{Name: "catalog-test", Version: "test"},
		Store: config.StoreConfig{Driver: config.StoreMemory},
		JWT:   config.JWTConfig{Secret: "router-test"},
		Login: config.LoginConfig{SharedSecret: "secret", RateRPS: 1, RateBurst: 1},
	})
	require.NoError(t, err)
	defer c.Cleanup()

	r := SetupRouter(c)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	login := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(`{"username":"nobody","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Real-IP", "198.51.100.4")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusUnauthorized, login())
	assert.Equal(t, http.StatusTooManyRequests, login())
}
