package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-backend/internal/domains/catalog/auth"
	"catalog-backend/internal/domains/catalog/model"
	"catalog-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGate struct {
	user *model.User
	err  error
}

func (g stubGate) Authenticate(ctx context.Context, header string) (context.Context, error) {
	if g.err != nil {
		return ctx, g.err
	}
	if header == "" {
		return ctx, nil
	}
	return auth.WithCurrentUser(ctx, g.user), nil
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/whoami", func(c *gin.Context) {
		if u, ok := auth.CurrentUser(c.Request.Context()); ok {
			c.String(http.StatusOK, u.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func get(r http.Handler, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		r := newEngine(AuthMiddleware(stubGate{}))
		w := get(r, "/whoami", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "anonymous", w.Body.String())
	})

	t.Run("authenticated", func(t *testing.T) {
		r := newEngine(AuthMiddleware(stubGate{user: &model.User{Username: "ada"}}))
		w := get(r, "/whoami", map[string]string{"Authorization": "Bearer x"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ada", w.Body.String())
	})

	t.Run("invalid token", func(t *testing.T) {
		r := newEngine(AuthMiddleware(stubGate{err: fmt.Errorf("%w: bad signature", model.ErrTokenInvalid)}))
		w := get(r, "/whoami", map[string]string{"Authorization": "Bearer x"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_INVALID")
	})

	t.Run("lookup failure", func(t *testing.T) {
		r := newEngine(AuthMiddleware(stubGate{err: errors.New("db down")}))
		w := get(r, "/whoami", map[string]string{"Authorization": "Bearer x"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "db down")
	})
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.New(0.001, 2, 0)
	defer limiter.Stop()

	r := newEngine(ClientIPMiddleware(), RateLimit(limiter))

	header := map[string]string{"X-Real-IP": "203.0.113.7"}
	assert.Equal(t, http.StatusOK, get(r, "/whoami", header).Code)
	assert.Equal(t, http.StatusOK, get(r, "/whoami", header).Code)

	w := get(r, "/whoami", header)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")

	other := map[string]string{"X-Real-IP": "203.0.113.8"}
	assert.Equal(t, http.StatusOK, get(r, "/whoami", other).Code)
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := get(r, "/whoami", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(r, "/whoami", map[string]string{"X-Request-ID": "req-123"})
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestRecovery(t *testing.T) {
	r := newEngine(Recovery(), RequestID(), Logger())

	w := get(r, "/panic", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}
