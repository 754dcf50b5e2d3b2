package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-backend/internal/domains/catalog/auth"
	"catalog-backend/internal/domains/catalog/repository"
	"catalog-backend/internal/domains/catalog/service"
	"catalog-backend/internal/shared/middleware"
	"catalog-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

func setupRouter(t *testing.T, loginGuards ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	tokens := jwt.NewManager("handler-test-secret", 0)
	checker, err := auth.NewSharedSecretChecker("secret")
	require.NoError(t, err)

	h := NewCatalogHandler(
		service.NewQueryService(store),
		service.NewMutationService(store, tokens, checker),
	)
	gate := auth.NewGate(tokens, repository.NewCachedUserLookup(store, nil, 0))

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(gate))
	h.RegisterRoutes(v1, loginGuards...)
	return r
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func loginAs(t *testing.T, r http.Handler, username string) string {
	t.Helper()

	w, _ := do(t, r, http.MethodPost, "/api/v1/users", "", gin.H{"username": username, "favoriteGenre": "refactoring"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := do(t, r, http.MethodPost, "/api/v1/login", "", gin.H{"username": username, "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var token struct {
		Value string `json:"value"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &token))
	require.NotEmpty(t, token.Value)
	return token.Value
}

func TestCatalogFlow(t *testing.T) {
	r := setupRouter(t)
	token := loginAs(t, r, "ada")

	w, env := do(t, r, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `"ada"`, string(mustField(t, env.Data, "username")))

	w, env = do(t, r, http.MethodPost, "/api/v1/books", token, gin.H{
		"title": "Clean Code", "author": "Martin", "published": 2008, "genres": []string{"craft"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	author := mustField(t, env.Data, "author")
	assert.JSONEq(t, `"Martin"`, string(mustField(t, author, "name")))
	assert.JSONEq(t, `null`, string(mustField(t, author, "born")))

	w, env = do(t, r, http.MethodGet, "/api/v1/books?author=Martin", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var books []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Clean Code", books[0]["title"])

	w, env = do(t, r, http.MethodGet, "/api/v1/books?author=&genre=", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &books))
	assert.Len(t, books, 1, "empty parameters do not filter")

	w, env = do(t, r, http.MethodGet, "/api/v1/authors", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":`+string(mustField(t, author, "id"))+`,"name":"Martin","born":null,"bookCount":1}]`, string(env.Data))

	w, env = do(t, r, http.MethodPut, "/api/v1/authors/born", token, gin.H{"name": "Martin", "setBornTo": 1952})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `1952`, string(mustField(t, env.Data, "born")))

	w, env = do(t, r, http.MethodPut, "/api/v1/authors/born", token, gin.H{"name": "Nobody", "setBornTo": 1952})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `null`, string(env.Data))

	w, env = do(t, r, http.MethodGet, "/api/v1/books/count", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, string(env.Data))

	w, env = do(t, r, http.MethodGet, "/api/v1/authors/count", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, string(env.Data))
}

func TestAnonymousRequests(t *testing.T) {
	r := setupRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/v1/me", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `null`, string(env.Data))

	w, env = do(t, r, http.MethodPost, "/api/v1/books", "", gin.H{
		"title": "Clean Code", "author": "Martin", "published": 2008, "genres": []string{"craft"},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", env.Error.Code)

	w, env = do(t, r, http.MethodPut, "/api/v1/authors/born", "", gin.H{"name": "Martin", "setBornTo": 1952})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", env.Error.Code)

	w, env = do(t, r, http.MethodGet, "/api/v1/books", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestInvalidToken(t *testing.T) {
	r := setupRouter(t)

	w, env := do(t, r, http.MethodGet, "/api/v1/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "TOKEN_INVALID", env.Error.Code)
}

func TestLoginFailures(t *testing.T) {
	r := setupRouter(t)
	loginAs(t, r, "ada")

	w, wrongPassword := do(t, r, http.MethodPost, "/api/v1/login", "", gin.H{"username": "ada", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, unknownUser := do(t, r, http.MethodPost, "/api/v1/login", "", gin.H{"username": "nobody", "password": "secret"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.Equal(t, "INVALID_CREDENTIALS", wrongPassword.Error.Code)
	assert.Equal(t, wrongPassword.Error, unknownUser.Error)
}

func TestCreateUserDuplicate(t *testing.T) {
	r := setupRouter(t)
	loginAs(t, r, "ada")

	w, env := do(t, r, http.MethodPost, "/api/v1/users", "", gin.H{"username": "ada", "favoriteGenre": "poetry"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, "Creating user failed", env.Error.Message)
	assert.Equal(t, "ada", env.Error.Details["invalidArgs"])
}

func TestInvalidBody(t *testing.T) {
	r := setupRouter(t)
	token := loginAs(t, r, "ada")

	w, env := do(t, r, http.MethodPost, "/api/v1/books", token, gin.H{"title": "Missing fields"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Equal(t, "Missing fields", env.Error.Details["invalidArgs"])

	w, env = do(t, r, http.MethodPost, "/api/v1/login", "", gin.H{"username": "ada"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestAnonymousPartialBody(t *testing.T) {
	r := setupRouter(t)

	w, env := do(t, r, http.MethodPost, "/api/v1/books", "", gin.H{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", env.Error.Code)

	w, env = do(t, r, http.MethodPut, "/api/v1/authors/born", "", gin.H{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", env.Error.Code)

	w, env = do(t, r, http.MethodGet, "/api/v1/books/count", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0}`, string(env.Data))
}

func TestZeroYears(t *testing.T) {
	r := setupRouter(t)
	token := loginAs(t, r, "ada")

	w, env := do(t, r, http.MethodPost, "/api/v1/books", token, gin.H{
		"title": "Epic of Gilgamesh", "author": "Unknown", "published": 0, "genres": []string{"epic"},
	})
	require.Equal(t, http.StatusCreated, w.Code, string(env.Data))
	assert.JSONEq(t, `0`, string(mustField(t, env.Data, "published")))

	w, env = do(t, r, http.MethodPut, "/api/v1/authors/born", token, gin.H{"name": "Unknown", "setBornTo": 0})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `0`, string(mustField(t, env.Data, "born")))

	w, env = do(t, r, http.MethodPut, "/api/v1/authors/born", token, gin.H{"name": "Unknown"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestLoginGuards(t *testing.T) {
	guard := middleware.RateLimit(denyAll{})
	r := setupRouter(t, guard)

	w, env := do(t, r, http.MethodPost, "/api/v1/login", "", gin.H{"username": "ada", "password": "secret"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "TOO_MANY_REQUESTS", env.Error.Code)

	// Other routes are not guarded
	w, _ = do(t, r, http.MethodGet, "/api/v1/books/count", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func mustField(t *testing.T, raw json.RawMessage, name string) json.RawMessage {
	t.Helper()
	var obj map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &obj), string(raw))
	v, ok := obj[name]
	require.True(t, ok, "missing field %q in %s", name, raw)
	return v
}

func TestRegisterRoutes_DoesNotWriteIntoGuards(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(nil, nil)

	guards := make([]gin.HandlerFunc, 1, 4)
	guards[0] = func(c *gin.Context) { c.Next() }

	h.RegisterRoutes(gin.New().Group("/api/v1"), guards...)

	assert.Nil(t, guards[:2][1], "spare capacity of the caller's slice must stay untouched")
}
