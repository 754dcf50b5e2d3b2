package handler

import (
	"errors"
	"net/http"

	"catalog-backend/internal/domains/catalog/auth"
	"catalog-backend/internal/domains/catalog/model"
	"catalog-backend/internal/domains/catalog/service"
	"catalog-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type CatalogHandler struct {
	queries   service.QueryService
	mutations service.MutationService
}

func NewCatalogHandler(queries service.QueryService, mutations service.MutationService) *CatalogHandler {
	return &CatalogHandler{
		queries:   queries,
		mutations: mutations,
	}
}

// ════════════════════════════════════════════════════════════════
// QUERIES
// ════════════════════════════════════════════════════════════════

// BookCount - GET /v1/books/count
func (h *CatalogHandler) BookCount(c *gin.Context) {
	n, err := h.queries.BookCount(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.CountResponse{Count: n})
}

// AuthorCount - GET /v1/authors/count
func (h *CatalogHandler) AuthorCount(c *gin.Context) {
	n, err := h.queries.AuthorCount(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, model.CountResponse{Count: n})
}

// AllBooks - GET /v1/books?author=&genre=
// An empty parameter is treated as absent.
func (h *CatalogHandler) AllBooks(c *gin.Context) {
	var filter model.BookFilter
	if author := c.Query("author"); author != "" {
		filter.Author = &author
	}
	if genre := c.Query("genre"); genre != "" {
		filter.Genre = &genre
	}

	books, err := h.queries.AllBooks(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	res := make([]model.BookResponse, len(books))
	for i := range books {
		res[i] = books[i].ToResponse()
	}
	response.Success(c, http.StatusOK, res)
}

// AllAuthors - GET /v1/authors
func (h *CatalogHandler) AllAuthors(c *gin.Context) {
	authors, err := h.queries.AllAuthors(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	res := make([]model.AuthorResponse, len(authors))
	for i := range authors {
		res[i] = authors[i].ToResponse()
	}
	response.Success(c, http.StatusOK, res)
}

// Me - GET /v1/me. Anonymous requests get null data.
func (h *CatalogHandler) Me(c *gin.Context) {
	u := h.queries.Me(c.Request.Context())
	if u == nil {
		response.Success(c, http.StatusOK, nil)
		return
	}
	response.Success(c, http.StatusOK, u.ToResponse())
}

// ════════════════════════════════════════════════════════════════
// MUTATIONS
// ════════════════════════════════════════════════════════════════

// AddBook - POST /v1/books. Authentication is checked before the body.
func (h *CatalogHandler) AddBook(c *gin.Context) {
	if _, err := auth.RequireUser(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}

	var req model.AddBookInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, model.NewValidationError("Saving book failed", req.Title, err))
		return
	}

	book, err := h.mutations.AddBook(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, book.ToResponse())
}

// EditAuthor - PUT /v1/authors/born. Unknown author gives null data.
func (h *CatalogHandler) EditAuthor(c *gin.Context) {
	if _, err := auth.RequireUser(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}

	var req model.EditAuthorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, model.NewValidationError("Updating author failed", req.SetBornTo, err))
		return
	}

	author, err := h.mutations.EditAuthor(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	if author == nil {
		response.Success(c, http.StatusOK, nil)
		return
	}
	response.Success(c, http.StatusOK, author.ToResponse())
}

// CreateUser - POST /v1/users
func (h *CatalogHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, model.NewValidationError("Creating user failed", req.Username, err))
		return
	}

	u, err := h.mutations.CreateUser(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u.ToResponse())
}

// Login - POST /v1/login
func (h *CatalogHandler) Login(c *gin.Context) {
	var req model.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, model.NewValidationError("Invalid login request", req.Username, err))
		return
	}

	token, err := h.mutations.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, token)
}

// writeError maps domain errors onto the response envelope
func writeError(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	code := model.ToErrorCode(err)
	message := model.ToMessage(err)

	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		details := gin.H{"invalidArgs": vErr.InvalidArgs}
		if vErr.Err != nil {
			details["reason"] = vErr.Err.Error()
		}
		response.ErrorWithDetails(c, status, code, message, details)
		return
	}

	if status == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
	}
	response.ErrorResponse(c, status, code, message)
}
