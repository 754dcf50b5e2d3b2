package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the catalog operations on rg. The group is expected to
// run the authentication middleware already; loginGuards run before Login only.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup, loginGuards ...gin.HandlerFunc) {
	books := rg.Group("/books")
	{
		books.GET("", h.AllBooks)
		books.GET("/count", h.BookCount)
		books.POST("", h.AddBook)
	}

	authors := rg.Group("/authors")
	{
		authors.GET("", h.AllAuthors)
		authors.GET("/count", h.AuthorCount)
		authors.PUT("/born", h.EditAuthor)
	}

	rg.GET("/me", h.Me)
	rg.POST("/users", h.CreateUser)
	login := append(append([]gin.HandlerFunc{}, loginGuards...), h.Login)
	rg.POST("/login", login...)
}
