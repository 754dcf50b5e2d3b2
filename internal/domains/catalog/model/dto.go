package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// AddBookInput - POST /v1/books
type AddBookInput struct {
	Title     string   `json:"title" binding:"required"`
	Author    string   `json:"author" binding:"required"`
	Published *int     `json:"published" binding:"required"`
	Genres    []string `json:"genres" binding:"required"`
}

func (in AddBookInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.Author, validation.Required, validation.Length(1, MaxNameLength)),
		validation.Field(&in.Published, validation.NotNil),
		validation.Field(&in.Genres, validation.Required, validation.Each(validation.Required)),
	)
}

// EditAuthorInput - PUT /v1/authors/born
type EditAuthorInput struct {
	Name      string `json:"name" binding:"required"`
	SetBornTo *int   `json:"setBornTo" binding:"required"`
}

func (in EditAuthorInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.SetBornTo, validation.NotNil),
	)
}

// CreateUserInput - POST /v1/users
type CreateUserInput struct {
	Username      string `json:"username" binding:"required"`
	FavoriteGenre string `json:"favoriteGenre" binding:"required"`
}

// LoginInput - POST /v1/login
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthorResponse is the wire shape of an author. BookCount is only set by allAuthors.
type AuthorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Born      *int      `json:"born"`
	BookCount *int      `json:"bookCount,omitempty"`
}

// BookResponse is the wire shape of a book joined with its author
type BookResponse struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Author    AuthorResponse `json:"author"`
	Published int            `json:"published"`
	Genres    []string       `json:"genres"`
}

// UserResponse is the wire shape of a user
type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	FavoriteGenre string    `json:"favoriteGenre"`
}

// CountResponse wraps bookCount / authorCount
type CountResponse struct {
	Count int `json:"count"`
}

// ToResponse converts Author to AuthorResponse
func (a *Author) ToResponse() AuthorResponse {
	return AuthorResponse{ID: a.ID, Name: a.Name, Born: a.Born}
}

// ToResponse converts AuthorWithBookCount to AuthorResponse including the count
func (a *AuthorWithBookCount) ToResponse() AuthorResponse {
	resp := a.Author.ToResponse()
	count := a.BookCount
	resp.BookCount = &count
	return resp
}

// ToResponse converts BookWithAuthor to BookResponse
func (b *BookWithAuthor) ToResponse() BookResponse {
	genres := b.Genres
	if genres == nil {
		genres = []string{}
	}
	return BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author.ToResponse(),
		Published: b.Published,
		Genres:    genres,
	}
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, FavoriteGenre: u.FavoriteGenre}
}
