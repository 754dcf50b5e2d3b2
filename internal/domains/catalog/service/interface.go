package service

import (
	"context"

	"catalog-backend/internal/domains/catalog/model"
)

// QueryService answers read queries. None of its operations require a current user.
type QueryService interface {
	BookCount(ctx context.Context) (int, error)
	AuthorCount(ctx context.Context) (int, error)

	// AllBooks returns every book joined with its author, narrowed by filter.
	// Author and genre conditions are exact matches combined with AND.
	AllBooks(ctx context.Context, filter model.BookFilter) ([]model.BookWithAuthor, error)

	// AllAuthors returns every author annotated with a freshly computed bookCount
	AllAuthors(ctx context.Context) ([]model.AuthorWithBookCount, error)

	// Me returns the current user, or nil for an anonymous request
	Me(ctx context.Context) *model.User
}

// MutationService performs writes.
//
// AddBook and EditAuthor require a current user and fail with
// model.ErrAuthenticationRequired otherwise. Persistence failures surface as
// *model.ValidationError carrying the offending input.
type MutationService interface {
	// AddBook finds or creates the named author, then stores the book.
	// The author is kept even when the book save fails.
	AddBook(ctx context.Context, in model.AddBookInput) (*model.BookWithAuthor, error)

	// EditAuthor sets the born year. An unknown name yields (nil, nil).
	EditAuthor(ctx context.Context, in model.EditAuthorInput) (*model.Author, error)

	CreateUser(ctx context.Context, in model.CreateUserInput) (*model.User, error)

	// Login returns a signed token. Unknown username and wrong password both
	// fail with model.ErrInvalidCredentials.
	Login(ctx context.Context, in model.LoginInput) (*model.Token, error)
}

// TokenIssuer signs session tokens
type TokenIssuer interface {
	Issue(username, userID string) (string, error)
}
