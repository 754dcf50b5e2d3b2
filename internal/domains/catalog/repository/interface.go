package repository

import (
	"context"

	"catalog-backend/internal/domains/catalog/model"

	"github.com/google/uuid"
)

// BookRepository is the data access contract for books
type BookRepository interface {
	// CountBooks returns the total number of stored books
	CountBooks(ctx context.Context) (int, error)

	// ListBooks returns every stored book in insertion order
	ListBooks(ctx context.Context) ([]model.Book, error)

	// CreateBook assigns an ID when missing and persists the book.
	// The referenced author must already exist.
	CreateBook(ctx context.Context, b *model.Book) error
}

// AuthorRepository is the data access contract for authors
type AuthorRepository interface {
	CountAuthors(ctx context.Context) (int, error)
	ListAuthors(ctx context.Context) ([]model.Author, error)

	// FindAuthorByName does an exact, case-sensitive lookup.
	// Returns model.ErrNotFound if not exists
	FindAuthorByName(ctx context.Context, name string) (*model.Author, error)

	// FindOrCreateAuthor returns the author named name, creating it with born=nil
	// when absent. The check and the insert are atomic: concurrent callers with
	// the same name observe a single author. created reports whether this call
	// inserted the record.
	FindOrCreateAuthor(ctx context.Context, name string) (a *model.Author, created bool, err error)

	// UpdateAuthor overwrites the stored author with the same ID.
	// Returns model.ErrNotFound if not exists
	UpdateAuthor(ctx context.Context, a *model.Author) error
}

// UserRepository is the data access contract for users
type UserRepository interface {
	// CreateUser assigns an ID when missing and persists the user.
	// Returns model.ErrDuplicateUsername when the username is taken
	CreateUser(ctx context.Context, u *model.User) error

	// GetUserByID returns model.ErrNotFound if not exists
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// FindUserByUsername returns model.ErrNotFound if not exists
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
}

// Store is the Entity Store consumed by the resolver layer. Implementations
// guarantee single-record atomicity only.
type Store interface {
	BookRepository
	AuthorRepository
	UserRepository

	// Ping checks the backend is reachable
	Ping(ctx context.Context) error
	Close() error
}
