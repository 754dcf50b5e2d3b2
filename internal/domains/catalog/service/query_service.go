package service

import (
	"context"
	"fmt"

	"catalog-backend/internal/domains/catalog/auth"
	"catalog-backend/internal/domains/catalog/model"
	"catalog-backend/internal/domains/catalog/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type queryService struct {
	store repository.Store
}

// NewQueryService creates the read side resolver over store
func NewQueryService(store repository.Store) QueryService {
	return &queryService{store: store}
}

func (s *queryService) BookCount(ctx context.Context) (int, error) {
	return s.store.CountBooks(ctx)
}

func (s *queryService) AuthorCount(ctx context.Context) (int, error) {
	return s.store.CountAuthors(ctx)
}

func (s *queryService) AllBooks(ctx context.Context, filter model.BookFilter) ([]model.BookWithAuthor, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	authors, err := s.store.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]model.Author, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}

	result := make([]model.BookWithAuthor, 0, len(books))
	for _, b := range books {
		a, ok := byID[b.AuthorID]
		if !ok {
			// Broken reference: the store lost an author a book still points at.
			return nil, fmt.Errorf("book %s references missing author %s: %w", b.ID, b.AuthorID, model.ErrNotFound)
		}

		joined := model.BookWithAuthor{Book: b, Author: a}
		if filter.Matches(&joined) {
			result = append(result, joined)
		}
	}

	log.Debug().
		Int("total", len(books)).
		Int("matched", len(result)).
		Bool("by_author", filter.Author != nil).
		Bool("by_genre", filter.Genre != nil).
		Msg("allBooks resolved")

	return result, nil
}

func (s *queryService) AllAuthors(ctx context.Context) ([]model.AuthorWithBookCount, error) {
	authors, err := s.store.ListAuthors(ctx)
	if err != nil {
		return nil, err
	}
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	return withBookCounts(authors, books), nil
}

func (s *queryService) Me(ctx context.Context) *model.User {
	u, _ := auth.CurrentUser(ctx)
	return u
}
