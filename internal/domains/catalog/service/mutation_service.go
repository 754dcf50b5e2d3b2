package service

import (
	"context"
	"errors"
	"fmt"

	"catalog-backend/internal/domains/catalog/auth"
	"catalog-backend/internal/domains/catalog/model"
	"catalog-backend/internal/domains/catalog/repository"

	"github.com/rs/zerolog/log"
)

type mutationService struct {
	store       repository.Store
	tokens      TokenIssuer
	credentials auth.CredentialChecker
}

// NewMutationService creates the write side resolver
func NewMutationService(store repository.Store, tokens TokenIssuer, credentials auth.CredentialChecker) MutationService {
	return &mutationService{
		store:       store,
		tokens:      tokens,
		credentials: credentials,
	}
}

func (s *mutationService) AddBook(ctx context.Context, in model.AddBookInput) (*model.BookWithAuthor, error) {
	current, err := auth.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, model.NewValidationError("Saving book failed", in.Title, err)
	}

	// The author must be persisted before the book that references it.
	author, created, err := s.store.FindOrCreateAuthor(ctx, in.Author)
	if err != nil {
		return nil, model.NewValidationError("Saving author failed", in.Author, err)
	}
	if created {
		log.Info().
			Str("author_id", author.ID.String()).
			Str("author", author.Name).
			Msg("author created for new book")
	}

	book := model.Book{
		Title:     in.Title,
		Published: *in.Published,
		Genres:    append([]string(nil), in.Genres...),
		AuthorID:  author.ID,
	}
	if err := s.store.CreateBook(ctx, &book); err != nil {
		return nil, model.NewValidationError("Saving book failed", in.Title, err)
	}

	log.Info().
		Str("book_id", book.ID.String()).
		Str("author_id", author.ID.String()).
		Str("user", current.Username).
		Msg("book added")

	return &model.BookWithAuthor{Book: book, Author: *author}, nil
}

func (s *mutationService) EditAuthor(ctx context.Context, in model.EditAuthorInput) (*model.Author, error) {
	if _, err := auth.RequireUser(ctx); err != nil {
		return nil, err
	}

	if err := in.Validate(); err != nil {
		return nil, model.NewValidationError("Updating author failed", in.SetBornTo, err)
	}

	author, err := s.store.FindAuthorByName(ctx, in.Name)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find author %q: %w", in.Name, err)
	}

	born := *in.SetBornTo
	author.Born = &born
	if err := s.store.UpdateAuthor(ctx, author); err != nil {
		return nil, model.NewValidationError("Updating author failed", born, err)
	}

	return author, nil
}

func (s *mutationService) CreateUser(ctx context.Context, in model.CreateUserInput) (*model.User, error) {
	u := model.User{
		Username:      in.Username,
		FavoriteGenre: in.FavoriteGenre,
	}
	if err := s.store.CreateUser(ctx, &u); err != nil {
		return nil, model.NewValidationError("Creating user failed", in.Username, err)
	}

	log.Info().Str("user_id", u.ID.String()).Str("username", u.Username).Msg("user created")
	return &u, nil
}

func (s *mutationService) Login(ctx context.Context, in model.LoginInput) (*model.Token, error) {
	u, err := s.store.FindUserByUsername(ctx, in.Username)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err != nil {
		u = nil
	}

	if !s.credentials.Check(u, in.Password) {
		return nil, model.ErrInvalidCredentials
	}

	value, err := s.tokens.Issue(u.Username, u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &model.Token{Value: value}, nil
}
