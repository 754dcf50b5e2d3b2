package repository

import (
	"context"
	"fmt"
	"sync"

	"catalog-backend/internal/domains/catalog/model"

	"github.com/google/uuid"
)

// memoryStore keeps every record in process memory.
// Slices preserve insertion order; the name indexes back the exact-match lookups.
type memoryStore struct {
	mu sync.RWMutex

	books   []model.Book
	authors []model.Author
	users   []model.User

	authorByName   map[string]int
	userByUsername map[string]int
}

// NewMemoryStore creates an empty in-memory Store
func NewMemoryStore() Store {
	return &memoryStore{
		authorByName:   make(map[string]int),
		userByUsername: make(map[string]int),
	}
}

func (s *memoryStore) CountBooks(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books), nil
}

func (s *memoryStore) ListBooks(ctx context.Context) ([]model.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]model.Book, len(s.books))
	for i, b := range s.books {
		books[i] = copyBook(b)
	}
	return books, nil
}

func (s *memoryStore) CreateBook(ctx context.Context, b *model.Book) error {
	if err := b.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.authorIndex(b.AuthorID) < 0 {
		return fmt.Errorf("book author %s: %w", b.AuthorID, model.ErrNotFound)
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	s.books = append(s.books, copyBook(*b))
	return nil
}

func (s *memoryStore) CountAuthors(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.authors), nil
}

func (s *memoryStore) ListAuthors(ctx context.Context) ([]model.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	authors := make([]model.Author, len(s.authors))
	for i, a := range s.authors {
		authors[i] = copyAuthor(a)
	}
	return authors, nil
}

func (s *memoryStore) FindAuthorByName(ctx context.Context, name string) (*model.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.authorByName[name]
	if !ok {
		return nil, model.ErrNotFound
	}
	a := copyAuthor(s.authors[i])
	return &a, nil
}

func (s *memoryStore) FindOrCreateAuthor(ctx context.Context, name string) (*model.Author, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.authorByName[name]; ok {
		a := copyAuthor(s.authors[i])
		return &a, false, nil
	}

	a := model.Author{ID: uuid.New(), Name: name}
	if err := a.Validate(); err != nil {
		return nil, false, err
	}
	s.authors = append(s.authors, a)
	s.authorByName[name] = len(s.authors) - 1
	return &a, true, nil
}

func (s *memoryStore) UpdateAuthor(ctx context.Context, a *model.Author) error {
	if err := a.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.authorIndex(a.ID)
	if i < 0 {
		return model.ErrNotFound
	}
	if other, ok := s.authorByName[a.Name]; ok && other != i {
		return model.ErrDuplicateAuthor
	}

	delete(s.authorByName, s.authors[i].Name)
	s.authors[i] = copyAuthor(*a)
	s.authorByName[a.Name] = i
	return nil
}

func (s *memoryStore) CreateUser(ctx context.Context, u *model.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userByUsername[u.Username]; ok {
		return model.ErrDuplicateUsername
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.users = append(s.users, *u)
	s.userByUsername[u.Username] = len(s.users) - 1
	return nil
}

func (s *memoryStore) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *memoryStore) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.userByUsername[username]
	if !ok {
		return nil, model.ErrNotFound
	}
	u := s.users[i]
	return &u, nil
}

func (s *memoryStore) Ping(ctx context.Context) error { return nil }

func (s *memoryStore) Close() error { return nil }

// authorIndex must be called with mu held
func (s *memoryStore) authorIndex(id uuid.UUID) int {
	for i := range s.authors {
		if s.authors[i].ID == id {
			return i
		}
	}
	return -1
}

func copyBook(b model.Book) model.Book {
	b.Genres = append([]string(nil), b.Genres...)
	return b
}

func copyAuthor(a model.Author) model.Author {
	if a.Born != nil {
		born := *a.Born
		a.Born = &born
	}
	return a
}
