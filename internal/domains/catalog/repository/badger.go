package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"catalog-backend/internal/domains/catalog/model"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Key layout. Records live under "<kind>:rec:<id>", secondary indexes under
// "<kind>:idx:<index>:<value>" and hold the record id.
const (
	bookRecPrefix      = "book:rec:"
	authorRecPrefix    = "author:rec:"
	authorNameIdx      = "author:idx:name:"
	userRecPrefix      = "user:rec:"
	userUsernameIdx    = "user:idx:username:"
	maxConflictRetries = 5
)

// badgerStore implements Store on an embedded Badger database.
// IDs are UUIDv7 so iterating a record prefix yields creation order.
type badgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database at path.
// An empty path opens an in-memory database.
func NewBadgerStore(path string) (Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.SyncWrites = true
		opts.CompactL0OnClose = true
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	log.Info().Str("path", path).Bool("in_memory", path == "").Msg("Badger store opened")
	return &badgerStore{db: db}, nil
}

func (s *badgerStore) CountBooks(ctx context.Context) (int, error) {
	return s.count(bookRecPrefix)
}

func (s *badgerStore) ListBooks(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, bookRecPrefix, func(val []byte) error {
			var b model.Book
			if err := json.Unmarshal(val, &b); err != nil {
				return err
			}
			books = append(books, b)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

func (s *badgerStore) CreateBook(ctx context.Context, b *model.Book) error {
	if err := b.Validate(); err != nil {
		return err
	}

	id := b.ID
	if id == uuid.Nil {
		var err error
		if id, err = uuid.NewV7(); err != nil {
			return fmt.Errorf("failed to generate book id: %w", err)
		}
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(authorRecPrefix + b.AuthorID.String())); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("book author %s: %w", b.AuthorID, model.ErrNotFound)
			}
			return err
		}
		stored := *b
		stored.ID = id
		return setJSON(txn, bookRecPrefix+id.String(), stored)
	})
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	b.ID = id
	return nil
}

func (s *badgerStore) CountAuthors(ctx context.Context) (int, error) {
	return s.count(authorRecPrefix)
}

func (s *badgerStore) ListAuthors(ctx context.Context) ([]model.Author, error) {
	var authors []model.Author
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, authorRecPrefix, func(val []byte) error {
			var a model.Author
			if err := json.Unmarshal(val, &a); err != nil {
				return err
			}
			authors = append(authors, a)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	return authors, nil
}

func (s *badgerStore) FindAuthorByName(ctx context.Context, name string) (*model.Author, error) {
	var a model.Author
	err := s.db.View(func(txn *badger.Txn) error {
		return getByIndex(txn, authorNameIdx+name, authorRecPrefix, &a)
	})
	if err != nil {
		return nil, translateBadgerErr(err, "failed to find author by name")
	}
	return &a, nil
}

func (s *badgerStore) FindOrCreateAuthor(ctx context.Context, name string) (*model.Author, bool, error) {
	candidate := model.Author{Name: name}
	if err := candidate.Validate(); err != nil {
		return nil, false, err
	}

	for attempt := 1; ; attempt++ {
		var (
			result  model.Author
			created bool
		)

		err := s.db.Update(func(txn *badger.Txn) error {
			err := getByIndex(txn, authorNameIdx+name, authorRecPrefix, &result)
			if err == nil {
				return nil
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}

			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			result = model.Author{ID: id, Name: name}
			if err := setJSON(txn, authorRecPrefix+id.String(), result); err != nil {
				return err
			}
			created = true
			return txn.Set([]byte(authorNameIdx+name), []byte(id.String()))
		})

		// Another transaction wrote the name index between our read and commit.
		if errors.Is(err, badger.ErrConflict) && attempt < maxConflictRetries {
			log.Debug().Str("author", name).Int("attempt", attempt).Msg("find-or-create author conflict, retrying")
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to find or create author: %w", err)
		}
		return &result, created, nil
	}
}

func (s *badgerStore) UpdateAuthor(ctx context.Context, a *model.Author) error {
	if err := a.Validate(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		var current model.Author
		if err := getJSON(txn, authorRecPrefix+a.ID.String(), &current); err != nil {
			return err
		}

		if current.Name != a.Name {
			if _, err := txn.Get([]byte(authorNameIdx + a.Name)); err == nil {
				return model.ErrDuplicateAuthor
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Delete([]byte(authorNameIdx + current.Name)); err != nil {
				return err
			}
			if err := txn.Set([]byte(authorNameIdx+a.Name), []byte(a.ID.String())); err != nil {
				return err
			}
		}
		return setJSON(txn, authorRecPrefix+a.ID.String(), a)
	})
	if err != nil {
		return translateBadgerErr(err, "failed to update author")
	}
	return nil
}

func (s *badgerStore) CreateUser(ctx context.Context, u *model.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	id := u.ID
	if id == uuid.Nil {
		var err error
		if id, err = uuid.NewV7(); err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(userUsernameIdx + u.Username)); err == nil {
			return model.ErrDuplicateUsername
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		stored := *u
		stored.ID = id
		if err := setJSON(txn, userRecPrefix+id.String(), stored); err != nil {
			return err
		}
		return txn.Set([]byte(userUsernameIdx+u.Username), []byte(id.String()))
	})
	if errors.Is(err, badger.ErrConflict) {
		return model.ErrDuplicateUsername
	}
	if err != nil {
		return translateBadgerErr(err, "failed to create user")
	}

	u.ID = id
	return nil
}

func (s *badgerStore) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, userRecPrefix+id.String(), &u)
	})
	if err != nil {
		return nil, translateBadgerErr(err, "failed to get user by id")
	}
	return &u, nil
}

func (s *badgerStore) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := s.db.View(func(txn *badger.Txn) error {
		return getByIndex(txn, userUsernameIdx+username, userRecPrefix, &u)
	})
	if err != nil {
		return nil, translateBadgerErr(err, "failed to find user by username")
	}
	return &u, nil
}

func (s *badgerStore) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return nil
}

func (s *badgerStore) Close() error {
	log.Info().Msg("Closing badger store")
	return s.db.Close()
}

func (s *badgerStore) count(prefix string) (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count %q: %w", prefix, err)
	}
	return n, nil
}

func scanPrefix(txn *badger.Txn, prefix string, fn func(val []byte) error) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

func getJSON(txn *badger.Txn, key string, dest any) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

func setJSON(txn *badger.Txn, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return txn.Set([]byte(key), data)
}

// getByIndex resolves an index key to its record id and loads the record
func getByIndex(txn *badger.Txn, indexKey, recPrefix string, dest any) error {
	item, err := txn.Get([]byte(indexKey))
	if err != nil {
		return err
	}
	id, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	return getJSON(txn, recPrefix+string(id), dest)
}

func translateBadgerErr(err error, msg string) error {
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return model.ErrNotFound
	case errors.Is(err, model.ErrDuplicateAuthor), errors.Is(err, model.ErrDuplicateUsername):
		return err
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
