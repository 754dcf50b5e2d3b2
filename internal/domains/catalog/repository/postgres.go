package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-backend/internal/domains/catalog/model"
	"catalog-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// schema is applied by EnsureSchema. The unique index on authors.name is what
// makes FindOrCreateAuthor atomic.
const schema = `
CREATE TABLE IF NOT EXISTS authors (
    id         UUID PRIMARY KEY,
    name       TEXT NOT NULL,
    born       INTEGER,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS authors_name_key ON authors (name);

CREATE TABLE IF NOT EXISTS books (
    id         UUID PRIMARY KEY,
    title      TEXT NOT NULL,
    published  INTEGER NOT NULL,
    genres     TEXT[] NOT NULL,
    author_id  UUID NOT NULL REFERENCES authors (id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS books_author_id_idx ON books (author_id);

CREATE TABLE IF NOT EXISTS users (
    id             UUID PRIMARY KEY,
    username       TEXT NOT NULL,
    favorite_genre TEXT NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS users_username_key ON users (username);
`

// postgresStore implements Store on a pgx connection pool
type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Store backed by pool. The pool lifecycle is owned
// by the caller; Close is a no-op.
func NewPostgresStore(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

// EnsureSchema creates the catalog tables when they do not exist
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (r *postgresStore) CountBooks(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return n, nil
}

func (r *postgresStore) ListBooks(ctx context.Context) ([]model.Book, error) {
	query := `
        SELECT id, title, published, genres, author_id
        FROM books
        ORDER BY created_at, id
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Published, &b.Genres, &b.AuthorID); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}
	return books, nil
}

func (r *postgresStore) CreateBook(ctx context.Context, b *model.Book) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if b.ID == uuid.Nil {
		b.ID = uuid.Must(uuid.NewV7())
	}

	query := `
        INSERT INTO books (id, title, published, genres, author_id)
        VALUES ($1, $2, $3, $4, $5)
    `
	if _, err := r.pool.Exec(ctx, query, b.ID, b.Title, b.Published, b.Genres, b.AuthorID); err != nil {
		return translatePgErr(err, "failed to create book")
	}
	return nil
}

func (r *postgresStore) CountAuthors(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count authors: %w", err)
	}
	return n, nil
}

func (r *postgresStore) ListAuthors(ctx context.Context) ([]model.Author, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, born FROM authors ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	var authors []model.Author
	for rows.Next() {
		var a model.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Born); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating authors: %w", err)
	}
	return authors, nil
}

func (r *postgresStore) FindAuthorByName(ctx context.Context, name string) (*model.Author, error) {
	var a model.Author
	err := r.pool.QueryRow(ctx, `SELECT id, name, born FROM authors WHERE name = $1`, name).
		Scan(&a.ID, &a.Name, &a.Born)
	if err != nil {
		return nil, translatePgErr(err, "failed to find author by name")
	}
	return &a, nil
}

func (r *postgresStore) FindOrCreateAuthor(ctx context.Context, name string) (*model.Author, bool, error) {
	candidate := model.Author{ID: uuid.Must(uuid.NewV7()), Name: name}
	if err := candidate.Validate(); err != nil {
		return nil, false, err
	}

	type result struct {
		author  model.Author
		created bool
	}

	res, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (result, error) {
		var res result

		// ON CONFLICT waits for a concurrent insert of the same name to commit,
		// so the follow-up SELECT always sees the winner.
		err := tx.QueryRow(ctx, `
            INSERT INTO authors (id, name, born)
            VALUES ($1, $2, NULL)
            ON CONFLICT (name) DO NOTHING
            RETURNING id, name, born
        `, candidate.ID, candidate.Name).Scan(&res.author.ID, &res.author.Name, &res.author.Born)
		if err == nil {
			res.created = true
			return res, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return res, err
		}

		err = tx.QueryRow(ctx, `SELECT id, name, born FROM authors WHERE name = $1`, name).
			Scan(&res.author.ID, &res.author.Name, &res.author.Born)
		return res, err
	})
	if err != nil {
		return nil, false, translatePgErr(err, "failed to find or create author")
	}
	return &res.author, res.created, nil
}

func (r *postgresStore) UpdateAuthor(ctx context.Context, a *model.Author) error {
	if err := a.Validate(); err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, `UPDATE authors SET name = $1, born = $2 WHERE id = $3`, a.Name, a.Born, a.ID)
	if err != nil {
		return translatePgErr(err, "failed to update author")
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *postgresStore) CreateUser(ctx context.Context, u *model.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, username, favorite_genre) VALUES ($1, $2, $3)`,
		u.ID, u.Username, u.FavoriteGenre,
	)
	if err != nil {
		return translatePgErr(err, "failed to create user")
	}
	return nil
}

func (r *postgresStore) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `SELECT id, username, favorite_genre FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.FavoriteGenre)
	if err != nil {
		return nil, translatePgErr(err, "failed to get user by id")
	}
	return &u, nil
}

func (r *postgresStore) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `SELECT id, username, favorite_genre FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.FavoriteGenre)
	if err != nil {
		return nil, translatePgErr(err, "failed to find user by username")
	}
	return &u, nil
}

func (r *postgresStore) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *postgresStore) Close() error { return nil }

// translatePgErr maps driver errors onto the store errors in model
func translatePgErr(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			switch pgErr.ConstraintName {
			case "users_username_key":
				return model.ErrDuplicateUsername
			case "authors_name_key":
				return model.ErrDuplicateAuthor
			}
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: referenced record: %w", msg, model.ErrNotFound)
		case pgNotNullViolation:
			return fmt.Errorf("%s: column %s is required: %w", msg, pgErr.ColumnName, err)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}
