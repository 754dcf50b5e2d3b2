package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"catalog-backend/internal/domains/catalog/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslatePgErr(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantMsg string
	}{
		{
			name:   "no rows",
			err:    pgx.ErrNoRows,
			wantIs: model.ErrNotFound,
		},
		{
			name:   "wrapped no rows",
			err:    fmt.Errorf("scan: %w", pgx.ErrNoRows),
			wantIs: model.ErrNotFound,
		},
		{
			name:   "duplicate username",
			err:    &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_username_key"},
			wantIs: model.ErrDuplicateUsername,
		},
		{
			name:   "duplicate author",
			err:    &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "authors_name_key"},
			wantIs: model.ErrDuplicateAuthor,
		},
		{
			name:    "other unique constraint",
			err:     &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "books_pkey"},
			wantMsg: "op failed: ",
		},
		{
			name:   "foreign key",
			err:    &pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "books_author_id_fkey"},
			wantIs: model.ErrNotFound,
		},
		{
			name:    "not null",
			err:     &pgconn.PgError{Code: pgNotNullViolation, ColumnName: "title"},
			wantMsg: "column title is required",
		},
		{
			name:    "unknown",
			err:     errors.New("connection reset"),
			wantMsg: "op failed: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translatePgErr(tt.err, "op failed")
			require.Error(t, got)
			if tt.wantIs != nil {
				assert.ErrorIs(t, got, tt.wantIs)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, got.Error(), tt.wantMsg)
				assert.NotErrorIs(t, got, model.ErrDuplicateAuthor)
				assert.NotErrorIs(t, got, model.ErrDuplicateUsername)
			}
		})
	}
}

// TestPostgresStore runs the store contract against a live database when
// CATALOG_TEST_DATABASE_URL is set.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("CATALOG_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CATALOG_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, EnsureSchema(ctx, pool))

	runStoreContract(t, func(t *testing.T) Store {
		_, err := pool.Exec(ctx, `TRUNCATE books, authors, users`)
		require.NoError(t, err)
		return NewPostgresStore(pool)
	})
}
