package auth

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

func strPtr(s string) *string { return &s }

func userRows(id uuid.UUID, email string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "headline", "location", "portfolio_url", "created_at", "updated_at"}).
		AddRow(id, "Ada", email, "$2a$hash", strPtr("Engineer"), strPtr("London"), strPtr("https://ada.dev"), now, now)
}

func newMockRepo(t *testing.T) (*PostgresAuthRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewPostgresAuthRepo(pool, discardLogger()), pool
}

func TestPostgresAuthRepoCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored row", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		id := uuid.New()
		pool.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs("Ada", "ada@example.com", "$2a$hash", (*string)(nil), (*string)(nil), (*string)(nil)).
			WillReturnRows(userRows(id, "ada@example.com"))

		user, err := repo.CreateUser(ctx, types.NewUser{Name: "Ada", Email: "ada@example.com", PasswordHash: "$2a$hash"})
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "Engineer", *user.Headline)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
			WithArgs("Ada", "ada@example.com", "$2a$hash", (*string)(nil), (*string)(nil), (*string)(nil)).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.CreateUser(ctx, types.NewUser{Name: "Ada", Email: "ada@example.com", PasswordHash: "$2a$hash"})
		assert.ErrorIs(t, err, types.ErrConflict)
		assert.NoError(t, pool.ExpectationsWereMet())
	})
}

func TestPostgresAuthRepoGetUserByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		id := uuid.New()
		pool.ExpectQuery(regexp.QuoteMeta(selectUserByEmailQuery)).
			WithArgs("ada@example.com").
			WillReturnRows(userRows(id, "ada@example.com"))

		user, err := repo.GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
	})

	t.Run("missing row is not found", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectQuery(regexp.QuoteMeta(selectUserByEmailQuery)).
			WithArgs("ghost@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"id"}))

		_, err := repo.GetUserByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("driver failure is wrapped", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectQuery(regexp.QuoteMeta(selectUserByEmailQuery)).
			WithArgs("ada@example.com").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.GetUserByEmail(ctx, "ada@example.com")
		assert.ErrorContains(t, err, "connection reset")
		assert.NotErrorIs(t, err, types.ErrNotFound)
	})
}

func TestPostgresAuthRepoUpdatePassword(t *testing.T) {
	ctx := context.Background()
	repo, pool := newMockRepo(t)
	id := uuid.New()

	pool.ExpectExec(regexp.QuoteMeta(updatePasswordQuery)).
		WithArgs(id, "newhash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectExec(regexp.QuoteMeta(updatePasswordQuery)).
		WithArgs(id, "newhash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.UpdatePassword(ctx, id, "newhash"))
	assert.ErrorIs(t, repo.UpdatePassword(ctx, id, "newhash"), types.ErrNotFound)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresAuthRepoConsumeResetToken(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes and updates in one transaction", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		id := uuid.New()
		pool.ExpectBegin()
		pool.ExpectQuery(regexp.QuoteMeta(consumeResetTokenQuery)).
			WithArgs("tok").
			WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(id))
		pool.ExpectExec(regexp.QuoteMeta(updatePasswordQuery)).
			WithArgs(id, "newhash").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		pool.ExpectCommit()

		got, err := repo.ConsumeResetToken(ctx, "tok", "newhash")
		require.NoError(t, err)
		assert.Equal(t, id, got)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("unknown or expired token rolls back", func(t *testing.T) {
		repo, pool := newMockRepo(t)
		pool.ExpectBegin()
		pool.ExpectQuery(regexp.QuoteMeta(consumeResetTokenQuery)).
			WithArgs("stale").
			WillReturnRows(pgxmock.NewRows([]string{"user_id"}))
		pool.ExpectRollback()

		_, err := repo.ConsumeResetToken(ctx, "stale", "newhash")
		assert.ErrorIs(t, err, types.ErrInvalidToken)
		assert.NoError(t, pool.ExpectationsWereMet())
	})
}
