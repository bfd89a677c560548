package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-resume-wizard/app/db"
	"github.com/FACorreiaa/go-resume-wizard/app/observability/metrics"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

type AuthRepo interface {
	CreateUser(ctx context.Context, params types.NewUser) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	CreateResetToken(ctx context.Context, token types.PasswordResetToken) error
	// ConsumeResetToken deletes a live token and sets the new password in one
	// transaction. Exactly one of several concurrent callers can succeed.
	ConsumeResetToken(ctx context.Context, token, passwordHash string) (uuid.UUID, error)
}

const userColumns = `id, name, email, password_hash, headline, location, portfolio_url, created_at, updated_at`

const (
	insertUserQuery = `
		INSERT INTO users (name, email, password_hash, headline, location, portfolio_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	selectUserByEmailQuery = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	selectUserByIDQuery    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	updatePasswordQuery    = `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`
	insertResetTokenQuery  = `INSERT INTO password_reset_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`
	consumeResetTokenQuery = `DELETE FROM password_reset_tokens WHERE token = $1 AND expires_at > now() RETURNING user_id`
)

type PostgresAuthRepo struct {
	pgpool database.Querier
	logger *slog.Logger
}

func NewPostgresAuthRepo(pgpool database.Querier, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		pgpool: pgpool,
		logger: logger,
	}
}

func scanUser(row pgx.Row) (*types.User, error) {
	var u types.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Headline, &u.Location, &u.PortfolioURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func startSpan(ctx context.Context, op, table string) (context.Context, trace.Span) {
	return otel.Tracer("AuthRepo").Start(ctx, op, trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", op),
		attribute.String("db.sql.table", table),
	))
}

func (r *PostgresAuthRepo) queryFailed(ctx context.Context, span trace.Span, op string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")
	metrics.Get().DbQueryErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("query", op)))
	r.logger.ErrorContext(ctx, "Database query failed", slog.String("method", op), slog.Any("error", err))
}

func (r *PostgresAuthRepo) CreateUser(ctx context.Context, params types.NewUser) (*types.User, error) {
	ctx, span := startSpan(ctx, "CreateUser", "users")
	defer span.End()

	user, err := scanUser(r.pgpool.QueryRow(ctx, insertUserQuery,
		params.Name, params.Email, params.PasswordHash, params.Headline, params.Location, params.PortfolioURL))
	if err != nil {
		if database.IsUniqueViolation(err) {
			span.SetStatus(codes.Error, "Duplicate email")
			return nil, fmt.Errorf("email already registered: %w", types.ErrConflict)
		}
		r.queryFailed(ctx, span, "CreateUser", err)
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	span.SetAttributes(attribute.String("db.user.id", user.ID.String()))
	span.SetStatus(codes.Ok, "User created")
	return user, nil
}

func (r *PostgresAuthRepo) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := startSpan(ctx, "GetUserByEmail", "users")
	defer span.End()

	user, err := scanUser(r.pgpool.QueryRow(ctx, selectUserByEmailQuery, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "User not found")
			return nil, fmt.Errorf("user with email not found: %w", types.ErrNotFound)
		}
		r.queryFailed(ctx, span, "GetUserByEmail", err)
		return nil, fmt.Errorf("failed to fetch user by email: %w", err)
	}
	span.SetStatus(codes.Ok, "User found")
	return user, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	ctx, span := startSpan(ctx, "GetUserByID", "users")
	defer span.End()
	span.SetAttributes(attribute.String("db.user.id", userID.String()))

	user, err := scanUser(r.pgpool.QueryRow(ctx, selectUserByIDQuery, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "User not found")
			return nil, fmt.Errorf("user %s not found: %w", userID, types.ErrNotFound)
		}
		r.queryFailed(ctx, span, "GetUserByID", err)
		return nil, fmt.Errorf("failed to fetch user by id: %w", err)
	}
	span.SetStatus(codes.Ok, "User found")
	return user, nil
}

func (r *PostgresAuthRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	ctx, span := startSpan(ctx, "UpdatePassword", "users")
	defer span.End()
	span.SetAttributes(attribute.String("db.user.id", userID.String()))

	tag, err := r.pgpool.Exec(ctx, updatePasswordQuery, userID, passwordHash)
	if err != nil {
		r.queryFailed(ctx, span, "UpdatePassword", err)
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return fmt.Errorf("user %s not found: %w", userID, types.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "Password updated")
	return nil
}

func (r *PostgresAuthRepo) CreateResetToken(ctx context.Context, token types.PasswordResetToken) error {
	ctx, span := startSpan(ctx, "CreateResetToken", "password_reset_tokens")
	defer span.End()

	if _, err := r.pgpool.Exec(ctx, insertResetTokenQuery, token.Token, token.UserID, token.ExpiresAt); err != nil {
		r.queryFailed(ctx, span, "CreateResetToken", err)
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	span.SetStatus(codes.Ok, "Reset token stored")
	return nil
}

func (r *PostgresAuthRepo) ConsumeResetToken(ctx context.Context, token, passwordHash string) (uuid.UUID, error) {
	ctx, span := startSpan(ctx, "ConsumeResetToken", "password_reset_tokens")
	defer span.End()

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		r.queryFailed(ctx, span, "ConsumeResetToken", err)
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The DELETE takes the row lock; a concurrent consumer blocks on it and
	// then finds no row.
	var userID uuid.UUID
	if err := tx.QueryRow(ctx, consumeResetTokenQuery, token).Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Invalid or expired token")
			return uuid.Nil, types.ErrInvalidToken
		}
		r.queryFailed(ctx, span, "ConsumeResetToken", err)
		return uuid.Nil, fmt.Errorf("failed to consume reset token: %w", err)
	}

	tag, err := tx.Exec(ctx, updatePasswordQuery, userID, passwordHash)
	if err != nil {
		r.queryFailed(ctx, span, "ConsumeResetToken", err)
		return uuid.Nil, fmt.Errorf("failed to reset password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found")
		return uuid.Nil, types.ErrInvalidToken
	}

	if err := tx.Commit(ctx); err != nil {
		r.queryFailed(ctx, span, "ConsumeResetToken", err)
		return uuid.Nil, fmt.Errorf("failed to commit password reset: %w", err)
	}
	span.SetAttributes(attribute.String("db.user.id", userID.String()))
	span.SetStatus(codes.Ok, "Password reset")
	return userID, nil
}
