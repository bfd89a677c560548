package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-resume-wizard/app/db"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

var _ UserRepo = (*PostgresUserRepo)(nil)

// UserRepo defines the contract for profile persistence.
type UserRepo interface {
	// GetProfile returns types.ErrNotFound if the user doesn't exist.
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	// UpdateProfile writes only the non-nil fields of params. An empty
	// optional string clears the column.
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.UserProfile, error)
}

const profileColumns = `id, name, email, headline, location, portfolio_url`

type PostgresUserRepo struct {
	pgpool database.Querier
	logger *slog.Logger
}

func NewPostgresUserRepo(pgpool database.Querier, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		pgpool: pgpool,
		logger: logger,
	}
}

func scanProfile(row pgx.Row) (*types.UserProfile, error) {
	var p types.UserProfile
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Headline, &p.Location, &p.PortfolioURL); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresUserRepo) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	query := `SELECT ` + profileColumns + ` FROM users WHERE id = $1`
	profile, err := scanProfile(r.pgpool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to query user profile", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("database error fetching profile: %w", err)
	}
	span.SetStatus(codes.Ok, "Profile fetched")
	return profile, nil
}

func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.UserProfile, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "UpdateProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID.String()))

	var setClauses []string
	var args []interface{}
	argID := 1

	if params.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argID))
		args = append(args, *params.Name)
		argID++
		span.SetAttributes(attribute.Bool("update.name", true))
	}
	if params.Headline != nil {
		setClauses = append(setClauses, fmt.Sprintf("headline = $%d", argID))
		args = append(args, nullIfEmpty(*params.Headline))
		argID++
		span.SetAttributes(attribute.Bool("update.headline", true))
	}
	if params.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", argID))
		args = append(args, nullIfEmpty(*params.Location))
		argID++
		span.SetAttributes(attribute.Bool("update.location", true))
	}
	if params.PortfolioURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("portfolio_url = $%d", argID))
		args = append(args, nullIfEmpty(*params.PortfolioURL))
		argID++
		span.SetAttributes(attribute.Bool("update.portfolio_url", true))
	}

	if len(setClauses) == 0 {
		l.InfoContext(ctx, "No fields provided for profile update")
		span.SetStatus(codes.Ok, "No update needed")
		return r.GetProfile(ctx, userID)
	}

	setClauses = append(setClauses, "updated_at = now()")
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), argID, profileColumns)
	args = append(args, userID)

	profile, err := scanProfile(r.pgpool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user %s: %w", userID, types.ErrNotFound)
		}
		l.ErrorContext(ctx, "Failed to execute profile update", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB update failed")
		return nil, fmt.Errorf("database error updating profile: %w", err)
	}

	l.InfoContext(ctx, "User profile updated")
	span.SetStatus(codes.Ok, "Profile updated")
	return profile, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
