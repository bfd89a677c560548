package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-resume-wizard/app/observability/metrics"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

const resetTokenBytes = 32

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService owns credentials. Plaintext passwords only live in its
// arguments and are never stored or logged.
type AuthService interface {
	SignUp(ctx context.Context, params SignUpParams) (*types.User, *IssuedSession, error)
	SignIn(ctx context.Context, email, password string) (*types.User, *IssuedSession, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type SignUpParams struct {
	Name         string
	Email        string
	Password     string
	Headline     *string
	Location     *string
	PortfolioURL *string
}

type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
}

type AuthServiceImpl struct {
	repo     AuthRepo
	sessions *SessionManager
	resetTTL time.Duration
	cost     int
	logger   *slog.Logger
}

func NewAuthService(repo AuthRepo, sessions *SessionManager, resetTTL time.Duration, logger *slog.Logger) *AuthServiceImpl {
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &AuthServiceImpl{
		repo:     repo,
		sessions: sessions,
		resetTTL: resetTTL,
		cost:     bcrypt.DefaultCost,
		logger:   logger,
	}
}

// dummyHash is compared against when the email is unknown so both failure
// paths pay for one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("resume-wizard-timing-equalizer"), bcrypt.DefaultCost)
	return h
})

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func recordAuth(ctx context.Context, op, outcome string) {
	metrics.Get().AuthAttemptsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}

func (s *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			verr := types.NewValidationError("validation failed")
			verr.Add("password", "Must be at most 72 bytes")
			return "", verr
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthServiceImpl) issue(ctx context.Context, userID uuid.UUID) (*IssuedSession, error) {
	token, expiresAt, err := s.sessions.Issue(userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to sign session", slog.Any("error", err))
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	return &IssuedSession{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthServiceImpl) SignUp(ctx context.Context, params SignUpParams) (*types.User, *IssuedSession, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "SignUp")
	defer span.End()
	l := s.logger.With(slog.String("method", "SignUp"))

	hash, err := s.hashPassword(params.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Hashing failed")
		return nil, nil, err
	}

	user, err := s.repo.CreateUser(ctx, types.NewUser{
		Name:         strings.TrimSpace(params.Name),
		Email:        normalizeEmail(params.Email),
		PasswordHash: hash,
		Headline:     params.Headline,
		Location:     params.Location,
		PortfolioURL: params.PortfolioURL,
	})
	if err != nil {
		recordAuth(ctx, "sign_up", "failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create user failed")
		if errors.Is(err, types.ErrConflict) {
			l.InfoContext(ctx, "Sign-up with existing email")
		}
		return nil, nil, err
	}

	session, err := s.issue(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session failed")
		return nil, nil, err
	}
	recordAuth(ctx, "sign_up", "success")
	l.InfoContext(ctx, "User registered", slog.String("userID", user.ID.String()))
	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	span.SetStatus(codes.Ok, "User registered")
	return user, session, nil
}

// SignIn returns types.ErrInvalidCredentials for an unknown email and for a
// wrong password alike.
func (s *AuthServiceImpl) SignIn(ctx context.Context, email, password string) (*types.User, *IssuedSession, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "SignIn")
	defer span.End()
	l := s.logger.With(slog.String("method", "SignIn"))

	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			recordAuth(ctx, "sign_in", "invalid_credentials")
			span.SetStatus(codes.Error, "Invalid credentials")
			return nil, nil, types.ErrInvalidCredentials
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return nil, nil, fmt.Errorf("sign-in lookup: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		recordAuth(ctx, "sign_in", "invalid_credentials")
		span.SetStatus(codes.Error, "Invalid credentials")
		return nil, nil, types.ErrInvalidCredentials
	}

	session, err := s.issue(ctx, user.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session failed")
		return nil, nil, err
	}
	recordAuth(ctx, "sign_in", "success")
	l.InfoContext(ctx, "User signed in", slog.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "Signed in")
	return user, session, nil
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "ChangePassword", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "ChangePassword"), slog.String("userID", userID.String()))

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "User lookup failed")
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		recordAuth(ctx, "change_password", "incorrect_password")
		span.SetStatus(codes.Error, "Incorrect current password")
		return types.ErrIncorrectPassword
	}

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Hashing failed")
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		return err
	}
	recordAuth(ctx, "change_password", "success")
	l.InfoContext(ctx, "Password changed")
	span.SetStatus(codes.Ok, "Password changed")
	return nil
}

// RequestPasswordReset stores a fresh single-use token. It returns an empty
// token and no error for unknown emails.
func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "RequestPasswordReset")
	defer span.End()
	l := s.logger.With(slog.String("method", "RequestPasswordReset"))

	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.InfoContext(ctx, "Password reset requested for unknown email")
			span.SetStatus(codes.Ok, "Unknown email")
			return "", nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Lookup failed")
		return "", err
	}

	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token generation failed")
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := s.repo.CreateResetToken(ctx, types.PasswordResetToken{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.resetTTL),
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Store failed")
		return "", err
	}
	recordAuth(ctx, "request_reset", "success")
	l.InfoContext(ctx, "Password reset token issued", slog.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "Reset token issued")
	return token, nil
}

func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "ResetPassword")
	defer span.End()
	l := s.logger.With(slog.String("method", "ResetPassword"))

	hash, err := s.hashPassword(newPassword)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Hashing failed")
		return err
	}
	userID, err := s.repo.ConsumeResetToken(ctx, token, hash)
	if err != nil {
		recordAuth(ctx, "reset_password", "failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Reset failed")
		return err
	}
	recordAuth(ctx, "reset_password", "success")
	l.InfoContext(ctx, "Password reset", slog.String("userID", userID.String()))
	span.SetStatus(codes.Ok, "Password reset")
	return nil
}
