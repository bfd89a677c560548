package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/FACorreiaa/go-resume-wizard/internal/api"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

type contextKey string

const (
	UserIDKey         contextKey = "userID"
	SessionExpiresKey contextKey = "sessionExpires"
)

// SessionValidator is satisfied by *SessionManager.
type SessionValidator interface {
	ValidateSession(token string) (*types.Session, error)
}

// Authenticate requires a valid session from the cookie or an
// "Authorization: Bearer" header and stores the user id in the context.
func Authenticate(sessions SessionValidator, cookieName string, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			token := tokenFromRequest(r, cookieName)
			if token == "" {
				l.DebugContext(ctx, "No session presented", slog.String("path", r.URL.Path))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Unauthorized")
				return
			}

			session, err := sessions.ValidateSession(token)
			if err != nil {
				l.WarnContext(ctx, "Session rejected", slog.String("path", r.URL.Path))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx = WithSession(ctx, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// WithSession stores a validated session in ctx.
func WithSession(ctx context.Context, session *types.Session) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, session.UserID.String())
	return context.WithValue(ctx, SessionExpiresKey, session.ExpiresAt)
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

func GetSessionExpiryFromContext(ctx context.Context) (time.Time, bool) {
	expires, ok := ctx.Value(SessionExpiresKey).(time.Time)
	return expires, ok
}
