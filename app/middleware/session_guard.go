package appMiddleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

// SessionValidator verifies a session token taken from the cookie.
type SessionValidator interface {
	ValidateSession(token string) (*types.Session, error)
}

// GuardConfig lists the page prefixes that need a session and where to send
// visitors without one.
type GuardConfig struct {
	CookieName        string
	SignInPath        string
	ProtectedPrefixes []string
}

// RequireSession redirects page requests under a protected prefix to the
// sign-in page when the session cookie is missing or fails validation.
// Everything else passes through untouched.
func RequireSession(validator SessionValidator, cfg GuardConfig, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isProtected(r.URL.Path, cfg.ProtectedPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			l := logger.With(slog.String("middleware", "RequireSession"), slog.String("path", r.URL.Path))

			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				l.DebugContext(r.Context(), "No session cookie, redirecting to sign-in")
				http.Redirect(w, r, cfg.SignInPath, http.StatusTemporaryRedirect)
				return
			}
			if _, err := validator.ValidateSession(cookie.Value); err != nil {
				l.InfoContext(r.Context(), "Invalid session cookie, redirecting to sign-in", slog.Any("error", err))
				http.Redirect(w, r, cfg.SignInPath, http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isProtected(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/") {
			return true
		}
	}
	return false
}
