package router

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appLogger "github.com/FACorreiaa/go-resume-wizard/app/logger"
	appMiddleware "github.com/FACorreiaa/go-resume-wizard/app/middleware"
	"github.com/FACorreiaa/go-resume-wizard/internal/api"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/auth"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/forms"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/resume"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/transform"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/user"
)

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler      *auth.HandlerImpl
	UserHandler      *user.HandlerImpl
	ResumeHandler    *resume.HandlerImpl
	FormsHandler     *forms.HandlerImpl
	TransformHandler *transform.HandlerImpl

	// AuthenticateMiddleware guards the JSON API.
	AuthenticateMiddleware func(http.Handler) http.Handler
	// PageGuard redirects protected client pages to the sign-in page.
	PageGuard func(http.Handler) http.Handler

	RateLimiter      appMiddleware.RateLimiter
	AuthRequestLimit int
	RateLimitWindow  time.Duration

	AllowedOrigins []string
	StaticDir      string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// SetupRouter builds the application router. API routes live at the root
// and are mirrored under /api.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.Compress(5, "application/json"))

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Client pages share paths with API routes (/auth/sign-in), so unmatched
	// paths and page loads of POST-only routes fall through to the client.
	client := staticHandler(cfg.StaticDir)
	if cfg.PageGuard != nil {
		client = cfg.PageGuard(client)
	}
	r.NotFound(client.ServeHTTP)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			client.ServeHTTP(w, r)
			return
		}
		api.ErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Group(func(r chi.Router) { apiRoutes(r, cfg) })
	r.Route("/api", func(r chi.Router) { apiRoutes(r, cfg) })

	return r
}

func apiRoutes(r chi.Router, cfg *Config) {
	limited := appMiddleware.RateLimit(cfg.RateLimiter, cfg.AuthRequestLimit, cfg.RateLimitWindow, cfg.Logger)

	// --- Public Auth Routes ---
	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limited)
			r.Post("/sign-up", cfg.AuthHandler.SignUp)
			r.Post("/sign-in", cfg.AuthHandler.SignIn)
			r.Post("/forgot-password", cfg.AuthHandler.ForgotPassword)
			r.Post("/reset-password", cfg.AuthHandler.ResetPassword)
		})
		r.Post("/sign-out", cfg.AuthHandler.SignOut)

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)
			r.Get("/session", cfg.AuthHandler.Session)
			r.Post("/change-password", cfg.AuthHandler.ChangePassword)
		})
	})

	// --- Public form configuration ---
	r.Route("/forms/resume", func(r chi.Router) {
		r.Get("/", cfg.FormsHandler.GetResumeForm)
		r.Post("/transition", cfg.FormsHandler.Transition)
	})

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthenticateMiddleware)

		r.Get("/users/profile", cfg.UserHandler.GetUserProfile)
		r.Put("/users/profile", cfg.UserHandler.UpdateUserProfile)

		r.Route("/resumes", func(r chi.Router) {
			r.Get("/", cfg.ResumeHandler.ListResumes)
			r.Post("/", cfg.ResumeHandler.CreateResume)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.ResumeHandler.GetResume)
				r.Put("/", cfg.ResumeHandler.UpdateResume)
				r.Post("/jd", cfg.ResumeHandler.AttachJobDescription)
				r.Get("/wizard", cfg.ResumeHandler.GetWizard)
				r.Get("/match", cfg.ResumeHandler.GetMatch)
			})
		})

		r.Post("/ai/rewrite-bullet", cfg.TransformHandler.RewriteBullet)
		r.Post("/ai/rewrite-summary", cfg.TransformHandler.RewriteSummary)
	})
}

// staticHandler serves the built browser client. Without a directory every
// remaining path is a 404.
func staticHandler(dir string) http.Handler {
	if dir == "" {
		return http.NotFoundHandler()
	}
	if _, err := os.Stat(dir); err != nil {
		return http.NotFoundHandler()
	}
	return http.FileServer(http.Dir(dir))
}
