package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-resume-wizard/app/db"
	appMiddleware "github.com/FACorreiaa/go-resume-wizard/app/middleware"
	"github.com/FACorreiaa/go-resume-wizard/config"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/auth"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/forms"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/resume"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/transform"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/user"
	"github.com/FACorreiaa/go-resume-wizard/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	Pool             *pgxpool.Pool
	Sessions         *auth.SessionManager
	RateLimiter      appMiddleware.RateLimiter
	AuthHandler      *auth.HandlerImpl
	UserHandler      *user.HandlerImpl
	ResumeHandler    *resume.HandlerImpl
	FormsHandler     *forms.HandlerImpl
	TransformHandler *transform.HandlerImpl
}

// NewContainer connects to the database and wires every repository, service
// and handler.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	c, err := newContainer(ctx, cfg, pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	c.Pool = pool
	return c, nil
}

func newContainer(ctx context.Context, cfg *config.Config, pool database.Querier, logger *slog.Logger) (*Container, error) {
	sessions, err := auth.NewSessionManager(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create session manager: %w", err)
	}

	transformer, err := transform.New(ctx, cfg.Transform, logger)
	if err != nil {
		logger.Error("Failed to initialize content transformer", slog.Any("error", err))
		return nil, err
	}

	// Auth
	authRepo := auth.NewPostgresAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, sessions, cfg.PasswordReset.TTL, logger)
	authHandlerImpl := auth.NewHandlerImpl(authService, auth.CookieOptions{
		Name:             cfg.Session.CookieName,
		Secure:           cfg.IsProduction(),
		ExposeResetToken: !cfg.IsProduction(),
	}, logger)

	// User profile
	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, logger)
	userHandlerImpl := user.NewHandlerImpl(userService, logger)

	// Forms and résumés
	formService := forms.NewFormService(logger)
	formsHandlerImpl := forms.NewHandlerImpl(formService, logger)

	resumeRepo := resume.NewPostgresResumeRepo(pool, logger)
	resumeService := resume.NewResumeService(resumeRepo, transformer, formService, logger)
	resumeHandlerImpl := resume.NewHandlerImpl(resumeService, logger)

	transformHandlerImpl := transform.NewHandlerImpl(transformer, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		Sessions:         sessions,
		RateLimiter:      appMiddleware.NewRateLimiter(cfg.Repositories.Redis.URL, logger),
		AuthHandler:      authHandlerImpl,
		UserHandler:      userHandlerImpl,
		ResumeHandler:    resumeHandlerImpl,
		FormsHandler:     formsHandlerImpl,
		TransformHandler: transformHandlerImpl,
	}, nil
}

// Router mounts the handlers with the session middleware and page guard.
func (c *Container) Router() http.Handler {
	cookieName := c.Config.Session.CookieName
	return router.SetupRouter(&router.Config{
		AuthHandler:            c.AuthHandler,
		UserHandler:            c.UserHandler,
		ResumeHandler:          c.ResumeHandler,
		FormsHandler:           c.FormsHandler,
		TransformHandler:       c.TransformHandler,
		AuthenticateMiddleware: auth.Authenticate(c.Sessions, cookieName, c.Logger),
		PageGuard: appMiddleware.RequireSession(c.Sessions, appMiddleware.GuardConfig{
			CookieName:        cookieName,
			SignInPath:        c.Config.Server.SignInPath,
			ProtectedPrefixes: c.Config.Server.ProtectedPrefixes,
		}, c.Logger),
		RateLimiter:      c.RateLimiter,
		AuthRequestLimit: c.Config.RateLimit.AuthRequests,
		RateLimitWindow:  c.Config.RateLimit.Window,
		AllowedOrigins:   c.Config.Server.AllowedOrigins,
		StaticDir:        c.Config.Server.StaticDir,
		RequestTimeout:   c.Config.Server.Timeout,
		Logger:           c.Logger,
	})
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.RateLimiter != nil {
		c.RateLimiter.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
