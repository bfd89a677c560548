package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-resume-wizard/internal/api"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

// CookieOptions controls the session cookie attributes.
type CookieOptions struct {
	Name string
	// Secure is set in production only so local development works over plain http.
	Secure bool
	// ExposeResetToken echoes reset tokens in the forgot-password response.
	ExposeResetToken bool
}

type HandlerImpl struct {
	authService AuthService
	cookie      CookieOptions
	logger      *slog.Logger
}

func NewHandlerImpl(authService AuthService, cookie CookieOptions, logger *slog.Logger) *HandlerImpl {
	if cookie.Name == "" {
		cookie.Name = "session"
	}
	return &HandlerImpl{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

func (h *HandlerImpl) setSessionCookie(w http.ResponseWriter, session *IssuedSession) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *HandlerImpl) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func startHandlerSpan(r *http.Request, op, route string) (trace.Span, *http.Request) {
	ctx, span := otel.Tracer("AuthHandler").Start(r.Context(), op, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return span, r.WithContext(ctx)
}

// SignUp godoc
// @Summary      Register a new account
// @Description  Creates the user and sets the session cookie.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body api.SignUpRequest true "Registration details"
// @Success      200 {object} api.AuthResponse
// @Failure      400 {object} api.ValidationResponse
// @Failure      429 {object} api.Response
// @Router       /auth/sign-up [post]
func (h *HandlerImpl) SignUp(w http.ResponseWriter, r *http.Request) {
	span, r := startHandlerSpan(r, "SignUp", "/auth/sign-up")
	defer span.End()
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "SignUp"))

	var req api.SignUpRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.ValidateRequest(req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, session, err := h.authService.SignUp(ctx, SignUpParams{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Headline:     req.Headline,
		Location:     req.Location,
		PortfolioURL: req.PortfolioURL,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Sign-up failed")
		if errors.Is(err, types.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Email already exists")
			return
		}
		h.writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, session)
	span.SetStatus(codes.Ok, "User registered")
	api.WriteJSONResponse(w, r, http.StatusOK, api.AuthResponse{Success: true, User: user.Summary()})
}

// SignIn godoc
// @Summary      Sign in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body api.SignInRequest true "Credentials"
// @Success      200 {object} api.AuthResponse
// @Failure      400 {object} api.ValidationResponse
// @Failure      401 {object} api.Response
// @Failure      429 {object} api.Response
// @Router       /auth/sign-in [post]
func (h *HandlerImpl) SignIn(w http.ResponseWriter, r *http.Request) {
	span, r := startHandlerSpan(r, "SignIn", "/auth/sign-in")
	defer span.End()
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "SignIn"))

	var req api.SignInRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.ValidateRequest(req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, session, err := h.authService.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Sign-in failed")
		h.writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, session)
	span.SetStatus(codes.Ok, "Signed in")
	api.WriteJSONResponse(w, r, http.StatusOK, api.AuthResponse{Success: true, User: user.Summary()})
}

// SignOut godoc
// @Summary      Sign out
// @Description  Clears the session cookie. Succeeds without a session.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} api.Response
// @Router       /auth/sign-out [post]
func (h *HandlerImpl) SignOut(w http.ResponseWriter, r *http.Request) {
	span, r := startHandlerSpan(r, "SignOut", "/auth/sign-out")
	defer span.End()

	h.clearSessionCookie(w)
	span.SetStatus(codes.Ok, "Signed out")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{Success: true, Message: "Signed out"})
}

// Session godoc
// @Summary      Current session
// @Tags         Auth
// @Produce      json
// @Success      200 {object} api.SessionResponse
// @Failure      401 {object} api.Response
// @Security     CookieAuth
// @Router       /auth/session [get]
func (h *HandlerImpl) Session(w http.ResponseWriter, r *http.Request) {
	span, r := startHandlerSpan(r, "Session", "/auth/session")
	defer span.End()

	userID, ok := userIDFromRequest(r)
	expires, _ := GetSessionExpiryFromContext(r.Context())
	if !ok {
		span.SetStatus(codes.Error, "No session")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}
	span.SetStatus(codes.Ok, "Session resolved")
	api.WriteJSONResponse(w, r, http.StatusOK, api.SessionResponse{UserID: userID, ExpiresAt: expires})
}

// ChangePassword godoc
// @Summary      Change password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body api.ChangePasswordRequest true "Current and new password"
// @Success      200 {object} api.Response
// @Failure      400 {object} api.ValidationResponse
// @Failure      401 {object} api.Response
// @Failure      404 {object} api.Response
// @Security     CookieAuth
// @Router       /auth/change-password [post]
func (h *HandlerImpl) ChangePassword(w http.ResponseWriter, r *http.Request) {
	span, r := startHandlerSpan(r, "ChangePassword", "/auth/change-password")
	defer span.End()
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "ChangePassword"))

	userID, ok := userIDFromRequest(r)
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req api.ChangePasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.ValidateRequest(req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.authService.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Change password failed")
		h.writeError(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Password changed")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{Success: true})
}

// ForgotPassword godoc
// @Summary      Request a password reset
// @Description  Always answers 200 so account existence is not revealed.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body api.ForgotPasswordRequest true "Account email"
// @Success      200 {object} api.ForgotPasswordResponse
// @Failure      400 {object} api.ValidationResponse
// @Failure      429 {object} api.Response
// @Router       /auth/forgot-password [post]
func (h *HandlerImpl) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	span, r := startHandlerSpan(r, "ForgotPassword", "/auth/forgot-password")
	defer span.End()
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "ForgotPassword"))

	var req api.ForgotPasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.ValidateRequest(req); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, err := h.authService.RequestPasswordReset(ctx, req.Email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Reset request failed")
		h.writeError(w, r, err)
		return
	}

	resp := api.ForgotPasswordResponse{
		Success: true,
		Message: "If an account exists for that email, a reset link has been sent",
	}
	if h.cookie.ExposeResetToken {
		resp.ResetToken = token
	}
	span.SetStatus(codes.Ok, "Reset requested")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// ResetPassword godoc
// @Summary      Reset password with a token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body api.ResetPasswordRequest true "Reset token and new password"
// @Success      200 {object} api.Response
// @Failure      400 {object} api.Response
// @Router       /auth/reset-password [post]
func (h *HandlerImpl) ResetPassword(w http.ResponseWriter, r *http.Request) {
	span, r := startHandlerSpan(r, "ResetPassword", "/auth/reset-password")
	defer span.End()
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "ResetPassword"))

	var req api.ResetPasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.ValidateRequest(req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.authService.ResetPassword(ctx, req.Token, req.NewPassword); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Reset failed")
		h.writeError(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Password reset")
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{Success: true, Message: "Password has been reset"})
}

func userIDFromRequest(r *http.Request) (uuid.UUID, bool) {
	raw, ok := GetUserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (h *HandlerImpl) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		api.ValidationErrorResponse(w, r, verr)
	case errors.Is(err, types.ErrInvalidCredentials):
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, types.ErrIncorrectPassword):
		api.ErrorResponse(w, r, http.StatusBadRequest, "Incorrect current password")
	case errors.Is(err, types.ErrInvalidToken):
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid or expired token")
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
	case errors.Is(err, types.ErrConflict):
		api.ErrorResponse(w, r, http.StatusBadRequest, "Email already exists")
	default:
		h.logger.ErrorContext(r.Context(), "Auth request failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
