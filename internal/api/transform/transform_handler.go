package transform

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-resume-wizard/internal/api"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/wizard"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

type HandlerImpl struct {
	transformer Transformer
	logger      *slog.Logger
}

func NewHandlerImpl(transformer Transformer, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		transformer: transformer,
		logger:      logger,
	}
}

// RewriteBullet godoc
// @Summary      Rewrite a résumé bullet
// @Tags         AI
// @Accept       json
// @Produce      json
// @Param        body body api.RewriteBulletRequest true "Bullet and target role"
// @Success      200 {object} api.TextResponse
// @Failure      400 {object} api.ValidationResponse
// @Failure      401 {object} api.Response
// @Failure      502 {object} api.Response
// @Security     CookieAuth
// @Router       /ai/rewrite-bullet [post]
func (h *HandlerImpl) RewriteBullet(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TransformHandler").Start(r.Context(), "RewriteBullet", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/ai/rewrite-bullet"),
	))
	defer span.End()
	l := h.logger.With(slog.String("HandlerImpl", "RewriteBullet"))

	var req api.RewriteBulletRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Bullet = strings.TrimSpace(req.Bullet)
	if err := api.ValidateRequest(req); err != nil {
		h.writeError(w, r, err)
		return
	}

	text, err := h.transformer.RewriteBullet(ctx, req.Bullet, roleOrDefault(req.Role))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rewrite failed")
		h.writeError(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Bullet rewritten")
	api.WriteJSONResponse(w, r, http.StatusOK, api.TextResponse{Text: text})
}

// RewriteSummary godoc
// @Summary      Generate a professional summary
// @Tags         AI
// @Accept       json
// @Produce      json
// @Param        body body api.RewriteSummaryRequest true "Résumé content and target role"
// @Success      200 {object} api.TextResponse
// @Failure      400 {object} api.ValidationResponse
// @Failure      401 {object} api.Response
// @Failure      502 {object} api.Response
// @Security     CookieAuth
// @Router       /ai/rewrite-summary [post]
func (h *HandlerImpl) RewriteSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("TransformHandler").Start(r.Context(), "RewriteSummary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/ai/rewrite-summary"),
	))
	defer span.End()
	l := h.logger.With(slog.String("HandlerImpl", "RewriteSummary"))

	var req api.RewriteSummaryRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	doc, err := wizard.Parse(req.Content)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	text, err := h.transformer.RewriteSummary(ctx, wizard.Normalize(doc), roleOrDefault(req.Role))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rewrite failed")
		h.writeError(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Summary rewritten")
	api.WriteJSONResponse(w, r, http.StatusOK, api.TextResponse{Text: text})
}

func (h *HandlerImpl) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		api.ValidationErrorResponse(w, r, verr)
	case errors.Is(err, types.ErrUpstream):
		api.ErrorResponse(w, r, http.StatusBadGateway, "Content service unavailable, please try again")
	default:
		h.logger.ErrorContext(r.Context(), "Transform request failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

func roleOrDefault(role string) string {
	if role = strings.TrimSpace(role); role == "" {
		return "Professional"
	}
	return role
}
