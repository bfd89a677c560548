package forms

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-resume-wizard/internal/api"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

type HandlerImpl struct {
	formService FormService
	logger      *slog.Logger
}

func NewHandlerImpl(formService FormService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		formService: formService,
		logger:      logger,
	}
}

// GetResumeForm godoc
// @Summary      Get resume wizard configuration
// @Description  Returns the ordered wizard steps for a role. Roles containing "Designer" start with a portfolio step.
// @Tags         Forms
// @Produce      json
// @Param        role query string false "Target role"
// @Success      200 {array} types.StepConfig
// @Router       /forms/resume [get]
func (h *HandlerImpl) GetResumeForm(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	ctx, span := otel.Tracer("FormHandler").Start(r.Context(), "GetResumeForm", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/forms/resume"),
		attribute.String("role", role),
	))
	defer span.End()

	steps := h.formService.Resolve(ctx, role)
	span.SetStatus(codes.Ok, "Form resolved")
	api.WriteJSONResponse(w, r, http.StatusOK, steps)
}

// Transition godoc
// @Summary      Apply a wizard transition
// @Description  Applies next, back, add or remove to the submitted wizard state. A blocked "next" returns 200 with field errors and the step unchanged.
// @Tags         Forms
// @Accept       json
// @Produce      json
// @Param        transition body api.WizardTransitionRequest true "Wizard state and action"
// @Success      200 {object} api.WizardStateResponse
// @Failure      400 {object} api.ValidationResponse
// @Router       /forms/resume/transition [post]
func (h *HandlerImpl) Transition(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("FormHandler").Start(r.Context(), "Transition", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/forms/resume/transition"),
	))
	defer span.End()
	l := h.logger.With(slog.String("HandlerImpl", "Transition"))

	var req api.WizardTransitionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := api.ValidateRequest(req); err != nil {
		h.writeError(w, r, err)
		return
	}

	state, err := h.formService.Transition(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Transition failed")
		h.writeError(w, r, err)
		return
	}

	span.SetStatus(codes.Ok, "Transition applied")
	api.WriteJSONResponse(w, r, http.StatusOK, state)
}

func (h *HandlerImpl) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		api.ValidationErrorResponse(w, r, verr)
		return
	}
	h.logger.ErrorContext(r.Context(), "Wizard transition failed", slog.Any("error", err))
	api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal server error")
}
