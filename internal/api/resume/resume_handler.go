package resume

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-resume-wizard/internal/api"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/auth"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

type HandlerImpl struct {
	resumeService ResumeService
	logger        *slog.Logger
}

func NewHandlerImpl(resumeService ResumeService, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		resumeService: resumeService,
		logger:        logger,
	}
}

func startSpanFromRequest(r *http.Request, op, route string) (trace.Span, *http.Request) {
	ctx, span := otel.Tracer("ResumeHandler").Start(r.Context(), op, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return span, r.WithContext(ctx)
}

// ListResumes godoc
// @Summary      List résumés
// @Description  Returns the caller's résumés, most recently updated first.
// @Tags         Resumes
// @Produce      json
// @Param        status query string false "draft or completed"
// @Success      200 {array} types.Resume
// @Failure      400 {object} api.ValidationResponse
// @Failure      401 {object} api.Response
// @Security     CookieAuth
// @Router       /resumes [get]
func (h *HandlerImpl) ListResumes(w http.ResponseWriter, r *http.Request) {
	span, r := startSpanFromRequest(r, "ListResumes", "/resumes")
	defer span.End()

	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	resumes, err := h.resumeService.ListResumes(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		h.writeError(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Resumes listed")
	api.WriteJSONResponse(w, r, http.StatusOK, resumes)
}

// CreateResume godoc
// @Summary      Create a résumé draft
// @Tags         Resumes
// @Accept       json
// @Produce      json
// @Param        body body api.CreateResumeRequest true "Role and experience level"
// @Success      200 {object} types.Resume
// @Failure      400 {object} api.ValidationResponse
// @Failure      401 {object} api.Response
// @Security     CookieAuth
// @Router       /resumes [post]
func (h *HandlerImpl) CreateResume(w http.ResponseWriter, r *http.Request) {
	span, r := startSpanFromRequest(r, "CreateResume", "/resumes")
	defer span.End()
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "CreateResume"))

	userID, ok := h.callerID(w, r)
	if !ok {
		return
	}
	var req api.CreateResumeRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.resumeService.CreateDraft(ctx, userID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		h.writeError(w, r, err)
		return
	}
	span.SetAttributes(attribute.String("resume.id", res.ID.String()))
	span.SetStatus(codes.Ok, "Draft created")
	api.WriteJSONResponse(w, r, http.StatusOK, res)
}

// GetResume godoc
// @Summary      Get a résumé
// @Tags         Resumes
// @Produce      json
// @Param        id path string true "Résumé ID"
// @Success      200 {object} types.Resume
// @Failure      401 {object} api.Response
// @Failure      404 {object} api.Response
// @Security     CookieAuth
// @Router       /resumes/{id} [get]
func (h *HandlerImpl) GetResume(w http.ResponseWriter, r *http.Request) {
	span, r := startSpanFromRequest(r, "GetResume", "/resumes/{id}")
	defer span.End()

	userID, id, ok := h.callerAndResume(w, r)
	if !ok {
		return
	}
	res, err := h.resumeService.GetResume(r.Context(), userID, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Get failed")
		h.writeError(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Resume returned")
	api.WriteJSONResponse(w, r, http.StatusOK, res)
}

// UpdateResume godoc
// @Summary      Save résumé content
// @Description  Content passes through draft enhancement before storage. Setting status to completed validates the whole document and derives durations.
// @Tags         Resumes
// @Accept       json
// @Produce      json
// @Param        id path string true "Résumé ID"
// @Param        body body api.UpdateResumeRequest true "Content, role and status"
// @Success      200 {object} types.Resume
// @Failure      400 {object} api.ValidationResponse
// @Failure      401 {object} api.Response
// @Failure      404 {object} api.Response
// @Failure      502 {object} api.Response
// @Security     CookieAuth
// @Router       /resumes/{id} [put]
func (h *HandlerImpl) UpdateResume(w http.ResponseWriter, r *http.Request) {
	span, r := startSpanFromRequest(r, "UpdateResume", "/resumes/{id}")
	defer span.End()
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "UpdateResume"))

	userID, id, ok := h.callerAndResume(w, r)
	if !ok {
		return
	}
	var req api.UpdateResumeRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.resumeService.UpdateContent(ctx, userID, id, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		h.writeError(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Resume updated")
	api.WriteJSONResponse(w, r, http.StatusOK, res)
}

// AttachJobDescription godoc
// @Summary      Attach a job description
// @Description  Extracts keywords from the text, stores the description and links it to the résumé.
// @Tags         Resumes
// @Accept       json
// @Produce      json
// @Param        id path string true "Résumé ID"
// @Param        body body api.AttachJobDescriptionRequest true "Job description text"
// @Success      200 {object} types.JobDescription
// @Failure      400 {object} api.ValidationResponse
// @Failure      401 {object} api.Response
// @Failure      404 {object} api.Response
// @Failure      502 {object} api.Response
// @Security     CookieAuth
// @Router       /resumes/{id}/jd [post]
func (h *HandlerImpl) AttachJobDescription(w http.ResponseWriter, r *http.Request) {
	span, r := startSpanFromRequest(r, "AttachJobDescription", "/resumes/{id}/jd")
	defer span.End()
	ctx := r.Context()
	l := h.logger.With(slog.String("HandlerImpl", "AttachJobDescription"))

	userID, id, ok := h.callerAndResume(w, r)
	if !ok {
		return
	}
	var req api.AttachJobDescriptionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	jd, err := h.resumeService.AttachJobDescription(ctx, userID, id, req.Text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Attach failed")
		h.writeError(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Job description attached")
	api.WriteJSONResponse(w, r, http.StatusOK, jd)
}

// GetWizard godoc
// @Summary      Load a résumé into the wizard
// @Description  Returns the step configuration for the résumé's role and its content prepared for editing.
// @Tags         Resumes
// @Produce      json
// @Param        id path string true "Résumé ID"
// @Success      200 {object} api.WizardStateResponse
// @Failure      401 {object} api.Response
// @Failure      404 {object} api.Response
// @Security     CookieAuth
// @Router       /resumes/{id}/wizard [get]
func (h *HandlerImpl) GetWizard(w http.ResponseWriter, r *http.Request) {
	span, r := startSpanFromRequest(r, "GetWizard", "/resumes/{id}/wizard")
	defer span.End()

	userID, id, ok := h.callerAndResume(w, r)
	if !ok {
		return
	}
	state, err := h.resumeService.WizardState(r.Context(), userID, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Wizard load failed")
		h.writeError(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Wizard loaded")
	api.WriteJSONResponse(w, r, http.StatusOK, state)
}

// GetMatch godoc
// @Summary      Score a résumé against its job description
// @Tags         Resumes
// @Produce      json
// @Param        id path string true "Résumé ID"
// @Success      200 {object} types.MatchResult
// @Failure      401 {object} api.Response
// @Failure      404 {object} api.Response
// @Failure      502 {object} api.Response
// @Security     CookieAuth
// @Router       /resumes/{id}/match [get]
func (h *HandlerImpl) GetMatch(w http.ResponseWriter, r *http.Request) {
	span, r := startSpanFromRequest(r, "GetMatch", "/resumes/{id}/match")
	defer span.End()

	userID, id, ok := h.callerAndResume(w, r)
	if !ok {
		return
	}
	result, err := h.resumeService.MatchScore(r.Context(), userID, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Match failed")
		h.writeError(w, r, err)
		return
	}
	span.SetStatus(codes.Ok, "Match scored")
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

func (h *HandlerImpl) callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

// callerAndResume treats a malformed id like a missing résumé.
func (h *HandlerImpl) callerAndResume(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := h.callerID(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusNotFound, "Resume not found")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

func (h *HandlerImpl) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		api.ValidationErrorResponse(w, r, verr)
	case errors.Is(err, ErrNoJobDescription):
		api.ErrorResponse(w, r, http.StatusNotFound, "No job description linked to this resume")
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Resume not found")
	case errors.Is(err, types.ErrUpstream):
		api.ErrorResponse(w, r, http.StatusBadGateway, "Content service unavailable, please try again")
	default:
		h.logger.ErrorContext(r.Context(), "Resume request failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Internal Server Error")
	}
}
