package forms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-resume-wizard/internal/api"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/wizard"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

var _ FormService = (*FormServiceImpl)(nil)

// FormService resolves wizard configurations and applies stateless wizard
// transitions.
type FormService interface {
	Resolve(ctx context.Context, role string) []types.StepConfig
	Transition(ctx context.Context, req api.WizardTransitionRequest) (*api.WizardStateResponse, error)
}

type FormServiceImpl struct {
	cache  *cache.Cache
	now    func() time.Time
	logger *slog.Logger
}

func NewFormService(logger *slog.Logger) *FormServiceImpl {
	return &FormServiceImpl{
		cache:  cache.New(time.Hour, 10*time.Minute),
		now:    time.Now,
		logger: logger,
	}
}

// Resolve returns the steps for role. Results are cached per role and year;
// callers must not modify the returned configs.
func (s *FormServiceImpl) Resolve(ctx context.Context, role string) []types.StepConfig {
	_, span := otel.Tracer("FormService").Start(ctx, "Resolve", trace.WithAttributes(
		attribute.String("role", role),
	))
	defer span.End()

	now := s.now()
	cacheKey := strconv.Itoa(now.Year()) + ":" + role
	if cached, found := s.cache.Get(cacheKey); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.([]types.StepConfig)
	}

	steps := BuildSteps(role, now)
	s.cache.Set(cacheKey, steps, cache.DefaultExpiration)
	span.SetAttributes(attribute.Bool("cache.hit", false), attribute.Int("steps.count", len(steps)))
	return steps
}

// Transition rebuilds the wizard from the request and applies one action.
// A failed "next" is not an error: the state comes back unchanged with
// field errors attached.
func (s *FormServiceImpl) Transition(ctx context.Context, req api.WizardTransitionRequest) (*api.WizardStateResponse, error) {
	ctx, span := otel.Tracer("FormService").Start(ctx, "Transition", trace.WithAttributes(
		attribute.String("role", req.Role),
		attribute.String("action", req.Action),
		attribute.Int("current_step", req.CurrentStep),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "Transition"))

	doc, err := wizard.Parse(req.Content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid content")
		return nil, err
	}

	steps := s.Resolve(ctx, req.Role)
	w, err := wizard.Restore(steps, doc, req.CurrentStep)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid wizard state")
		return nil, asValidationError("currentStep", err)
	}

	var stepErrors map[string]string
	switch req.Action {
	case "next":
		if err := w.Next(); err != nil {
			var verr *types.ValidationError
			if !errors.As(err, &verr) {
				return nil, asValidationError("action", err)
			}
			stepErrors = verr.Fields
		}
	case "back":
		w.Back()
	case "add":
		if err := w.AddArrayItem(req.Section); err != nil {
			return nil, asValidationError("section", err)
		}
	case "remove":
		if err := w.RemoveArrayItem(req.Section, req.Index); err != nil {
			field := "section"
			if errors.Is(err, wizard.ErrItemOutOfRange) {
				field = "index"
			}
			return nil, asValidationError(field, err)
		}
	default:
		return nil, asValidationError("action", fmt.Errorf("unsupported action %q", req.Action))
	}

	l.DebugContext(ctx, "Wizard transition applied",
		slog.String("action", req.Action),
		slog.Int("current_step", w.Current()),
		slog.Bool("submitted", w.Submitted()),
		slog.Int("errors", len(stepErrors)))
	span.SetStatus(codes.Ok, "Transition applied")

	state := NewState(w, false)
	state.Errors = stepErrors
	return &state, nil
}

// NewState renders a wizard for the API.
func NewState(w *wizard.Wizard, includeSteps bool) api.WizardStateResponse {
	state := api.WizardStateResponse{
		CurrentStep: w.Current(),
		StepID:      w.Step().ID,
		TotalSteps:  len(w.Steps()),
		Content:     w.Document(),
		Submitted:   w.Submitted(),
	}
	if includeSteps {
		state.Steps = w.Steps()
	}
	return state
}

func asValidationError(field string, err error) error {
	verr := types.NewValidationError("invalid wizard transition")
	verr.Add(field, err.Error())
	return verr
}
