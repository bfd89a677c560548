package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-resume-wizard/app/observability/metrics"
	"github.com/FACorreiaa/go-resume-wizard/internal/api"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/forms"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/transform"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/wizard"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

const defaultEnhanceRole = "Professional"

var _ ResumeService = (*ResumeServiceImpl)(nil)

type ResumeService interface {
	CreateDraft(ctx context.Context, userID uuid.UUID, req api.CreateResumeRequest) (*types.Resume, error)
	GetResume(ctx context.Context, userID, id uuid.UUID) (*types.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID, status string) ([]types.Resume, error)
	UpdateContent(ctx context.Context, userID, id uuid.UUID, req api.UpdateResumeRequest) (*types.Resume, error)
	AttachJobDescription(ctx context.Context, userID, id uuid.UUID, text string) (*types.JobDescription, error)
	WizardState(ctx context.Context, userID, id uuid.UUID) (*api.WizardStateResponse, error)
	MatchScore(ctx context.Context, userID, id uuid.UUID) (*types.MatchResult, error)
}

type ResumeServiceImpl struct {
	repo        ResumeRepo
	transformer transform.Transformer
	forms       forms.FormService
	logger      *slog.Logger
}

func NewResumeService(repo ResumeRepo, transformer transform.Transformer, formService forms.FormService, logger *slog.Logger) *ResumeServiceImpl {
	return &ResumeServiceImpl{
		repo:        repo,
		transformer: transformer,
		forms:       formService,
		logger:      logger,
	}
}

func (s *ResumeServiceImpl) CreateDraft(ctx context.Context, userID uuid.UUID, req api.CreateResumeRequest) (*types.Resume, error) {
	ctx, span := otel.Tracer("ResumeService").Start(ctx, "CreateDraft", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "CreateDraft"), slog.String("userID", userID.String()))

	role := strings.TrimSpace(req.Role)
	level := strings.TrimSpace(req.ExperienceLevel)
	if role == "" || level == "" {
		verr := types.NewValidationError("Role and Experience Level are required")
		if role == "" {
			verr.Add("role", "Role is required")
		}
		if level == "" {
			verr.Add("experienceLevel", "Experience level is required")
		}
		span.SetStatus(codes.Error, "Missing fields")
		return nil, verr
	}
	target := strings.TrimSpace(req.TargetRole)
	if target == "" {
		target = role
	}

	res, err := s.repo.Create(ctx, types.NewResume{
		UserID:          userID,
		Title:           role + " Resume",
		Role:            role,
		ExperienceLevel: level,
		TargetRole:      target,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		return nil, err
	}
	l.InfoContext(ctx, "Resume draft created", slog.String("resumeID", res.ID.String()))
	span.SetStatus(codes.Ok, "Draft created")
	return res, nil
}

func (s *ResumeServiceImpl) GetResume(ctx context.Context, userID, id uuid.UUID) (*types.Resume, error) {
	ctx, span := otel.Tracer("ResumeService").Start(ctx, "GetResume", trace.WithAttributes(
		attribute.String("resume.id", id.String()),
	))
	defer span.End()

	res, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Get failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "Resume fetched")
	return res, nil
}

func (s *ResumeServiceImpl) ListResumes(ctx context.Context, userID uuid.UUID, status string) ([]types.Resume, error) {
	ctx, span := otel.Tracer("ResumeService").Start(ctx, "ListResumes", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("filter.status", status),
	))
	defer span.End()

	filter, err := parseStatus(status)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid status")
		return nil, err
	}
	resumes, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "List failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("resumes.count", len(resumes)))
	span.SetStatus(codes.Ok, "Resumes listed")
	return resumes, nil
}

// UpdateContent parses the submitted document, finalizes it when the
// résumé is being completed, runs draft enhancement and stores the result.
func (s *ResumeServiceImpl) UpdateContent(ctx context.Context, userID, id uuid.UUID, req api.UpdateResumeRequest) (*types.Resume, error) {
	ctx, span := otel.Tracer("ResumeService").Start(ctx, "UpdateContent", trace.WithAttributes(
		attribute.String("resume.id", id.String()),
		attribute.String("resume.status", string(req.Status)),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "UpdateContent"), slog.String("resumeID", id.String()))

	status, err := parseStatus(string(req.Status))
	if err != nil {
		span.SetStatus(codes.Error, "Invalid status")
		return nil, err
	}
	if missingContent(req.Content) {
		span.SetStatus(codes.Error, "Missing content")
		verr := types.NewValidationError("validation failed")
		verr.Add("content", "Content is required")
		return nil, verr
	}

	doc, err := wizard.Parse(req.Content)
	if err != nil {
		span.SetStatus(codes.Error, "Invalid content")
		return nil, err
	}
	if status == types.ResumeStatusCompleted {
		if doc, err = wizard.Finalize(doc); err != nil {
			span.SetStatus(codes.Error, "Submission validation failed")
			return nil, err
		}
	} else {
		doc = wizard.Normalize(doc)
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = defaultEnhanceRole
	}
	enhanced, err := s.transformer.EnhanceDraft(ctx, doc, role)
	if err != nil {
		l.WarnContext(ctx, "Draft enhancement failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Enhancement failed")
		return nil, err
	}

	res, err := s.repo.UpdateContent(ctx, id, userID, enhanced, status)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Update failed")
		return nil, err
	}
	metrics.Get().ResumeSavesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(res.Status))))
	l.InfoContext(ctx, "Resume content saved", slog.String("status", string(res.Status)))
	span.SetStatus(codes.Ok, "Resume updated")
	return res, nil
}

// AttachJobDescription requires the caller to own the résumé before the
// description is stored. Insert and link are separate statements; a failure
// between them leaves an unlinked description behind.
func (s *ResumeServiceImpl) AttachJobDescription(ctx context.Context, userID, id uuid.UUID, text string) (*types.JobDescription, error) {
	ctx, span := otel.Tracer("ResumeService").Start(ctx, "AttachJobDescription", trace.WithAttributes(
		attribute.String("resume.id", id.String()),
	))
	defer span.End()
	l := s.logger.With(slog.String("method", "AttachJobDescription"), slog.String("resumeID", id.String()))

	text = strings.TrimSpace(text)
	if text == "" {
		verr := types.NewValidationError("Job description text is required")
		verr.Add("text", "Job description text is required")
		span.SetStatus(codes.Error, "Missing text")
		return nil, verr
	}

	owned, err := s.repo.Exists(ctx, id, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Ownership check failed")
		return nil, err
	}
	if !owned {
		span.SetStatus(codes.Error, "Resume not found")
		return nil, fmt.Errorf("resume %s: %w", id, types.ErrNotFound)
	}

	keywords, err := s.transformer.ExtractKeywords(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Keyword extraction failed")
		return nil, err
	}

	jd, err := s.repo.CreateJobDescription(ctx, userID, text, keywords)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Insert failed")
		return nil, err
	}
	if err := s.repo.LinkJobDescription(ctx, id, userID, jd.ID); err != nil {
		l.ErrorContext(ctx, "Job description stored but not linked",
			slog.String("jobDescriptionID", jd.ID.String()), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Link failed")
		return nil, err
	}

	l.InfoContext(ctx, "Job description attached",
		slog.String("jobDescriptionID", jd.ID.String()), slog.Int("keywords", len(keywords)))
	span.SetStatus(codes.Ok, "Job description attached")
	return jd, nil
}

// WizardState loads a stored résumé into a new wizard at its first step.
func (s *ResumeServiceImpl) WizardState(ctx context.Context, userID, id uuid.UUID) (*api.WizardStateResponse, error) {
	ctx, span := otel.Tracer("ResumeService").Start(ctx, "WizardState", trace.WithAttributes(
		attribute.String("resume.id", id.String()),
	))
	defer span.End()

	res, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Get failed")
		return nil, err
	}

	w, err := wizard.New(s.forms.Resolve(ctx, res.Role), res.Content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Wizard setup failed")
		return nil, fmt.Errorf("failed to load wizard for resume %s: %w", id, err)
	}
	state := forms.NewState(w, true)
	span.SetStatus(codes.Ok, "Wizard state built")
	return &state, nil
}

// MatchScore compares the résumé with its linked job description. Both are
// loaded concurrently.
func (s *ResumeServiceImpl) MatchScore(ctx context.Context, userID, id uuid.UUID) (*types.MatchResult, error) {
	ctx, span := otel.Tracer("ResumeService").Start(ctx, "MatchScore", trace.WithAttributes(
		attribute.String("resume.id", id.String()),
	))
	defer span.End()

	var (
		res *types.Resume
		jd  *types.JobDescription
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = s.repo.Get(gctx, id, userID)
		return err
	})
	g.Go(func() error {
		var err error
		jd, err = s.repo.GetLinkedJobDescription(gctx, id, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Load failed")
		return nil, err
	}

	result, err := s.transformer.MatchScore(ctx, wizard.Normalize(res.Content), jd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Match failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("match.score", result.Score))
	span.SetStatus(codes.Ok, "Match scored")
	return result, nil
}

func parseStatus(raw string) (types.ResumeStatus, error) {
	status := types.ResumeStatus(strings.TrimSpace(raw))
	if status == "" || status.Valid() {
		return status, nil
	}
	verr := types.NewValidationError("validation failed")
	verr.Add("status", "Status must be draft or completed")
	return "", verr
}


// missingContent reports an absent, null or empty-string content field. An
// empty object is a real document and is accepted.
func missingContent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return true
	}
	var wrapped string
	if raw[0] == '"' && json.Unmarshal(raw, &wrapped) == nil {
		return strings.TrimSpace(wrapped) == ""
	}
	return false
}
