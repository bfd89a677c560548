package resume

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-resume-wizard/app/db"
	"github.com/FACorreiaa/go-resume-wizard/app/observability/metrics"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

var _ ResumeRepo = (*PostgresResumeRepo)(nil)

// ErrNoJobDescription is returned when a résumé has no linked job description.
var ErrNoJobDescription = fmt.Errorf("no linked job description: %w", types.ErrNotFound)

// ResumeRepo persists résumés and job descriptions. Every résumé query is
// scoped by owner, so a row owned by someone else reads as not found.
type ResumeRepo interface {
	Create(ctx context.Context, params types.NewResume) (*types.Resume, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*types.Resume, error)
	List(ctx context.Context, userID uuid.UUID, status types.ResumeStatus) ([]types.Resume, error)
	// UpdateContent stores content and, when status is non-empty, the status.
	UpdateContent(ctx context.Context, id, userID uuid.UUID, content *types.ResumeDocument, status types.ResumeStatus) (*types.Resume, error)
	Exists(ctx context.Context, id, userID uuid.UUID) (bool, error)

	CreateJobDescription(ctx context.Context, userID uuid.UUID, text string, keywords []string) (*types.JobDescription, error)
	LinkJobDescription(ctx context.Context, resumeID, userID, jobDescriptionID uuid.UUID) error
	GetLinkedJobDescription(ctx context.Context, resumeID, userID uuid.UUID) (*types.JobDescription, error)
}

const resumeColumns = `id, user_id, title, role, experience_level, target_role, content, status, job_description_id, created_at, updated_at`

const (
	insertResumeQuery = `
		INSERT INTO resumes (user_id, title, role, experience_level, target_role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + resumeColumns
	selectResumeQuery = `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND user_id = $2`
	listResumesQuery  = `
		SELECT ` + resumeColumns + `
		FROM resumes
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY updated_at DESC`
	updateContentQuery = `
		UPDATE resumes
		SET content = $3, status = COALESCE(NULLIF($4, ''), status), updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + resumeColumns
	resumeExistsQuery = `SELECT EXISTS (SELECT 1 FROM resumes WHERE id = $1 AND user_id = $2)`

	insertJobDescriptionQuery = `
		INSERT INTO job_descriptions (user_id, text, keywords)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, text, keywords, created_at`
	linkJobDescriptionQuery = `
		UPDATE resumes SET job_description_id = $3, updated_at = now()
		WHERE id = $1 AND user_id = $2`
	selectLinkedJobDescriptionQuery = `
		SELECT jd.id, jd.user_id, jd.text, jd.keywords, jd.created_at
		FROM resumes r
		JOIN job_descriptions jd ON jd.id = r.job_description_id
		WHERE r.id = $1 AND r.user_id = $2`
)

type PostgresResumeRepo struct {
	pgpool database.Querier
	logger *slog.Logger
}

func NewPostgresResumeRepo(pgpool database.Querier, logger *slog.Logger) *PostgresResumeRepo {
	return &PostgresResumeRepo{
		pgpool: pgpool,
		logger: logger,
	}
}

func startSpan(ctx context.Context, op, table string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", op),
		attribute.String("db.sql.table", table),
	)
	return otel.Tracer("ResumeRepo").Start(ctx, op, trace.WithAttributes(attrs...))
}

func (r *PostgresResumeRepo) queryFailed(ctx context.Context, span trace.Span, op string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")
	metrics.Get().DbQueryErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("query", op)))
	r.logger.ErrorContext(ctx, "Database query failed", slog.String("method", op), slog.Any("error", err))
}

// scanResume decodes the JSONB content with the same tolerant decoder used
// for request bodies, so legacy rows holding a JSON string still load.
func scanResume(row pgx.Row) (*types.Resume, error) {
	var (
		res     types.Resume
		content []byte
		status  string
	)
	err := row.Scan(&res.ID, &res.UserID, &res.Title, &res.Role, &res.ExperienceLevel, &res.TargetRole,
		&content, &status, &res.JobDescriptionID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	res.Status = types.ResumeStatus(status)
	if len(content) > 0 {
		doc, err := types.DecodeDocument(content)
		if err != nil {
			return nil, fmt.Errorf("resume %s has unreadable content: %w", res.ID, err)
		}
		res.Content = doc
	}
	return &res, nil
}

func scanJobDescription(row pgx.Row) (*types.JobDescription, error) {
	var (
		jd       types.JobDescription
		keywords []byte
	)
	if err := row.Scan(&jd.ID, &jd.UserID, &jd.Text, &keywords, &jd.CreatedAt); err != nil {
		return nil, err
	}
	jd.Keywords = []string{}
	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &jd.Keywords); err != nil {
			return nil, fmt.Errorf("job description %s has unreadable keywords: %w", jd.ID, err)
		}
	}
	return &jd, nil
}

func (r *PostgresResumeRepo) Create(ctx context.Context, params types.NewResume) (*types.Resume, error) {
	ctx, span := startSpan(ctx, "CreateResume", "resumes", attribute.String("db.user.id", params.UserID.String()))
	defer span.End()

	res, err := scanResume(r.pgpool.QueryRow(ctx, insertResumeQuery,
		params.UserID, params.Title, params.Role, params.ExperienceLevel, params.TargetRole))
	if err != nil {
		r.queryFailed(ctx, span, "CreateResume", err)
		return nil, fmt.Errorf("failed to insert resume: %w", err)
	}
	span.SetAttributes(attribute.String("db.resume.id", res.ID.String()))
	span.SetStatus(codes.Ok, "Resume created")
	return res, nil
}

func (r *PostgresResumeRepo) Get(ctx context.Context, id, userID uuid.UUID) (*types.Resume, error) {
	ctx, span := startSpan(ctx, "GetResume", "resumes", attribute.String("db.resume.id", id.String()))
	defer span.End()

	res, err := scanResume(r.pgpool.QueryRow(ctx, selectResumeQuery, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Resume not found")
			return nil, fmt.Errorf("resume %s: %w", id, types.ErrNotFound)
		}
		r.queryFailed(ctx, span, "GetResume", err)
		return nil, fmt.Errorf("failed to fetch resume: %w", err)
	}
	span.SetStatus(codes.Ok, "Resume found")
	return res, nil
}

func (r *PostgresResumeRepo) List(ctx context.Context, userID uuid.UUID, status types.ResumeStatus) ([]types.Resume, error) {
	ctx, span := startSpan(ctx, "ListResumes", "resumes",
		attribute.String("db.user.id", userID.String()),
		attribute.String("db.filter.status", string(status)),
	)
	defer span.End()

	rows, err := r.pgpool.Query(ctx, listResumesQuery, userID, string(status))
	if err != nil {
		r.queryFailed(ctx, span, "ListResumes", err)
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []types.Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			r.queryFailed(ctx, span, "ListResumes", err)
			return nil, fmt.Errorf("failed to scan resume row: %w", err)
		}
		resumes = append(resumes, *res)
	}
	if err := rows.Err(); err != nil {
		r.queryFailed(ctx, span, "ListResumes", err)
		return nil, fmt.Errorf("error iterating resume rows: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows_returned", len(resumes)))
	span.SetStatus(codes.Ok, "Resumes listed")
	return resumes, nil
}

func (r *PostgresResumeRepo) UpdateContent(ctx context.Context, id, userID uuid.UUID, content *types.ResumeDocument, status types.ResumeStatus) (*types.Resume, error) {
	ctx, span := startSpan(ctx, "UpdateResumeContent", "resumes", attribute.String("db.resume.id", id.String()))
	defer span.End()

	payload, err := json.Marshal(content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Marshal failed")
		return nil, fmt.Errorf("failed to encode resume content: %w", err)
	}

	res, err := scanResume(r.pgpool.QueryRow(ctx, updateContentQuery, id, userID, payload, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "Resume not found")
			return nil, fmt.Errorf("resume %s: %w", id, types.ErrNotFound)
		}
		r.queryFailed(ctx, span, "UpdateResumeContent", err)
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	span.SetStatus(codes.Ok, "Resume updated")
	return res, nil
}

func (r *PostgresResumeRepo) Exists(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	ctx, span := startSpan(ctx, "ResumeExists", "resumes", attribute.String("db.resume.id", id.String()))
	defer span.End()

	var exists bool
	if err := r.pgpool.QueryRow(ctx, resumeExistsQuery, id, userID).Scan(&exists); err != nil {
		r.queryFailed(ctx, span, "ResumeExists", err)
		return false, fmt.Errorf("failed to check resume ownership: %w", err)
	}
	span.SetStatus(codes.Ok, "Ownership checked")
	return exists, nil
}

func (r *PostgresResumeRepo) CreateJobDescription(ctx context.Context, userID uuid.UUID, text string, keywords []string) (*types.JobDescription, error) {
	ctx, span := startSpan(ctx, "CreateJobDescription", "job_descriptions", attribute.Int("keywords.count", len(keywords)))
	defer span.End()

	if keywords == nil {
		keywords = []string{}
	}
	payload, err := json.Marshal(keywords)
	if err != nil {
		return nil, fmt.Errorf("failed to encode keywords: %w", err)
	}

	jd, err := scanJobDescription(r.pgpool.QueryRow(ctx, insertJobDescriptionQuery, userID, text, payload))
	if err != nil {
		r.queryFailed(ctx, span, "CreateJobDescription", err)
		return nil, fmt.Errorf("failed to insert job description: %w", err)
	}
	span.SetStatus(codes.Ok, "Job description created")
	return jd, nil
}

func (r *PostgresResumeRepo) LinkJobDescription(ctx context.Context, resumeID, userID, jobDescriptionID uuid.UUID) error {
	ctx, span := startSpan(ctx, "LinkJobDescription", "resumes", attribute.String("db.resume.id", resumeID.String()))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, linkJobDescriptionQuery, resumeID, userID, jobDescriptionID)
	if err != nil {
		r.queryFailed(ctx, span, "LinkJobDescription", err)
		return fmt.Errorf("failed to link job description: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Resume not found")
		return fmt.Errorf("resume %s: %w", resumeID, types.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "Job description linked")
	return nil
}

func (r *PostgresResumeRepo) GetLinkedJobDescription(ctx context.Context, resumeID, userID uuid.UUID) (*types.JobDescription, error) {
	ctx, span := startSpan(ctx, "GetLinkedJobDescription", "job_descriptions", attribute.String("db.resume.id", resumeID.String()))
	defer span.End()

	jd, err := scanJobDescription(r.pgpool.QueryRow(ctx, selectLinkedJobDescriptionQuery, resumeID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "No linked job description")
			return nil, fmt.Errorf("resume %s: %w", resumeID, ErrNoJobDescription)
		}
		r.queryFailed(ctx, span, "GetLinkedJobDescription", err)
		return nil, fmt.Errorf("failed to fetch job description: %w", err)
	}
	span.SetStatus(codes.Ok, "Job description found")
	return jd, nil
}
