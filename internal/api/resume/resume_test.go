package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-resume-wizard/internal/api"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/auth"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/forms"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/transform"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockResumeRepo struct {
	mock.Mock
}

func (m *MockResumeRepo) Create(ctx context.Context, params types.NewResume) (*types.Resume, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Resume), args.Error(1)
}

func (m *MockResumeRepo) Get(ctx context.Context, id, userID uuid.UUID) (*types.Resume, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Resume), args.Error(1)
}

func (m *MockResumeRepo) List(ctx context.Context, userID uuid.UUID, status types.ResumeStatus) ([]types.Resume, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Resume), args.Error(1)
}

func (m *MockResumeRepo) UpdateContent(ctx context.Context, id, userID uuid.UUID, content *types.ResumeDocument, status types.ResumeStatus) (*types.Resume, error) {
	args := m.Called(ctx, id, userID, content, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Resume), args.Error(1)
}

func (m *MockResumeRepo) Exists(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockResumeRepo) CreateJobDescription(ctx context.Context, userID uuid.UUID, text string, keywords []string) (*types.JobDescription, error) {
	args := m.Called(ctx, userID, text, keywords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.JobDescription), args.Error(1)
}

func (m *MockResumeRepo) LinkJobDescription(ctx context.Context, resumeID, userID, jobDescriptionID uuid.UUID) error {
	return m.Called(ctx, resumeID, userID, jobDescriptionID).Error(0)
}

func (m *MockResumeRepo) GetLinkedJobDescription(ctx context.Context, resumeID, userID uuid.UUID) (*types.JobDescription, error) {
	args := m.Called(ctx, resumeID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.JobDescription), args.Error(1)
}

func newTestService(repo ResumeRepo) *ResumeServiceImpl {
	return NewResumeService(repo, transform.NewMockTransformer(), forms.NewFormService(discardLogger()), discardLogger())
}

var resumeCols = []string{"id", "user_id", "title", "role", "experience_level", "target_role", "content", "status", "job_description_id", "created_at", "updated_at"}

func TestPostgresResumeRepo(t *testing.T) {
	ctx := context.Background()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()
	repo := NewPostgresResumeRepo(pool, discardLogger())

	owner := uuid.New()
	id := uuid.New()
	now := time.Now()

	t.Run("create", func(t *testing.T) {
		pool.ExpectQuery(regexp.QuoteMeta("INSERT INTO resumes")).
			WithArgs(owner, "Backend Developer Resume", "Backend Developer", "Mid-Level", "Backend Developer").
			WillReturnRows(pgxmock.NewRows(resumeCols).
				AddRow(id, owner, "Backend Developer Resume", "Backend Developer", "Mid-Level", "Backend Developer",
					[]byte(nil), "draft", (*uuid.UUID)(nil), now, now))

		res, err := repo.Create(ctx, types.NewResume{
			UserID: owner, Title: "Backend Developer Resume", Role: "Backend Developer",
			ExperienceLevel: "Mid-Level", TargetRole: "Backend Developer",
		})
		require.NoError(t, err)
		assert.Equal(t, types.ResumeStatusDraft, res.Status)
		assert.Nil(t, res.Content)
		assert.Nil(t, res.JobDescriptionID)
	})

	t.Run("get decodes string-wrapped content", func(t *testing.T) {
		wrapped, _ := json.Marshal(`{"experience":[{"company":"Acme","title":"Eng","startDate":"2020-01","currentlyWorking":true}]}`)
		pool.ExpectQuery(regexp.QuoteMeta(selectResumeQuery)).
			WithArgs(id, owner).
			WillReturnRows(pgxmock.NewRows(resumeCols).
				AddRow(id, owner, "T", "R", "L", "R", wrapped, "draft", (*uuid.UUID)(nil), now, now))

		res, err := repo.Get(ctx, id, owner)
		require.NoError(t, err)
		require.Len(t, res.Content.Experience, 1)
		assert.Equal(t, "Acme", res.Content.Experience[0].Company)
	})

	t.Run("get by another user is not found", func(t *testing.T) {
		stranger := uuid.New()
		pool.ExpectQuery(regexp.QuoteMeta(selectResumeQuery)).
			WithArgs(id, stranger).
			WillReturnRows(pgxmock.NewRows(resumeCols))

		_, err := repo.Get(ctx, id, stranger)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("list passes the status filter", func(t *testing.T) {
		older := now.Add(-time.Hour)
		pool.ExpectQuery(regexp.QuoteMeta("ORDER BY updated_at DESC")).
			WithArgs(owner, "completed").
			WillReturnRows(pgxmock.NewRows(resumeCols).
				AddRow(uuid.New(), owner, "A", "R", "L", "R", []byte(`{}`), "completed", (*uuid.UUID)(nil), now, now).
				AddRow(uuid.New(), owner, "B", "R", "L", "R", []byte(`{}`), "completed", (*uuid.UUID)(nil), older, older))

		resumes, err := repo.List(ctx, owner, types.ResumeStatusCompleted)
		require.NoError(t, err)
		require.Len(t, resumes, 2)
		assert.Equal(t, "A", resumes[0].Title)
	})

	t.Run("update scoped to owner", func(t *testing.T) {
		stranger := uuid.New()
		pool.ExpectQuery(regexp.QuoteMeta("UPDATE resumes")).
			WithArgs(id, stranger, pgxmock.AnyArg(), "completed").
			WillReturnRows(pgxmock.NewRows(resumeCols))

		_, err := repo.UpdateContent(ctx, id, stranger, &types.ResumeDocument{}, types.ResumeStatusCompleted)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("job description round trip", func(t *testing.T) {
		jdID := uuid.New()
		pool.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_descriptions")).
			WithArgs(owner, "React role", []byte(`["React"]`)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "text", "keywords", "created_at"}).
				AddRow(jdID, owner, "React role", []byte(`["React"]`), now))
		pool.ExpectExec(regexp.QuoteMeta("UPDATE resumes SET job_description_id")).
			WithArgs(id, owner, jdID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		pool.ExpectQuery(regexp.QuoteMeta("JOIN job_descriptions")).
			WithArgs(id, owner).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "text", "keywords", "created_at"}))

		jd, err := repo.CreateJobDescription(ctx, owner, "React role", []string{"React"})
		require.NoError(t, err)
		assert.Equal(t, []string{"React"}, jd.Keywords)
		require.NoError(t, repo.LinkJobDescription(ctx, id, owner, jdID))

		_, err = repo.GetLinkedJobDescription(ctx, id, owner)
		assert.ErrorIs(t, err, ErrNoJobDescription)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestCreateDraft(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()

	t.Run("defaults title and target role", func(t *testing.T) {
		repo := new(MockResumeRepo)
		want := types.NewResume{
			UserID: owner, Title: "Backend Developer Resume", Role: "Backend Developer",
			ExperienceLevel: "Mid-Level", TargetRole: "Backend Developer",
		}
		repo.On("Create", mock.Anything, want).Return(&types.Resume{ID: uuid.New(), Title: want.Title, TargetRole: want.TargetRole}, nil)

		res, err := newTestService(repo).CreateDraft(ctx, owner, api.CreateResumeRequest{Role: " Backend Developer ", ExperienceLevel: "Mid-Level"})
		require.NoError(t, err)
		assert.Equal(t, "Backend Developer Resume", res.Title)
		repo.AssertExpectations(t)
	})

	t.Run("explicit target role", func(t *testing.T) {
		repo := new(MockResumeRepo)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(p types.NewResume) bool { return p.TargetRole == "Staff Engineer" })).
			Return(&types.Resume{}, nil)

		_, err := newTestService(repo).CreateDraft(ctx, owner, api.CreateResumeRequest{Role: "Engineer", ExperienceLevel: "Senior", TargetRole: "Staff Engineer"})
		require.NoError(t, err)
	})

	t.Run("missing fields", func(t *testing.T) {
		repo := new(MockResumeRepo)
		_, err := newTestService(repo).CreateDraft(ctx, owner, api.CreateResumeRequest{Role: "Engineer"})
		var verr *types.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Role and Experience Level are required", verr.Message)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUpdateContent(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	id := uuid.New()

	t.Run("completing derives durations and enhances", func(t *testing.T) {
		repo := new(MockResumeRepo)
		var stored *types.ResumeDocument
		repo.On("UpdateContent", mock.Anything, id, owner, mock.Anything, types.ResumeStatusCompleted).
			Run(func(args mock.Arguments) { stored = args.Get(3).(*types.ResumeDocument) }).
			Return(&types.Resume{ID: id, Status: types.ResumeStatusCompleted}, nil)

		res, err := newTestService(repo).UpdateContent(ctx, owner, id, api.UpdateResumeRequest{
			Content: json.RawMessage(`{"experience":[{"company":"Acme","title":"Eng","startDate":"2020-01","currentlyWorking":true,"responsibilities":"Built APIs"}]}`),
			Status:  types.ResumeStatusCompleted,
			Role:    "Backend Developer",
		})
		require.NoError(t, err)
		assert.Equal(t, types.ResumeStatusCompleted, res.Status)
		require.NotNil(t, stored)
		assert.Equal(t, "2020-01 - Present", stored.Experience[0].Duration)
		assert.Equal(t, "2020-01", stored.Experience[0].StartDate)
		assert.Equal(t, types.TextBlock("• Built APIs (Enhanced by AI)"), stored.Experience[0].Responsibilities)
		assert.Contains(t, stored.Summary.Text, "Experienced Backend Developer")
	})

	t.Run("completing an invalid document stores nothing", func(t *testing.T) {
		repo := new(MockResumeRepo)
		_, err := newTestService(repo).UpdateContent(ctx, owner, id, api.UpdateResumeRequest{
			Content: json.RawMessage(`{"experience":[{"company":"Acme","title":"Eng","startDate":"2021-05","endDate":"2020-01"}]}`),
			Status:  types.ResumeStatusCompleted,
		})
		var verr *types.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "End date cannot be before start date", verr.Fields["experience.0.endDate"])
		repo.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("drafts skip full validation and keep status", func(t *testing.T) {
		repo := new(MockResumeRepo)
		repo.On("UpdateContent", mock.Anything, id, owner, mock.Anything, types.ResumeStatus("")).
			Return(&types.Resume{ID: id, Status: types.ResumeStatusDraft}, nil)

		_, err := newTestService(repo).UpdateContent(ctx, owner, id, api.UpdateResumeRequest{
			Content: json.RawMessage(`"{\"experience\":[{\"company\":\"Acme\"}]}"`),
		})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("missing content leaves the stored document alone", func(t *testing.T) {
		for _, raw := range []json.RawMessage{nil, json.RawMessage(`null`), json.RawMessage(`" "`)} {
			repo := new(MockResumeRepo)
			_, err := newTestService(repo).UpdateContent(ctx, owner, id, api.UpdateResumeRequest{
				Content: raw,
				Status:  types.ResumeStatusCompleted,
			})
			var verr *types.ValidationError
			require.ErrorAs(t, err, &verr, "content %q", raw)
			assert.Equal(t, "Content is required", verr.Fields["content"])
			repo.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("completing drops blank entries", func(t *testing.T) {
		repo := new(MockResumeRepo)
		var stored *types.ResumeDocument
		repo.On("UpdateContent", mock.Anything, id, owner, mock.Anything, types.ResumeStatusCompleted).
			Run(func(args mock.Arguments) { stored = args.Get(3).(*types.ResumeDocument) }).
			Return(&types.Resume{ID: id, Status: types.ResumeStatusCompleted}, nil)

		_, err := newTestService(repo).UpdateContent(ctx, owner, id, api.UpdateResumeRequest{
			Content: json.RawMessage(`{"projects":[{}],"education":[{"degree":" ","institute":"","year":""}]}`),
			Status:  types.ResumeStatusCompleted,
		})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Empty(t, stored.Projects)
		assert.Empty(t, stored.Education)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := newTestService(new(MockResumeRepo)).UpdateContent(ctx, owner, id, api.UpdateResumeRequest{Status: "archived"})
		var verr *types.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "status")
	})

	t.Run("foreign résumé", func(t *testing.T) {
		repo := new(MockResumeRepo)
		repo.On("UpdateContent", mock.Anything, id, owner, mock.Anything, mock.Anything).Return(nil, types.ErrNotFound)
		_, err := newTestService(repo).UpdateContent(ctx, owner, id, api.UpdateResumeRequest{Content: json.RawMessage(`{}`)})
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestAttachJobDescription(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	id := uuid.New()

	t.Run("extracts keywords and links", func(t *testing.T) {
		repo := new(MockResumeRepo)
		jdID := uuid.New()
		repo.On("Exists", mock.Anything, id, owner).Return(true, nil)
		repo.On("CreateJobDescription", mock.Anything, owner, "Senior React and Node.js engineer", []string{"React", "Node.js"}).
			Return(&types.JobDescription{ID: jdID, Keywords: []string{"React", "Node.js"}}, nil)
		repo.On("LinkJobDescription", mock.Anything, id, owner, jdID).Return(nil)

		jd, err := newTestService(repo).AttachJobDescription(ctx, owner, id, "  Senior React and Node.js engineer ")
		require.NoError(t, err)
		assert.Equal(t, []string{"React", "Node.js"}, jd.Keywords)
		repo.AssertExpectations(t)
	})

	t.Run("not owned", func(t *testing.T) {
		repo := new(MockResumeRepo)
		repo.On("Exists", mock.Anything, id, owner).Return(false, nil)

		_, err := newTestService(repo).AttachJobDescription(ctx, owner, id, "Go developer")
		assert.ErrorIs(t, err, types.ErrNotFound)
		repo.AssertNotCalled(t, "CreateJobDescription", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := newTestService(new(MockResumeRepo)).AttachJobDescription(ctx, owner, id, "   ")
		var verr *types.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "Job description text is required", verr.Message)
	})
}

func TestWizardStateAndMatch(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	id := uuid.New()
	repo := new(MockResumeRepo)
	stored := &types.Resume{ID: id, Role: "Product Designer", Content: &types.ResumeDocument{
		Skills: &types.Skills{Core: "Figma"},
	}}
	repo.On("Get", mock.Anything, id, owner).Return(stored, nil)
	repo.On("GetLinkedJobDescription", mock.Anything, id, owner).Return(&types.JobDescription{Text: "AWS"}, nil)
	s := newTestService(repo)

	state, err := s.WizardState(ctx, owner, id)
	require.NoError(t, err)
	assert.Equal(t, 0, state.CurrentStep)
	assert.Equal(t, "portfolio", state.StepID)
	assert.NotEmpty(t, state.Steps)
	assert.Len(t, state.Content.Experience, 1, "array sections get an editable entry")
	assert.Len(t, state.Content.Education, 1)
	assert.Nil(t, stored.Content.Experience, "stored résumé is untouched")

	match, err := s.MatchScore(ctx, owner, id)
	require.NoError(t, err)
	assert.Equal(t, 75, match.Score)
}

func TestMatchWithoutJobDescription(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()
	repo := new(MockResumeRepo)
	repo.On("Get", mock.Anything, id, owner).Return(&types.Resume{ID: id}, nil)
	repo.On("GetLinkedJobDescription", mock.Anything, id, owner).Return(nil, ErrNoJobDescription)

	h := NewHandlerImpl(newTestService(repo), discardLogger())
	rec := serve(h.GetMatch, http.MethodGet, "/resumes/{id}/match", "/resumes/"+id.String()+"/match", owner, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"No job description linked to this resume"}`, rec.Body.String())
}

// serve routes the request through chi so URL params resolve.
func serve(handler http.HandlerFunc, method, pattern, target string, userID uuid.UUID, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, handler)
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	if userID != uuid.Nil {
		req = req.WithContext(auth.WithSession(req.Context(), &types.Session{UserID: userID, ExpiresAt: time.Now().Add(time.Hour)}))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestResumeHandlers(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()
	repo := new(MockResumeRepo)
	repo.On("Get", mock.Anything, id, owner).Return(&types.Resume{ID: id, UserID: owner, Title: "Go Resume"}, nil)
	repo.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, types.ErrNotFound)
	repo.On("List", mock.Anything, owner, types.ResumeStatusDraft).Return([]types.Resume{}, nil)
	h := NewHandlerImpl(newTestService(repo), discardLogger())

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		method     string
		pattern    string
		target     string
		userID     uuid.UUID
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "get own", handler: h.GetResume, method: http.MethodGet, pattern: "/resumes/{id}", target: "/resumes/" + id.String(), userID: owner, wantStatus: http.StatusOK},
		{name: "get foreign", handler: h.GetResume, method: http.MethodGet, pattern: "/resumes/{id}", target: "/resumes/" + id.String(), userID: uuid.New(), wantStatus: http.StatusNotFound,
			wantBody: `{"success":false,"error":"Resume not found"}`},
		{name: "malformed id", handler: h.GetResume, method: http.MethodGet, pattern: "/resumes/{id}", target: "/resumes/nope", userID: owner, wantStatus: http.StatusNotFound},
		{name: "no session", handler: h.GetResume, method: http.MethodGet, pattern: "/resumes/{id}", target: "/resumes/" + id.String(), wantStatus: http.StatusUnauthorized},
		{name: "list drafts", handler: h.ListResumes, method: http.MethodGet, pattern: "/resumes", target: "/resumes?status=draft", userID: owner, wantStatus: http.StatusOK, wantBody: `[]`},
		{name: "list bad status", handler: h.ListResumes, method: http.MethodGet, pattern: "/resumes", target: "/resumes?status=archived", userID: owner, wantStatus: http.StatusBadRequest},
		{name: "create without level", handler: h.CreateResume, method: http.MethodPost, pattern: "/resumes", target: "/resumes", userID: owner,
			body: `{"role":"Engineer"}`, wantStatus: http.StatusBadRequest},
		{name: "update without content", handler: h.UpdateResume, method: http.MethodPut, pattern: "/resumes/{id}", target: "/resumes/" + id.String(), userID: owner,
			body: `{"status":"completed"}`, wantStatus: http.StatusBadRequest},
		{name: "attach without text", handler: h.AttachJobDescription, method: http.MethodPost, pattern: "/resumes/{id}/jd", target: "/resumes/" + id.String() + "/jd", userID: owner,
			body: `{"text":""}`, wantStatus: http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(tc.handler, tc.method, tc.pattern, tc.target, tc.userID, tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantBody != "" {
				assert.JSONEq(t, tc.wantBody, rec.Body.String())
			}
		})
	}
}
