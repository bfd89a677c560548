package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-resume-wizard/internal/api"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

func setupFormServiceTest() *FormServiceImpl {
	s := NewFormService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func stepIDs(steps []types.StepConfig) []string {
	ids := make([]string, 0, len(steps))
	for _, s := range steps {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestResolve(t *testing.T) {
	s := setupFormServiceTest()
	ctx := context.Background()
	base := []string{"summary", "skills", "experience", "projects", "education", "certifications", "review"}

	tests := []struct {
		role string
		want []string
	}{
		{role: "Backend Developer", want: base},
		{role: "", want: base},
		{role: "Product Designer", want: append([]string{"portfolio"}, base...)},
		{role: "UX Designer Lead", want: append([]string{"portfolio"}, base...)},
		{role: "product designer", want: base},
	}
	for _, tc := range tests {
		t.Run(tc.role, func(t *testing.T) {
			steps := s.Resolve(ctx, tc.role)
			assert.Equal(t, tc.want, stepIDs(steps))
			for _, step := range steps {
				for _, f := range step.Fields {
					assert.True(t, f.Kind.Valid(), "field %s", f.Name)
					assert.Equal(t, f.Kind == types.FieldArray, len(f.ArrayFields) > 0, "field %s", f.Name)
				}
			}
		})
	}
}

func TestResolveEducationYears(t *testing.T) {
	steps := setupFormServiceTest().Resolve(context.Background(), "Backend Developer")
	var year types.FieldConfig
	for _, step := range steps {
		if step.ID != "education" {
			continue
		}
		for _, f := range step.Fields[0].ArrayFields {
			if f.Name == "year" {
				year = f
			}
		}
	}
	require.Equal(t, types.FieldSelect, year.Kind)
	assert.Equal(t, "2030", year.Options[0])
	assert.Equal(t, "1980", year.Options[len(year.Options)-1])
	assert.Len(t, year.Options, 2030-1980+1)
}

func TestResolveIsCached(t *testing.T) {
	s := setupFormServiceTest()
	first := s.Resolve(context.Background(), "Backend Developer")
	second := s.Resolve(context.Background(), "Backend Developer")
	assert.Same(t, &first[0], &second[0])

	s.now = func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }
	third := s.Resolve(context.Background(), "Backend Developer")
	assert.NotSame(t, &first[0], &third[0], "a new year resolves new options")
}

func transition(t *testing.T, s FormService, req api.WizardTransitionRequest) (*api.WizardStateResponse, error) {
	t.Helper()
	return s.Transition(context.Background(), req)
}

func TestTransition(t *testing.T) {
	s := setupFormServiceTest()

	t.Run("next blocked by step errors", func(t *testing.T) {
		state, err := transition(t, s, api.WizardTransitionRequest{
			Role: "Backend Developer", CurrentStep: 2, Action: "next",
			Content: json.RawMessage(`{"experience":[{"company":"Acme"}]}`),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, state.CurrentStep)
		assert.Equal(t, "experience", state.StepID)
		assert.Equal(t, "Title is required", state.Errors["experience.0.title"])
		assert.Equal(t, "End date is required", state.Errors["experience.0.endDate"])
	})

	t.Run("next advances", func(t *testing.T) {
		state, err := transition(t, s, api.WizardTransitionRequest{
			Role: "Backend Developer", CurrentStep: 2, Action: "next",
			Content: json.RawMessage(`{"experience":[{"company":"Acme","title":"Dev","startDate":"2020-01","currentlyWorking":true}]}`),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, state.CurrentStep)
		assert.Empty(t, state.Errors)
		assert.Empty(t, state.Content.Projects, "sections the client left empty stay empty")
	})

	t.Run("back from first step stays", func(t *testing.T) {
		state, err := transition(t, s, api.WizardTransitionRequest{Role: "Product Designer", Action: "back"})
		require.NoError(t, err)
		assert.Equal(t, 0, state.CurrentStep)
		assert.Equal(t, "portfolio", state.StepID)
		assert.Equal(t, 8, state.TotalSteps)
	})

	t.Run("add and remove items", func(t *testing.T) {
		state, err := transition(t, s, api.WizardTransitionRequest{Action: "add", Section: "education", CurrentStep: 4})
		require.NoError(t, err)
		assert.Len(t, state.Content.Education, 1)

		content, _ := json.Marshal(state.Content)
		state, err = transition(t, s, api.WizardTransitionRequest{Action: "add", Section: "education", CurrentStep: 4, Content: content})
		require.NoError(t, err)
		assert.Len(t, state.Content.Education, 2)

		content, _ = json.Marshal(state.Content)
		state, err = transition(t, s, api.WizardTransitionRequest{Action: "remove", Section: "education", Index: 1, CurrentStep: 4, Content: content})
		require.NoError(t, err)
		assert.Len(t, state.Content.Education, 1)

		content, _ = json.Marshal(state.Content)
		state, err = transition(t, s, api.WizardTransitionRequest{Action: "remove", Section: "education", Index: 0, CurrentStep: 4, Content: content})
		require.NoError(t, err)
		assert.Empty(t, state.Content.Education)
	})

	t.Run("next with an emptied section advances", func(t *testing.T) {
		state, err := transition(t, s, api.WizardTransitionRequest{
			Role: "Backend Developer", CurrentStep: 2, Action: "next",
			Content: json.RawMessage(`{"experience":[]}`),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, state.CurrentStep)
		assert.Empty(t, state.Errors)
		assert.Empty(t, state.Content.Experience)
	})

	t.Run("submit without education", func(t *testing.T) {
		state, err := transition(t, s, api.WizardTransitionRequest{
			Role: "Backend Developer", CurrentStep: 6, Action: "next",
			Content: json.RawMessage(`{
				"experience":[{"company":"Acme","title":"Dev","startDate":"2020-01","currentlyWorking":true}],
				"education":[]
			}`),
		})
		require.NoError(t, err)
		assert.True(t, state.Submitted)
		assert.Empty(t, state.Errors)
		assert.Empty(t, state.Content.Education)
	})

	t.Run("submit drops untouched entries", func(t *testing.T) {
		state, err := transition(t, s, api.WizardTransitionRequest{
			Role: "Backend Developer", CurrentStep: 6, Action: "next",
			Content: json.RawMessage(`{"experience":[{}],"projects":[{}],"education":[{}]}`),
		})
		require.NoError(t, err)
		assert.True(t, state.Submitted)
		assert.Empty(t, state.Content.Experience)
		assert.Empty(t, state.Content.Projects)
		assert.Empty(t, state.Content.Education)
	})

	t.Run("submit on review", func(t *testing.T) {
		state, err := transition(t, s, api.WizardTransitionRequest{
			Role: "Backend Developer", CurrentStep: 6, Action: "next",
			Content: json.RawMessage(`{
				"experience":[{"company":"Acme","title":"Dev","startDate":"2020-01","currentlyWorking":true}],
				"projects":[{"title":"Wizard"}],
				"education":[{"degree":"BSc","institute":"MIT","year":"2018"}]
			}`),
		})
		require.NoError(t, err)
		assert.True(t, state.Submitted)
		assert.Equal(t, "2020-01 - Present", state.Content.Experience[0].Duration)
	})

	t.Run("invalid requests", func(t *testing.T) {
		var verr *types.ValidationError

		_, err := transition(t, s, api.WizardTransitionRequest{Action: "next", CurrentStep: 42})
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "currentStep")

		_, err = transition(t, s, api.WizardTransitionRequest{Action: "add", Section: "portfolio.main"})
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "section")

		_, err = transition(t, s, api.WizardTransitionRequest{Action: "remove", Section: "projects", Index: 5, CurrentStep: 3})
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "index")

		_, err = transition(t, s, api.WizardTransitionRequest{Action: "next", Content: json.RawMessage(`{"skills":"x"}`)})
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "skills")
	})
}

func TestFormHandlers(t *testing.T) {
	h := NewHandlerImpl(setupFormServiceTest(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("get form for designer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/forms/resume?role=Graphic+Designer", nil)
		rec := httptest.NewRecorder()
		h.GetResumeForm(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var steps []types.StepConfig
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &steps))
		assert.Equal(t, "portfolio", steps[0].ID)
		assert.Equal(t, "Review & Finish", steps[len(steps)-1].Title)
	})

	t.Run("transition rejects unknown action", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/forms/resume/transition", bytes.NewBufferString(`{"action":"jump"}`))
		rec := httptest.NewRecorder()
		h.Transition(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"action"`)
	})

	t.Run("transition returns state", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/forms/resume/transition",
			bytes.NewBufferString(`{"role":"Backend Developer","currentStep":0,"action":"next","content":{}}`))
		rec := httptest.NewRecorder()
		h.Transition(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var state api.WizardStateResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
		assert.Equal(t, 1, state.CurrentStep)
		assert.Equal(t, "skills", state.StepID)
	})
}
