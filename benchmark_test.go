package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FACorreiaa/go-resume-wizard/internal/api/forms"
	"github.com/FACorreiaa/go-resume-wizard/internal/api/wizard"
	"github.com/FACorreiaa/go-resume-wizard/internal/types"
)

var benchContent = json.RawMessage(`{
	"summary": {"years": "5 years", "strengths": "APIs"},
	"skills": {"core": "Go, PostgreSQL"},
	"experience": [{"company": "Acme", "title": "Eng", "startDate": "2020-01", "currentlyWorking": true, "responsibilities": ["Built APIs", "Ran on-call"]}],
	"education": [{"degree": "BSc", "institute": "MIT", "year": "2015"}]
}`)

func BenchmarkBuildSteps(b *testing.B) {
	now := time.Now()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		forms.BuildSteps("Product Designer", now)
	}
}

func BenchmarkParseAndFinalize(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		doc, err := wizard.Parse(benchContent)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := wizard.Finalize(doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFormsEndpoint(b *testing.B) {
	handler := newTestRouter(b, newMemStore())
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req := httptest.NewRequest(http.MethodGet, "/forms/resume?role=Backend%20Developer", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				b.Fatalf("unexpected status %d", rec.Code)
			}
		}
	})
}

func BenchmarkTransitionEndpoint(b *testing.B) {
	handler := newTestRouter(b, newMemStore())
	body, _ := json.Marshal(map[string]interface{}{
		"role": "Backend Developer", "currentStep": 2, "action": "next", "content": benchContent,
	})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/forms/resume/transition", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
		}
	}
}

func BenchmarkResumeSave(b *testing.B) {
	store := newMemStore()
	handler := newTestRouter(b, store)

	signUp, _ := json.Marshal(map[string]string{"name": "Bench", "email": "bench@example.com", "password": "Str0ngP@ss!"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/sign-up", bytes.NewReader(signUp)))
	if rec.Code != http.StatusOK {
		b.Fatalf("sign-up failed: %d", rec.Code)
	}
	cookies := rec.Result().Cookies()

	create, _ := json.Marshal(map[string]string{"role": "Backend Developer", "experienceLevel": "Mid-Level"})
	req := httptest.NewRequest(http.MethodPost, "/resumes", bytes.NewReader(create))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var created types.Resume
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		b.Fatal(err)
	}

	update, _ := json.Marshal(map[string]interface{}{"content": benchContent, "status": "completed", "role": "Backend Developer"})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPut, "/resumes/"+created.ID.String(), bytes.NewReader(update))
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
		}
	}
}
