package exams

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"deptsite/internal/domain/entity"
	"deptsite/internal/repository"
	examUC "deptsite/internal/usecase/exam"
)

func TestList_MapsQueryToFilter(t *testing.T) {
	repo := &fakeRepo{listResult: []*entity.Exam{
		{ID: "exam-1", CourseName: "Media Ethics", Major: "journalism"},
	}}
	h := ListHandler{Svc: &examUC.Service{Repo: repo, Blobs: &fakeBlobs{}}}

	req := httptest.NewRequest(http.MethodGet,
		"/api/exams?major=journalism&yearLevel=2&semester=semester1&examType=final&academicYear=2025-2026&q=ethics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	want := repository.ExamFilter{
		Major:        "journalism",
		YearLevel:    "2",
		Semester:     "semester1",
		ExamType:     "final",
		AcademicYear: "2025-2026",
		Keyword:      "ethics",
	}
	if repo.listFilter != want {
		t.Errorf("filter = %+v, want %+v", repo.listFilter, want)
	}

	var body struct {
		Exams []DTO `json:"exams"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Exams) != 1 || body.Exams[0].ID != "exam-1" {
		t.Errorf("exams = %+v", body.Exams)
	}
}

func TestList_EmptyResult(t *testing.T) {
	h := ListHandler{Svc: &examUC.Service{Repo: &fakeRepo{}, Blobs: &fakeBlobs{}}}

	req := httptest.NewRequest(http.MethodGet, "/api/exams", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !json.Valid([]byte(body)) {
		t.Errorf("body %q is not valid JSON", body)
	}

	var body struct {
		Exams []DTO `json:"exams"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Exams == nil || len(body.Exams) != 0 {
		t.Errorf("exams = %v, want empty array not null", body.Exams)
	}
}

func TestDownload_Redirects(t *testing.T) {
	repo := &fakeRepo{getResult: &entity.Exam{ID: "exam-1", PDFKey: "exams/abc.pdf"}}
	h := DownloadHandler{Svc: &examUC.Service{Repo: repo, Blobs: &fakeBlobs{}}}

	req := httptest.NewRequest(http.MethodGet, "/api/exams/exam-1/download", nil)
	req.SetPathValue("id", "exam-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://blobs.example.edu/exams/abc.pdf?sig=abc" {
		t.Errorf("Location = %q", loc)
	}
}

func TestDownload_NotFound(t *testing.T) {
	h := DownloadHandler{Svc: &examUC.Service{Repo: &fakeRepo{}, Blobs: &fakeBlobs{}}}

	req := httptest.NewRequest(http.MethodGet, "/api/exams/missing/download", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
