package exams

import (
	"errors"
	"net/http"

	"deptsite/internal/handler/http/respond"
	"deptsite/internal/repository"
	examUC "deptsite/internal/usecase/exam"
)

// ListHandler serves the public exam archive listing.
type ListHandler struct {
	Svc *examUC.Service
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ExamFilter{
		Major:        q.Get("major"),
		YearLevel:    q.Get("yearLevel"),
		Semester:     q.Get("semester"),
		ExamType:     q.Get("examType"),
		AcademicYear: q.Get("academicYear"),
		Keyword:      q.Get("q"),
	}

	exams, err := h.Svc.List(r.Context(), filter)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(exams))
	for _, ex := range exams {
		dtos = append(dtos, toDTO(ex))
	}
	respond.JSON(w, http.StatusOK, map[string]any{"exams": dtos})
}

// DownloadHandler redirects to a time-limited URL for the exam's PDF.
type DownloadHandler struct {
	Svc *examUC.Service
}

func (h DownloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	_, url, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, examUC.ErrExamNotFound) {
			respond.SafeError(w, http.StatusNotFound, errors.New("exam not found"))
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}
