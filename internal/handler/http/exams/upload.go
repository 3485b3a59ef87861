package exams

import (
	"errors"
	"net/http"

	"deptsite/internal/domain/entity"
	httpapi "deptsite/internal/handler/http"
	"deptsite/internal/handler/http/respond"
	"deptsite/internal/service/auth"
	examUC "deptsite/internal/usecase/exam"
)

// parseMemoryLimit is how much of a multipart body ParseMultipartForm keeps
// in memory; the rest spills to temp files. The overall size ceiling is
// enforced upstream by the size limit middleware.
const parseMemoryLimit = 1 << 20

// UploadHandler accepts an admin exam upload: metadata form fields plus the
// PDF under the "file" part.
type UploadHandler struct {
	Svc *examUC.Service
}

func (h UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(parseMemoryLimit); err != nil {
		httpapi.RecordExamUpload(false)
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("request must be multipart/form-data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httpapi.RecordExamUpload(false)
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	in := examUC.UploadInput{
		Metadata: entity.ExamInput{
			CourseName:       r.FormValue("courseName"),
			CourseNameArabic: r.FormValue("courseNameArabic"),
			Major:            r.FormValue("major"),
			YearLevel:        r.FormValue("yearLevel"),
			Semester:         r.FormValue("semester"),
			ExamType:         r.FormValue("examType"),
			AcademicYear:     r.FormValue("academicYear"),
		},
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		File:        file,
	}
	if session := auth.SessionFromContext(r.Context()); session != nil {
		in.UploadedBy = session.UserID
	}

	ex, pdfURL, err := h.Svc.Upload(r.Context(), in)
	if err != nil {
		httpapi.RecordExamUpload(false)

		var verrs entity.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]respond.FieldDetail, 0, len(verrs))
			for _, ve := range verrs {
				details = append(details, respond.FieldDetail{Field: ve.Field, Message: ve.Message})
			}
			respond.ValidationError(w, details)
			return
		}
		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			respond.ValidationError(w, []respond.FieldDetail{
				{Field: verr.Field, Message: verr.Message},
			})
			return
		}

		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	httpapi.RecordExamUpload(true)
	respond.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"exam":    toDTO(ex),
		"pdfUrl":  pdfURL,
	})
}

// DeleteHandler removes an exam record and its stored PDF.
type DeleteHandler struct {
	Svc *examUC.Service
}

func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := h.Svc.Delete(r.Context(), id)
	switch {
	case err == nil:
		respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, examUC.ErrExamNotFound):
		respond.SafeError(w, http.StatusNotFound, errors.New("exam not found"))
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
