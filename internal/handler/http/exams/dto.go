// Package exams provides the HTTP endpoints for the exam archive: the
// public filterable listing and the admin upload surface.
package exams

import (
	"time"

	"deptsite/internal/domain/entity"
)

// DTO is the JSON shape of an exam record.
type DTO struct {
	ID               string    `json:"id"`
	CourseName       string    `json:"courseName"`
	CourseNameArabic string    `json:"courseNameArabic,omitempty"`
	Major            string    `json:"major"`
	YearLevel        string    `json:"yearLevel"`
	Semester         string    `json:"semester"`
	ExamType         string    `json:"examType"`
	AcademicYear     string    `json:"academicYear"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toDTO(ex *entity.Exam) DTO {
	return DTO{
		ID:               ex.ID,
		CourseName:       ex.CourseName,
		CourseNameArabic: ex.CourseNameArabic,
		Major:            ex.Major,
		YearLevel:        ex.YearLevel,
		Semester:         ex.Semester,
		ExamType:         ex.ExamType,
		AcademicYear:     ex.AcademicYear,
		CreatedAt:        ex.CreatedAt,
	}
}
