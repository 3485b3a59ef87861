package repository

import (
	"context"

	"deptsite/internal/domain/entity"
)

// ExamFilter narrows an exam listing. Zero values mean "any"; Keyword does
// a case-insensitive substring match over course names.
type ExamFilter struct {
	Major        string
	YearLevel    string
	Semester     string
	ExamType     string
	AcademicYear string
	Keyword      string
}

type ExamRepository interface {
	// Create persists an exam record and fills in its generated ID and
	// creation time.
	Create(ctx context.Context, exam *entity.Exam) error

	// Get returns an exam by ID, or nil when none exists.
	Get(ctx context.Context, id string) (*entity.Exam, error)

	// List returns exams matching the filter, newest first.
	List(ctx context.Context, filter ExamFilter) ([]*entity.Exam, error)

	// Delete removes an exam record.
	Delete(ctx context.Context, id string) error
}
