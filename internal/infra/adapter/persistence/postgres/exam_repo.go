package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"deptsite/internal/domain/entity"
	"deptsite/internal/repository"
)

type ExamRepo struct{ db *sql.DB }

func NewExamRepo(db *sql.DB) repository.ExamRepository {
	return &ExamRepo{db: db}
}

const examColumns = `id, course_name, course_name_arabic, major, year_level, semester, exam_type, academic_year, pdf_key, uploaded_by, created_at`

func scanExam(rows *sql.Rows) (*entity.Exam, error) {
	var exam entity.Exam
	var arabic, uploadedBy sql.NullString
	if err := rows.Scan(
		&exam.ID, &exam.CourseName, &arabic,
		&exam.Major, &exam.YearLevel, &exam.Semester,
		&exam.ExamType, &exam.AcademicYear,
		&exam.PDFKey, &uploadedBy, &exam.CreatedAt,
	); err != nil {
		return nil, err
	}
	exam.CourseNameArabic = arabic.String
	exam.UploadedBy = uploadedBy.String
	return &exam, nil
}

func (repo *ExamRepo) Create(ctx context.Context, exam *entity.Exam) error {
	const query = `
INSERT INTO exams (course_name, course_name_arabic, major, year_level, semester, exam_type, academic_year, pdf_key, uploaded_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at`
	err := repo.db.QueryRowContext(ctx, query,
		exam.CourseName, nullIfEmpty(exam.CourseNameArabic),
		exam.Major, exam.YearLevel, exam.Semester,
		exam.ExamType, exam.AcademicYear,
		exam.PDFKey, nullIfEmpty(exam.UploadedBy),
	).Scan(&exam.ID, &exam.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ExamRepo) Get(ctx context.Context, id string) (*entity.Exam, error) {
	query := `
SELECT ` + examColumns + `
FROM exams
WHERE id = $1
LIMIT 1`
	var exam entity.Exam
	var arabic, uploadedBy sql.NullString
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&exam.ID, &exam.CourseName, &arabic,
		&exam.Major, &exam.YearLevel, &exam.Semester,
		&exam.ExamType, &exam.AcademicYear,
		&exam.PDFKey, &uploadedBy, &exam.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	exam.CourseNameArabic = arabic.String
	exam.UploadedBy = uploadedBy.String
	return &exam, nil
}

func (repo *ExamRepo) List(ctx context.Context, filter repository.ExamFilter) ([]*entity.Exam, error) {
	clause, args := buildExamWhereClause(filter)
	query := `
SELECT ` + examColumns + `
FROM exams` + clause + `
ORDER BY created_at DESC`

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	exams := make([]*entity.Exam, 0, 50)
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		exams = append(exams, exam)
	}
	return exams, rows.Err()
}

func (repo *ExamRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM exams WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
