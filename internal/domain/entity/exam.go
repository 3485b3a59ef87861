package entity

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxExamFileBytes is the ceiling for an uploaded exam PDF.
const MaxExamFileBytes = 10 * 1024 * 1024

// ExamPDFContentType is the only accepted MIME type for exam uploads.
const ExamPDFContentType = "application/pdf"

// Closed enumerations for exam metadata. Inputs outside these sets are
// rejected, never coerced.
var (
	validMajors = map[string]bool{
		"common":          true,
		"journalism":      true,
		"pr":              true,
		"marketing":       true,
		"info-management": true,
		"data-science":    true,
	}

	validYearLevels = map[string]bool{
		"1":       true,
		"2":       true,
		"3":       true,
		"master1": true,
		"master2": true,
	}

	validExamTypes = map[string]bool{
		"midterm": true,
		"final":   true,
		"quiz":    true,
	}

	// Canonical semesters plus the legacy aliases still used by older
	// clients. fall maps to semester1 and spring to semester2.
	semesterAliases = map[string]string{
		"semester1": "semester1",
		"semester2": "semester2",
		"fall":      "semester1",
		"spring":    "semester2",
	}

	academicYearPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)
)

// Exam is an archived exam paper with its stored PDF reference.
type Exam struct {
	ID               string
	CourseName       string
	CourseNameArabic string
	Major            string
	YearLevel        string
	Semester         string
	ExamType         string
	AcademicYear     string
	PDFKey           string
	UploadedBy       string
	CreatedAt        time.Time
}

// ExamInput is the raw upload metadata before validation.
type ExamInput struct {
	CourseName       string `json:"courseName"`
	CourseNameArabic string `json:"courseNameArabic"`
	Major            string `json:"major"`
	YearLevel        string `json:"yearLevel"`
	Semester         string `json:"semester"`
	ExamType         string `json:"examType"`
	AcademicYear     string `json:"academicYear"`
}

// NewExam validates and sanitizes upload metadata. Enum fields are matched
// case-insensitively after trimming; the semester is normalized to its
// canonical value.
func NewExam(in ExamInput) (*Exam, ValidationErrors) {
	var errs ValidationErrors

	courseName := StripTags(in.CourseName)
	if n := utf8.RuneCountInString(courseName); n < 2 {
		errs = append(errs, ValidationError{Field: "courseName", Message: "course name must be at least 2 characters"})
	} else if n > 200 {
		errs = append(errs, ValidationError{Field: "courseName", Message: "course name must not exceed 200 characters"})
	}

	courseNameArabic := StripTags(in.CourseNameArabic)
	if utf8.RuneCountInString(courseNameArabic) > 200 {
		errs = append(errs, ValidationError{Field: "courseNameArabic", Message: "course name must not exceed 200 characters"})
	}

	major := normalizeEnum(in.Major)
	if !validMajors[major] {
		errs = append(errs, ValidationError{Field: "major", Message: "major must be one of the listed majors"})
	}

	yearLevel := normalizeEnum(in.YearLevel)
	if !validYearLevels[yearLevel] {
		errs = append(errs, ValidationError{Field: "yearLevel", Message: "year level must be 1, 2, 3, master1 or master2"})
	}

	semester, ok := semesterAliases[normalizeEnum(in.Semester)]
	if !ok {
		errs = append(errs, ValidationError{Field: "semester", Message: "semester must be semester1 or semester2"})
	}

	examType := normalizeEnum(in.ExamType)
	if !validExamTypes[examType] {
		errs = append(errs, ValidationError{Field: "examType", Message: "exam type must be midterm, final or quiz"})
	}

	academicYear := strings.TrimSpace(in.AcademicYear)
	if !academicYearPattern.MatchString(academicYear) {
		errs = append(errs, ValidationError{Field: "academicYear", Message: "academic year must match YYYY-YYYY"})
	}

	if errs.HasErrors() {
		return nil, errs
	}

	return &Exam{
		CourseName:       courseName,
		CourseNameArabic: courseNameArabic,
		Major:            major,
		YearLevel:        yearLevel,
		Semester:         semester,
		ExamType:         examType,
		AcademicYear:     academicYear,
	}, nil
}

// ValidateExamFile checks the upload's file constraints: size ceiling,
// declared MIME type, .pdf extension, and no path traversal sequences in
// the client-supplied filename.
func ValidateExamFile(filename, contentType string, size int64) error {
	if size <= 0 {
		return &ValidationError{Field: "file", Message: "file is empty"}
	}
	if size > MaxExamFileBytes {
		return &ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("file must not exceed %d bytes", MaxExamFileBytes),
		}
	}
	if contentType != ExamPDFContentType {
		return &ValidationError{Field: "file", Message: "file must be a PDF"}
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		return &ValidationError{Field: "file", Message: "filename contains invalid characters"}
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return &ValidationError{Field: "file", Message: "filename must end in .pdf"}
	}
	return nil
}

func normalizeEnum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
