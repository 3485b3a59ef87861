package postgres

import (
	"fmt"
	"strings"

	"deptsite/internal/repository"
)

// buildExamWhereClause builds the WHERE clause and arguments for an exam
// listing. Exact-match filters come from closed enumerations already
// validated upstream; the keyword searches both course name columns with
// ILIKE. Returns an empty clause when no filter is set.
func buildExamWhereClause(filter repository.ExamFilter) (clause string, args []interface{}) {
	var conditions []string
	paramIndex := 1

	addEq := func(column, value string) {
		if value == "" {
			return
		}
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, paramIndex))
		args = append(args, value)
		paramIndex++
	}

	addEq("major", filter.Major)
	addEq("year_level", filter.YearLevel)
	addEq("semester", filter.Semester)
	addEq("exam_type", filter.ExamType)
	addEq("academic_year", filter.AcademicYear)

	if filter.Keyword != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(course_name ILIKE $%d OR course_name_arabic ILIKE $%d)",
			paramIndex, paramIndex))
		args = append(args, "%"+escapeILIKE(filter.Keyword)+"%")
		paramIndex++
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "\nWHERE " + strings.Join(conditions, " AND "), args
}

// escapeILIKE escapes the LIKE metacharacters in user input so a keyword of
// "100%" matches literally.
func escapeILIKE(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
