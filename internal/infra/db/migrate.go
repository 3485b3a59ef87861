package db

import "database/sql"

// MigrateUp creates the content store schema. Every statement is idempotent
// so repeated startups are safe.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS contact_submissions (
    id         UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name       VARCHAR(100) NOT NULL,
    email      VARCHAR(255) NOT NULL,
    subject    VARCHAR(200) NOT NULL,
    message    TEXT NOT NULL,
    status     VARCHAR(20) NOT NULL DEFAULT 'new',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS exams (
    id                 UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    course_name        VARCHAR(200) NOT NULL,
    course_name_arabic VARCHAR(200),
    major              VARCHAR(30) NOT NULL,
    year_level         VARCHAR(10) NOT NULL,
    semester           VARCHAR(10) NOT NULL,
    exam_type          VARCHAR(10) NOT NULL,
    academic_year      VARCHAR(9) NOT NULL,
    pdf_key            TEXT NOT NULL,
    uploaded_by        TEXT,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS admin_profiles (
    user_id    TEXT PRIMARY KEY,
    role       VARCHAR(20) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		// Back office lists newest submissions first.
		`CREATE INDEX IF NOT EXISTS idx_contact_submissions_created_at ON contact_submissions(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_contact_submissions_status ON contact_submissions(status)`,
		// Browser filter combinations.
		`CREATE INDEX IF NOT EXISTS idx_exams_major_year ON exams(major, year_level)`,
		`CREATE INDEX IF NOT EXISTS idx_exams_academic_year ON exams(academic_year)`,
		`CREATE INDEX IF NOT EXISTS idx_exams_created_at ON exams(created_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Keyword search over course names. pg_trgm may be unavailable without
	// superuser rights, so both statements are best effort.
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	_, _ = db.Exec(`CREATE INDEX IF NOT EXISTS idx_exams_course_name_gin ON exams USING gin(course_name gin_trgm_ops)`)

	_, _ = db.Exec(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = 'chk_admin_role'
    ) THEN
        ALTER TABLE admin_profiles ADD CONSTRAINT chk_admin_role
        CHECK (role IN ('admin', 'super_admin'));
    END IF;
END $$;
`)

	return nil
}

// MigrateDown drops the content store tables in reverse dependency order.
// Use with caution: this deletes all data.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS exams CASCADE`,
		`DROP TABLE IF EXISTS contact_submissions CASCADE`,
		`DROP TABLE IF EXISTS admin_profiles CASCADE`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
