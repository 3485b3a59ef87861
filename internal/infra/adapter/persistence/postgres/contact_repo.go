// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"deptsite/internal/domain/entity"
	"deptsite/internal/repository"
)

type ContactRepo struct{ db *sql.DB }

func NewContactRepo(db *sql.DB) repository.ContactRepository {
	return &ContactRepo{db: db}
}

func (repo *ContactRepo) Create(ctx context.Context, submission *entity.ContactSubmission) error {
	const query = `
INSERT INTO contact_submissions (name, email, subject, message, status)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`
	err := repo.db.QueryRowContext(ctx, query,
		submission.Name, submission.Email,
		submission.Subject, submission.Message, submission.Status,
	).Scan(&submission.ID, &submission.CreatedAt)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ContactRepo) Get(ctx context.Context, id string) (*entity.ContactSubmission, error) {
	const query = `
SELECT id, name, email, subject, message, status, created_at
FROM contact_submissions
WHERE id = $1
LIMIT 1`
	var sub entity.ContactSubmission
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.Name, &sub.Email,
		&sub.Subject, &sub.Message, &sub.Status, &sub.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &sub, nil
}

func (repo *ContactRepo) List(ctx context.Context, status string) ([]*entity.ContactSubmission, error) {
	query := `
SELECT id, name, email, subject, message, status, created_at
FROM contact_submissions`
	var args []interface{}
	if status != "" {
		query += `
WHERE status = $1`
		args = append(args, status)
	}
	query += `
ORDER BY created_at DESC`

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	submissions := make([]*entity.ContactSubmission, 0, 50)
	for rows.Next() {
		var sub entity.ContactSubmission
		if err := rows.Scan(
			&sub.ID, &sub.Name, &sub.Email,
			&sub.Subject, &sub.Message, &sub.Status, &sub.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		submissions = append(submissions, &sub)
	}
	return submissions, rows.Err()
}

func (repo *ContactRepo) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE contact_submissions SET status = $1 WHERE id = $2`
	res, err := repo.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("UpdateStatus: %w", entity.ErrNotFound)
	}
	return nil
}
