package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"deptsite/internal/service/auth"
)

// ProfileRepo resolves admin roles from the admin_profiles table. It
// implements auth.ProfileStore for the login handler and the edge gate.
type ProfileRepo struct{ db *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (repo *ProfileRepo) RoleByUserID(ctx context.Context, userID string) (string, error) {
	const query = `
SELECT role
FROM admin_profiles
WHERE user_id = $1
LIMIT 1`
	var role string
	err := repo.db.QueryRowContext(ctx, query, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", auth.ErrProfileNotFound
	}
	if err != nil {
		return "", fmt.Errorf("RoleByUserID: %w", err)
	}
	return role, nil
}
