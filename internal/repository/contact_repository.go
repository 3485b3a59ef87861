// Package repository defines the persistence interfaces the use cases
// depend on. Implementations live under internal/infra.
package repository

import (
	"context"

	"deptsite/internal/domain/entity"
)

type ContactRepository interface {
	// Create persists a validated submission and fills in its generated
	// ID and creation time.
	Create(ctx context.Context, submission *entity.ContactSubmission) error

	// Get returns a submission by ID, or nil when none exists.
	Get(ctx context.Context, id string) (*entity.ContactSubmission, error)

	// List returns submissions newest first, optionally filtered by
	// status ("" means all).
	List(ctx context.Context, status string) ([]*entity.ContactSubmission, error)

	// UpdateStatus moves a submission through its lifecycle.
	UpdateStatus(ctx context.Context, id, status string) error
}
