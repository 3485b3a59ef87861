package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"deptsite/internal/domain/entity"
	"deptsite/internal/infra/notifier"
	"deptsite/internal/repository"
)

// notifyTimeout bounds the webhook call that follows a stored submission.
const notifyTimeout = 30 * time.Second

// Service provides contact form use cases. It persists submissions and
// fires the staff notification without letting notification failures reach
// the visitor.
type Service struct {
	Repo     repository.ContactRepository
	Notifier notifier.Notifier
	Logger   *slog.Logger
}

// Submit validates a form payload and stores it with status "new". The
// notification runs detached from the request; the caller gets the stored
// submission as soon as the database write succeeds.
func (s *Service) Submit(ctx context.Context, in entity.ContactInput) (*entity.ContactSubmission, error) {
	sub, errs := entity.NewContactSubmission(in)
	if errs.HasErrors() {
		return nil, errs
	}

	if err := s.Repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("create contact submission: %w", err)
	}

	if s.Notifier != nil {
		// The request context ends when the response is written; the
		// notification keeps its own deadline.
		go func() {
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
			defer cancel()
			if err := s.Notifier.NotifyContact(nctx, sub); err != nil {
				s.logger().Warn("contact notification failed",
					slog.String("submission_id", sub.ID),
					slog.Any("error", err))
			}
		}()
	}

	return sub, nil
}

// List returns submissions newest first, optionally filtered by status.
// An empty status means all submissions.
func (s *Service) List(ctx context.Context, status string) ([]*entity.ContactSubmission, error) {
	if err := validateStatus(status, true); err != nil {
		return nil, err
	}
	subs, err := s.Repo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list contact submissions: %w", err)
	}
	return subs, nil
}

// Get retrieves a single submission.
// Returns ErrSubmissionNotFound if it does not exist.
func (s *Service) Get(ctx context.Context, id string) (*entity.ContactSubmission, error) {
	sub, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get contact submission: %w", err)
	}
	if sub == nil {
		return nil, ErrSubmissionNotFound
	}
	return sub, nil
}

// UpdateStatus moves a submission through the new/read/archived lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if err := validateStatus(status, false); err != nil {
		return err
	}
	if err := s.Repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("update submission status: %w", err)
	}
	return nil
}

func validateStatus(status string, allowEmpty bool) error {
	switch status {
	case entity.ContactStatusNew, entity.ContactStatusRead, entity.ContactStatusArchived:
		return nil
	case "":
		if allowEmpty {
			return nil
		}
		return ErrInvalidStatus
	default:
		return ErrInvalidStatus
	}
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
