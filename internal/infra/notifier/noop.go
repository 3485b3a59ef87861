package notifier

import (
	"context"

	"deptsite/internal/domain/entity"
)

// NoOpNotifier is used when no webhook URL is configured. It satisfies the
// Notifier interface so callers never need a nil check.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a NoOpNotifier.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// NotifyContact does nothing and returns nil.
func (n *NoOpNotifier) NotifyContact(ctx context.Context, sub *entity.ContactSubmission) error {
	return nil
}
