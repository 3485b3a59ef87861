// Package notifier pings a webhook when a new contact submission arrives, so
// department staff hear about messages without polling the back office.
//
// Notifications are best effort. Failures are logged and never surfaced to
// the visitor who submitted the form; implementations handle throttling and
// retries internally.
package notifier

import (
	"context"

	"deptsite/internal/domain/entity"
)

// Notifier announces new contact submissions.
type Notifier interface {
	// NotifyContact sends a notification for a stored submission.
	// The submission has already been persisted; an error here must not
	// fail the request that created it.
	NotifyContact(ctx context.Context, sub *entity.ContactSubmission) error
}
