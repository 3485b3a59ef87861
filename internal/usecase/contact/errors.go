// Package contact provides use cases for the public contact form and the
// back-office submissions listing.
package contact

import "errors"

// Sentinel errors for contact use case operations.
var (
	// ErrSubmissionNotFound indicates the requested submission does not
	// exist.
	ErrSubmissionNotFound = errors.New("contact submission not found")

	// ErrInvalidStatus indicates a status outside the new/read/archived
	// lifecycle.
	ErrInvalidStatus = errors.New("invalid submission status")
)
