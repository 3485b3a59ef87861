// Package exam provides use cases for the exam archive: admin uploads of
// past exam PDFs and the public filterable listing.
package exam

import "errors"

// ErrExamNotFound indicates the requested exam record does not exist.
var ErrExamNotFound = errors.New("exam not found")
