package entity

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Contact submission lifecycle statuses.
const (
	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusArchived = "archived"
)

// namePattern allows Latin letters, whitespace, and the Arabic script block.
var namePattern = regexp.MustCompile(`^[a-zA-Z\s\x{0600}-\x{06FF}]+$`)

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Message   string
	Status    string
	CreatedAt time.Time
}

// ContactInput is the raw contact form payload before validation.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// NewContactSubmission validates and sanitizes the raw form payload.
//
// String fields are tag-stripped before length checks, so a name that is
// only long enough because of angle brackets still fails. All field errors
// are collected rather than stopping at the first.
func NewContactSubmission(in ContactInput) (*ContactSubmission, ValidationErrors) {
	var errs ValidationErrors

	name := StripTags(in.Name)
	switch n := utf8.RuneCountInString(name); {
	case n < 2:
		errs = append(errs, ValidationError{Field: "name", Message: "name must be at least 2 characters"})
	case n > 100:
		errs = append(errs, ValidationError{Field: "name", Message: "name must not exceed 100 characters"})
	case !namePattern.MatchString(name):
		errs = append(errs, ValidationError{Field: "name", Message: "name may only contain letters and spaces"})
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		errs = append(errs, ValidationError{Field: "email", Message: "email is required"})
	} else if len(email) > 255 {
		errs = append(errs, ValidationError{Field: "email", Message: "email must not exceed 255 characters"})
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		errs = append(errs, ValidationError{Field: "email", Message: "email must be a valid address"})
	}

	subject := StripTags(in.Subject)
	if n := utf8.RuneCountInString(subject); n < 3 {
		errs = append(errs, ValidationError{Field: "subject", Message: "subject must be at least 3 characters"})
	} else if n > 200 {
		errs = append(errs, ValidationError{Field: "subject", Message: "subject must not exceed 200 characters"})
	}

	message := StripTags(in.Message)
	if n := utf8.RuneCountInString(message); n < 10 {
		errs = append(errs, ValidationError{Field: "message", Message: "message must be at least 10 characters"})
	} else if n > 5000 {
		errs = append(errs, ValidationError{Field: "message", Message: "message must not exceed 5000 characters"})
	}

	if errs.HasErrors() {
		return nil, errs
	}

	return &ContactSubmission{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
		Status:  ContactStatusNew,
	}, nil
}
