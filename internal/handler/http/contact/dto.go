// Package contact provides the HTTP endpoints for the public contact form
// and the back-office submissions listing.
package contact

import (
	"time"

	"deptsite/internal/domain/entity"
)

// DTO is the JSON shape of a contact submission in admin responses.
type DTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toDTO(sub *entity.ContactSubmission) DTO {
	return DTO{
		ID:        sub.ID,
		Name:      sub.Name,
		Email:     sub.Email,
		Subject:   sub.Subject,
		Message:   sub.Message,
		Status:    sub.Status,
		CreatedAt: sub.CreatedAt,
	}
}
