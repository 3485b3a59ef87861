package contact

import (
	"encoding/json"
	"errors"
	"net/http"

	"deptsite/internal/domain/entity"
	httpapi "deptsite/internal/handler/http"
	"deptsite/internal/handler/http/respond"
	contactUC "deptsite/internal/usecase/contact"
)

// SubmitHandler accepts the public contact form.
type SubmitHandler struct {
	Svc *contactUC.Service
}

func (h SubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in entity.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	sub, err := h.Svc.Submit(r.Context(), in)
	if err != nil {
		var verrs entity.ValidationErrors
		if errors.As(err, &verrs) {
			httpapi.RecordContactSubmission(false)
			respond.ValidationError(w, fieldDetails(verrs))
			return
		}
		// Storage failure. The visitor gets a generic message; the cause
		// goes to the sanitized log only.
		httpapi.RecordContactSubmission(false)
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	httpapi.RecordContactSubmission(true)
	respond.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Your message has been received. We will get back to you soon.",
		"id":      sub.ID,
	})
}

// OptionsHandler answers the CORS preflight for the contact form with no
// body. The security header injector upstream supplies the headers.
type OptionsHandler struct{}

func (OptionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func fieldDetails(verrs entity.ValidationErrors) []respond.FieldDetail {
	details := make([]respond.FieldDetail, 0, len(verrs))
	for _, ve := range verrs {
		details = append(details, respond.FieldDetail{
			Field:   ve.Field,
			Message: ve.Message,
		})
	}
	return details
}
