package contact

import (
	"errors"
	"net/http"

	"deptsite/internal/handler/http/respond"
	contactUC "deptsite/internal/usecase/contact"
)

// ListHandler serves the back-office submissions listing, optionally
// filtered by status.
type ListHandler struct {
	Svc *contactUC.Service
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	subs, err := h.Svc.List(r.Context(), status)
	if err != nil {
		if errors.Is(err, contactUC.ErrInvalidStatus) {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("status must be new, read or archived"))
			return
		}
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(subs))
	for _, sub := range subs {
		dtos = append(dtos, toDTO(sub))
	}
	respond.JSON(w, http.StatusOK, map[string]any{"submissions": dtos})
}

// UpdateStatusHandler moves a submission through its lifecycle.
type UpdateStatusHandler struct {
	Svc *contactUC.Service
}

func (h UpdateStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	err := h.Svc.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case err == nil:
		respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
	case errors.Is(err, contactUC.ErrInvalidStatus):
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("status must be new, read or archived"))
	case errors.Is(err, contactUC.ErrSubmissionNotFound):
		respond.SafeError(w, http.StatusNotFound,
			errors.New("submission not found"))
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
