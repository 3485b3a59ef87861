package session

import (
	"net/http"

	"deptsite/internal/handler/http/respond"
	"deptsite/pkg/security/csrf"
)

// CSRFTokenHandler issues the double-submit token. The frontend calls this
// once before its first state-changing request and echoes the token in the
// X-CSRF-Token header from then on.
type CSRFTokenHandler struct {
	Manager *csrf.Manager
}

func (h CSRFTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, err := h.Manager.GetOrCreate(w, r)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"token": token})
}
