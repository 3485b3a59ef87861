package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	httpapi "deptsite/internal/handler/http"
	"deptsite/internal/handler/http/respond"
	"deptsite/internal/service/auth"
)

// SessionTTL matches the provider's access token lifetime; the JWT expiry
// is what actually ends the session.
const SessionTTL = 24 * time.Hour

// LoginHandler authenticates admin credentials against the external
// provider and issues the session cookie.
type LoginHandler struct {
	Svc           *auth.Service
	SecureCookies bool
}

func (h LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respond.SafeError(w, http.StatusBadRequest,
			errors.New("email and password are required"))
		return
	}

	session, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidCredentials):
		httpapi.RecordLoginAttempt("invalid_credentials")
		respond.JSON(w, http.StatusUnauthorized, map[string]string{
			"error": "Invalid email or password",
		})
		return
	case errors.Is(err, auth.ErrInsufficientRole):
		httpapi.RecordLoginAttempt("forbidden")
		respond.JSON(w, http.StatusForbidden, map[string]string{
			"error": "Admin access required",
		})
		return
	default:
		httpapi.RecordLoginAttempt("error")
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	httpapi.RecordLoginAttempt("success")
	http.SetCookie(w, sessionCookie(session.AccessToken, h.SecureCookies))
	respond.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]string{
			"id":    session.UserID,
			"email": session.Email,
			"role":  session.Role,
		},
	})
}
