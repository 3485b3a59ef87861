package contact

import (
	"encoding/json"
	"net/http"

	"deptsite/internal/handler/http/middleware"
	contactUC "deptsite/internal/usecase/contact"
	"deptsite/pkg/ratelimit"
	"deptsite/pkg/security/csrf"
)

// Register wires the contact endpoints onto the mux. The public form sits
// behind the given rate preset; the admin listing and status updates
// require an admin session, and updates additionally need the CSRF token.
func Register(
	mux *http.ServeMux,
	svc *contactUC.Service,
	csrfMgr *csrf.Manager,
	limiter *ratelimit.Limiter,
	contactPreset ratelimit.Preset,
	extractor middleware.IPExtractor,
	authorizer middleware.Authorizer,
) {
	contactLimit := middleware.RateLimitMiddleware(limiter, contactPreset, extractor)
	requireAdmin := middleware.RequireAdmin(authorizer)
	requireCSRF := middleware.CSRFMiddleware(csrfMgr)

	mux.Handle("POST /api/contact", contactLimit(SubmitHandler{Svc: svc}))
	mux.Handle("OPTIONS /api/contact", OptionsHandler{})

	mux.Handle("GET /api/admin/contacts", requireAdmin(ListHandler{Svc: svc}))
	mux.Handle("PATCH /api/admin/contacts/{id}", requireAdmin(requireCSRF(UpdateStatusHandler{Svc: svc})))
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
