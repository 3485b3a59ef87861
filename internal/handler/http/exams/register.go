package exams

import (
	"net/http"

	"deptsite/internal/handler/http/middleware"
	examUC "deptsite/internal/usecase/exam"
	"deptsite/pkg/ratelimit"
	"deptsite/pkg/security/csrf"
)

// Register wires the exam archive endpoints onto the mux. The public
// listing and download are open; uploads and deletes need an admin session,
// the CSRF token, and the given rate preset. The upload chain checks the
// rate budget before the CSRF token, same as the login and contact routes.
func Register(
	mux *http.ServeMux,
	svc *examUC.Service,
	csrfMgr *csrf.Manager,
	limiter *ratelimit.Limiter,
	uploadPreset ratelimit.Preset,
	extractor middleware.IPExtractor,
	authorizer middleware.Authorizer,
) {
	uploadLimit := middleware.RateLimitMiddleware(limiter, uploadPreset, extractor)
	requireAdmin := middleware.RequireAdmin(authorizer)
	requireCSRF := middleware.CSRFMiddleware(csrfMgr)

	mux.Handle("GET /api/exams", ListHandler{Svc: svc})
	mux.Handle("GET /api/exams/{id}/download", DownloadHandler{Svc: svc})

	mux.Handle("POST /api/admin/exams",
		requireAdmin(uploadLimit(requireCSRF(UploadHandler{Svc: svc}))))
	mux.Handle("DELETE /api/admin/exams/{id}",
		requireAdmin(requireCSRF(DeleteHandler{Svc: svc})))
}
