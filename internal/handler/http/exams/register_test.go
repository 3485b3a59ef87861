package exams

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"deptsite/internal/handler/http/middleware"
	"deptsite/internal/service/auth"
	examUC "deptsite/internal/usecase/exam"
	"deptsite/pkg/ratelimit"
	"deptsite/pkg/security/csrf"
)

type adminAuthorizer struct{}

func (adminAuthorizer) Authorize(ctx context.Context, token string) (*auth.Session, error) {
	return &auth.Session{
		UserID:      "u-1",
		Email:       "admin@example.edu",
		Role:        auth.RoleAdmin,
		AccessToken: token,
	}, nil
}

func (adminAuthorizer) SignOut(ctx context.Context, token string) error { return nil }

// TestUploadRoute_RateCheckedBeforeCSRF exercises the registered upload
// chain: an admin whose requests all lack the CSRF token gets 403 while the
// rate budget lasts and 429 once it is spent, so a client hammering the
// endpoint cannot exercise token validation without spending budget.
func TestUploadRoute_RateCheckedBeforeCSRF(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewInMemoryStore(ratelimit.DefaultInMemoryStoreConfig()), nil, nil)
	preset := ratelimit.Preset{Name: "upload", Limit: 2, Window: time.Hour}

	mux := http.NewServeMux()
	Register(mux, &examUC.Service{Repo: &fakeRepo{}, Blobs: &fakeBlobs{}}, csrf.NewManager(false),
		limiter, preset, &middleware.RemoteAddrExtractor{}, adminAuthorizer{})

	for i := 1; i <= 3; i++ {
		body, contentType := multipartBody(t, validMetadata(), "final.pdf", "application/pdf", []byte("%PDF-1.4 fake"))
		req := httptest.NewRequest(http.MethodPost, "/api/admin/exams", body)
		req.Header.Set("Content-Type", contentType)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok-admin"})
		req.RemoteAddr = "203.0.113.30:40000"
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		wantCode := http.StatusForbidden
		if i > preset.Limit {
			wantCode = http.StatusTooManyRequests
		}
		if rec.Code != wantCode {
			t.Fatalf("request %d: status = %d, want %d, body %s", i, rec.Code, wantCode, rec.Body.String())
		}
	}
}

func TestPublicExamRoutes_NoSessionRequired(t *testing.T) {
	limiter := ratelimit.NewLimiter(ratelimit.NewInMemoryStore(ratelimit.DefaultInMemoryStoreConfig()), nil, nil)

	mux := http.NewServeMux()
	Register(mux, &examUC.Service{Repo: &fakeRepo{}, Blobs: &fakeBlobs{}}, csrf.NewManager(false),
		limiter, ratelimit.UploadPreset, &middleware.RemoteAddrExtractor{}, adminAuthorizer{})

	req := httptest.NewRequest(http.MethodGet, "/api/exams", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
}
