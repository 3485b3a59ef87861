package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"deptsite/pkg/security/csrf"
)

func TestCSRFMiddleware(t *testing.T) {
	handler := CSRFMiddleware(csrf.NewManager(false))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	token := "a3f1b2c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2"

	tests := []struct {
		name       string
		method     string
		header     string
		cookie     string
		wantStatus int
	}{
		{"get passes without tokens", http.MethodGet, "", "", http.StatusOK},
		{"options passes without tokens", http.MethodOptions, "", "", http.StatusOK},
		{"post with matching pair", http.MethodPost, token, token, http.StatusOK},
		{"post with mismatched pair", http.MethodPost, token, "different", http.StatusForbidden},
		{"post missing header", http.MethodPost, "", token, http.StatusForbidden},
		{"post missing cookie", http.MethodPost, token, "", http.StatusForbidden},
		{"post missing both", http.MethodPost, "", "", http.StatusForbidden},
		{"delete requires tokens", http.MethodDelete, "", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/contact", nil)
			if tt.header != "" {
				req.Header.Set(csrf.HeaderName, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: csrf.CookieName, Value: tt.cookie})
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusForbidden {
				var body map[string]string
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("403 body is not JSON: %v", err)
				}
				if body["error"] != "Invalid CSRF token" {
					t.Errorf("error = %q, want %q", body["error"], "Invalid CSRF token")
				}
			}
		})
	}
}
