package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func TestSizeLimits_LimitFor(t *testing.T) {
	limits := DefaultSizeLimits()

	tests := []struct {
		contentType string
		want        int64
	}{
		{"application/json", limits.JSONBytes},
		{"application/json; charset=utf-8", limits.JSONBytes},
		{"APPLICATION/JSON", limits.JSONBytes},
		{"multipart/form-data; boundary=xyz", limits.MultipartBytes},
		{"text/plain", limits.DefaultBytes},
		{"", limits.DefaultBytes},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := limits.LimitFor(tt.contentType); got != tt.want {
				t.Errorf("LimitFor(%q) = %d, want %d", tt.contentType, got, tt.want)
			}
		})
	}
}

func TestSizeLimits_CheckDeclaredSize(t *testing.T) {
	limits := SizeLimits{JSONBytes: 100, MultipartBytes: 1000, DefaultBytes: 500}

	tests := []struct {
		name          string
		contentLength string
		contentType   string
		want          bool
	}{
		{name: "under json limit", contentLength: "99", contentType: "application/json", want: true},
		{name: "at json limit", contentLength: "100", contentType: "application/json", want: true},
		{name: "over json limit", contentLength: "101", contentType: "application/json", want: false},
		{name: "multipart gets larger budget", contentLength: "101", contentType: "multipart/form-data", want: true},
		{name: "over multipart limit", contentLength: "1001", contentType: "multipart/form-data", want: false},
		{name: "missing content length is valid", contentLength: "", contentType: "application/json", want: true},
		{name: "non-numeric content length is valid", contentLength: "abc", contentType: "application/json", want: true},
		{name: "default class", contentLength: "501", contentType: "text/plain", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := limits.CheckDeclaredSize(tt.contentLength, tt.contentType); got != tt.want {
				t.Errorf("CheckDeclaredSize(%q, %q) = %v, want %v", tt.contentLength, tt.contentType, got, tt.want)
			}
		})
	}
}

func TestSizeLimitMiddleware_RejectsDeclaredOversize(t *testing.T) {
	limits := SizeLimits{JSONBytes: 100, MultipartBytes: 1000, DefaultBytes: 500}
	called := false
	handler := SizeLimitMiddleware(limits)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Length", "5000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if called {
		t.Error("handler must not run for oversized request")
	}
}

func TestSizeLimitMiddleware_CapsBodyStream(t *testing.T) {
	limits := SizeLimits{JSONBytes: 10, MultipartBytes: 1000, DefaultBytes: 500}
	var readErr error
	handler := SizeLimitMiddleware(limits)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	// Body exceeds the limit but lies about (omits) Content-Length.
	body := strings.Repeat("x", 50)
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Del("Content-Length")
	req.ContentLength = -1
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if readErr == nil {
		t.Error("reading past the cap should fail")
	}
}

func TestSizeLimitMiddleware_PassesValidRequest(t *testing.T) {
	limits := DefaultSizeLimits()
	var got string
	handler := SizeLimitMiddleware(limits)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		w.WriteHeader(http.StatusOK)
	}))

	body := `{"name":"Amal"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Length", strconv.Itoa(len(body)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got != body {
		t.Errorf("body = %q, want %q", got, body)
	}
}
