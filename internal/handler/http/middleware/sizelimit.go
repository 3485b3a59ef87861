package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"deptsite/internal/config"
	"deptsite/internal/handler/http/respond"
	"deptsite/internal/observability/logging"
)

// SizeLimits holds the request body ceilings by content type class.
type SizeLimits struct {
	JSONBytes      int64
	MultipartBytes int64
	DefaultBytes   int64
}

// DefaultSizeLimits returns the standard ceilings: 500 KiB for JSON, 10 MiB
// for multipart uploads, 1 MiB otherwise.
func DefaultSizeLimits() SizeLimits {
	return SizeLimits{
		JSONBytes:      config.DefaultJSONBodyLimit,
		MultipartBytes: config.DefaultMultipartBodyLimit,
		DefaultBytes:   config.DefaultBodyLimit,
	}
}

// LimitFor classifies a Content-Type header value and returns the ceiling
// that applies. Matching is prefix-based so parameters ("; charset=utf-8",
// "; boundary=...") do not affect classification.
func (l SizeLimits) LimitFor(contentType string) int64 {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "application/json"):
		return l.JSONBytes
	case strings.HasPrefix(ct, "multipart/form-data"):
		return l.MultipartBytes
	default:
		return l.DefaultBytes
	}
}

// CheckDeclaredSize validates the declared Content-Length against the
// limit for the declared content type.
//
// A missing or non-numeric Content-Length passes: the declared length is a
// cheap early rejection only, and the MaxBytesReader backstop still bounds
// what is actually read. Chunked uploads therefore are not rejected here.
func (l SizeLimits) CheckDeclaredSize(contentLength, contentType string) bool {
	if contentLength == "" {
		return true
	}
	size, err := strconv.ParseInt(contentLength, 10, 64)
	if err != nil {
		return true
	}
	return size <= l.LimitFor(contentType)
}

// SizeLimitMiddleware rejects requests whose declared Content-Length
// exceeds the ceiling for their content type, and caps the body stream of
// everything that passes so a lying or chunked client cannot exceed the
// ceiling either. Oversized declarations get 413 without reading the body.
func SizeLimitMiddleware(limits SizeLimits) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			contentType := r.Header.Get("Content-Type")

			if !limits.CheckDeclaredSize(r.Header.Get("Content-Length"), contentType) {
				logger := logging.WithRequestID(r.Context(), slog.Default())
				logger.Warn("request body too large",
					slog.String("path", r.URL.Path),
					slog.String("content_length", r.Header.Get("Content-Length")),
					slog.Int64("limit", limits.LimitFor(contentType)),
				)
				respond.JSON(w, http.StatusRequestEntityTooLarge, map[string]string{
					"error": "Request too large",
				})
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limits.LimitFor(contentType))
			}

			next.ServeHTTP(w, r)
		})
	}
}
