// Package observability provides the service's observability infrastructure:
// structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: structured logging with slog and sensitive-field redaction
//   - tracing: OpenTelemetry HTTP tracing middleware
//
// HTTP request metrics live in the handler layer next to the middleware
// that records them.
package observability
