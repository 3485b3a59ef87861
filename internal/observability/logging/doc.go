// Package logging provides structured logging with context propagation and
// sensitive-field redaction.
//
// This package wraps the standard library's log/slog package. Every logger
// it constructs redacts attributes whose keys look sensitive (passwords,
// tokens, cookies, email addresses) before they reach the output handler.
//
// Example usage:
//
//	import "deptsite/internal/observability/logging"
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("server started", slog.Int("port", 8080))
//	}
//
//	func handleRequest(ctx context.Context) {
//	    logger := logging.WithRequestID(ctx, slog.Default())
//	    logger.Info("processing request")
//	}
package logging
