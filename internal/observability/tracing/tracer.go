// Package tracing provides OpenTelemetry tracing integration for HTTP
// request handling.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// instrumentationName identifies this module's spans in trace backends.
const instrumentationName = "deptsite/http"

// GetTracer returns the module-wide tracer for creating spans.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
