package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of recipebook spans.
const TracerName = "github.com/skosovsky/recipebook"

// Tracer returns a tracer from the global provider. It is a no-op until the
// application installs an SDK provider with otel.SetTracerProvider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
