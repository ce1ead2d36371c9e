// AngelaMos | 2026
// chain.go

package middleware

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// Observability is the outermost request stack. Tracing wraps Recoverer
// and Logger so the access line carries the span's trace id and a
// recovered panic still closes the span as a 500.
func Observability(
	logger *slog.Logger,
	tracer trace.Tracer,
) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		RequestID,
		Tracing(tracer),
		Recoverer(logger),
		Logger(logger),
	}
}
