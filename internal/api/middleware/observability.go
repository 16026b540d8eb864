package middleware

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/placeradar/backend/internal/infrastructure/observability"
)

type patternKeyType struct{}

var patternKey patternKeyType

// routePattern carries the matched ServeMux pattern out to the observability
// middleware. The mux writes the pattern onto its own shallow copy of the
// request, so outer middleware can only see it through a shared holder.
type routePattern struct {
	value string
}

// RoutePattern captures the pattern the mux matched. It must wrap the mux
// directly, inside any middleware that replaces the request.
func RoutePattern(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if holder, ok := r.Context().Value(patternKey).(*routePattern); ok {
			holder.value = r.Pattern
		}
	})
}

// ObservabilityMiddleware adds OpenTelemetry tracing and metrics to HTTP requests
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			holder := &routePattern{}
			ctx := context.WithValue(r.Context(), patternKey, holder)

			ctx, span := observability.StartSpan(ctx, r.Method+" "+r.URL.Path)
			defer span.End()

			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.user_agent", r.UserAgent()),
			)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rw, r.WithContext(ctx))

			// The matched route is only known once the mux ran. Raw path is
			// the fallback for requests short-circuited before routing.
			route := holder.value
			if route == "" {
				route = r.URL.Path
			}
			span.SetName(route)

			duration := time.Since(start)
			if metrics != nil {
				observability.RecordRequestMetric(ctx, metrics, r.Method, route, rw.statusCode, duration)
			}

			observability.SetSpanAttributes(span,
				attribute.String("http.route", route),
				attribute.Int("http.status_code", rw.statusCode),
			)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
