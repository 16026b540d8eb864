package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/placeradar/backend/internal/api/middleware"
	"github.com/placeradar/backend/internal/infrastructure/observability"
)

// The mux sets the matched pattern on its own copy of the request, so the
// request-metric route label has to survive intermediate middleware that
// replaces the request. AuthTokenMiddleware sits in the chain here for
// exactly that reason.
func TestObservabilityMiddleware_RouteLabel(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))

	metrics, err := observability.InitMetrics()
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/places/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.ObservabilityMiddleware(metrics)(
		middleware.AuthTokenMiddleware(middleware.RoutePattern(mux)),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/places/42", nil)
	req.Header.Set("Authorization", "Bearer token")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	routes := requestCountRoutes(t, reader)
	assert.Contains(t, routes, "GET /api/places/{id}")
	assert.NotContains(t, routes, "/api/places/42")
}

func requestCountRoutes(t *testing.T, reader *sdkmetric.ManualReader) []string {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var routes []string
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "http.server.request.count" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, point := range sum.DataPoints {
				if value, ok := point.Attributes.Value(attribute.Key("http.route")); ok {
					routes = append(routes, value.AsString())
				}
			}
		}
	}
	return routes
}
