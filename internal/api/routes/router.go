package routes

import (
	"net/http"

	"github.com/placeradar/backend/internal/api/handlers"
	"github.com/placeradar/backend/internal/api/middleware"
	"github.com/placeradar/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	discoveryHandler  *handlers.DiscoveryHandler
	placeHandler      *handlers.PlaceHandler
	engagementHandler *handlers.EngagementHandler
	reviewHandler     *handlers.ReviewHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	discoveryHandler *handlers.DiscoveryHandler,
	placeHandler *handlers.PlaceHandler,
	engagementHandler *handlers.EngagementHandler,
	reviewHandler *handlers.ReviewHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		discoveryHandler:  discoveryHandler,
		placeHandler:      placeHandler,
		engagementHandler: engagementHandler,
		reviewHandler:     reviewHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Discovery feed
	r.mux.HandleFunc("GET /api/feed", r.discoveryHandler.GetFeed)

	// Place endpoints
	r.mux.HandleFunc("GET /api/places/{id}", r.placeHandler.GetPlace)
	r.mux.HandleFunc("GET /api/places/{id}/reviews", r.placeHandler.GetPlaceReviews)

	// Engagement endpoints
	r.mux.HandleFunc("GET /api/places/{id}/engagement", r.engagementHandler.GetEngagement)
	r.mux.HandleFunc("POST /api/places/{id}/favorite", r.engagementHandler.ToggleFavorite)
	r.mux.HandleFunc("POST /api/places/{id}/visited", r.engagementHandler.ToggleVisited)

	// Review endpoints
	r.mux.HandleFunc("POST /api/places/{id}/reviews", r.reviewHandler.SubmitReview)
	r.mux.HandleFunc("PUT /api/places/{id}/reviews/{reviewId}", r.reviewHandler.UpdateReview)
	r.mux.HandleFunc("DELETE /api/places/{id}/reviews/{reviewId}", r.reviewHandler.DeleteReview)

	// Apply middleware in reverse order (last middleware wraps first).
	// RoutePattern must wrap the mux directly; CORS must be outermost so
	// cached responses also get CORS headers.
	var handler http.Handler = middleware.RoutePattern(r.mux)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.AuthTokenMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
