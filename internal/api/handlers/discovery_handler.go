package handlers

import (
	"net/http"
	"strconv"

	"github.com/placeradar/backend/internal/application/services"
	"github.com/placeradar/backend/internal/domain/providers"
)

// DiscoveryHandler serves the aggregated discovery feed
type DiscoveryHandler struct {
	discovery *services.DiscoveryService
	locations providers.LocationResolver
}

// NewDiscoveryHandler creates a new discovery handler
func NewDiscoveryHandler(discovery *services.DiscoveryService, locations providers.LocationResolver) *DiscoveryHandler {
	return &DiscoveryHandler{
		discovery: discovery,
		locations: locations,
	}
}

// GetFeed handles GET /api/feed
func (h *DiscoveryHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lat := parseFloatParam(query.Get("lat"))
	lng := parseFloatParam(query.Get("lng"))

	limit := 0
	if v := query.Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	loc := h.locations.Resolve(r.Context(), lat, lng)

	// A fresh-enough snapshot spares the full source fan-out
	if query.Get("refresh") != "true" {
		if feed := h.discovery.Snapshot(r.Context(), loc, limit); feed != nil {
			respondWithJSON(w, http.StatusOK, feed)
			return
		}
	}

	feed, err := h.discovery.Aggregate(r.Context(), loc, limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, feed)
}

// parseFloatParam returns nil for absent or malformed values; the location
// resolver substitutes the configured default in that case.
func parseFloatParam(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}
