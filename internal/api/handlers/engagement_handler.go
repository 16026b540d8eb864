package handlers

import (
	"net/http"

	"github.com/placeradar/backend/internal/application/services"
)

// EngagementHandler handles per-user engagement HTTP requests
type EngagementHandler struct {
	engagement *services.EngagementService
}

// NewEngagementHandler creates a new engagement handler
func NewEngagementHandler(engagement *services.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		engagement: engagement,
	}
}

// GetEngagement handles GET /api/places/{id}/engagement
func (h *EngagementHandler) GetEngagement(w http.ResponseWriter, r *http.Request) {
	placeID, ok := parsePlaceID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "place id must be a positive integer")
		return
	}

	state, err := h.engagement.LoadState(r.Context(), placeID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, state)
}

// ToggleFavorite handles POST /api/places/{id}/favorite
func (h *EngagementHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	placeID, ok := parsePlaceID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "place id must be a positive integer")
		return
	}

	result, err := h.engagement.ToggleFavorite(r.Context(), placeID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ToggleVisited handles POST /api/places/{id}/visited
func (h *EngagementHandler) ToggleVisited(w http.ResponseWriter, r *http.Request) {
	placeID, ok := parsePlaceID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "place id must be a positive integer")
		return
	}

	result, err := h.engagement.ToggleVisited(r.Context(), placeID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
