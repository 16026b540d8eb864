package handlers

import (
	"net/http"
	"strconv"

	"github.com/placeradar/backend/internal/domain/repositories"
)

const (
	defaultReviewPageSize = 20
	maxReviewPageSize     = 100
)

// PlaceHandler handles place detail HTTP requests
type PlaceHandler struct {
	places  repositories.PlaceRepository
	reviews repositories.ReviewRepository
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(places repositories.PlaceRepository, reviews repositories.ReviewRepository) *PlaceHandler {
	return &PlaceHandler{
		places:  places,
		reviews: reviews,
	}
}

// GetPlace handles GET /api/places/{id}
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	placeID, ok := parsePlaceID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "place id must be a positive integer")
		return
	}

	place, err := h.places.GetByID(r.Context(), placeID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, place)
}

// GetPlaceReviews handles GET /api/places/{id}/reviews
func (h *PlaceHandler) GetPlaceReviews(w http.ResponseWriter, r *http.Request) {
	placeID, ok := parsePlaceID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "place id must be a positive integer")
		return
	}

	query := r.URL.Query()
	page := parseIntParam(query.Get("page"), 0)
	size := parseIntParam(query.Get("size"), defaultReviewPageSize)
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > maxReviewPageSize {
		size = defaultReviewPageSize
	}

	reviews, err := h.reviews.PlaceReviews(r.Context(), placeID, page, size)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
		"page":    page,
		"size":    size,
	})
}

func parseIntParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
