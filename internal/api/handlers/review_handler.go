package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/placeradar/backend/internal/application/services"
)

// ReviewHandler handles review mutation HTTP requests
type ReviewHandler struct {
	engagement *services.EngagementService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(engagement *services.EngagementService) *ReviewHandler {
	return &ReviewHandler{
		engagement: engagement,
	}
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// SubmitReview handles POST /api/places/{id}/reviews
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	placeID, ok := parsePlaceID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "place id must be a positive integer")
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.engagement.SubmitReview(r.Context(), placeID, req.Rating, req.Comment)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}

// UpdateReview handles PUT /api/places/{id}/reviews/{reviewId}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	placeID, ok := parsePlaceID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "place id must be a positive integer")
		return
	}
	reviewID, ok := parseReviewID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "review id must be a positive integer")
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.engagement.UpdateReview(r.Context(), placeID, reviewID, req.Rating, req.Comment)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

// DeleteReview handles DELETE /api/places/{id}/reviews/{reviewId}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	placeID, ok := parsePlaceID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "place id must be a positive integer")
		return
	}
	reviewID, ok := parseReviewID(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "review id must be a positive integer")
		return
	}

	if err := h.engagement.DeleteReview(r.Context(), placeID, reviewID); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseReviewID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("reviewId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
