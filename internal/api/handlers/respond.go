package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/placeradar/backend/internal/infrastructure/observability"
	apperrors "github.com/placeradar/backend/pkg/errors"
)

// respondWithJSON writes a JSON response with the given status code
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError writes a JSON error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an application error to its HTTP status and a
// sanitized user-facing message. Raw upstream text never reaches the client.
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForType(apperrors.Type(err))
	if status >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("request failed")
	}
	respondWithError(w, status, apperrors.UserMessage(err))
}

func statusForType(t apperrors.ErrorType) int {
	switch t {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorTypeConflict:
		return http.StatusConflict
	case apperrors.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrorTypeForbidden:
		return http.StatusForbidden
	case apperrors.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	case apperrors.ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// parsePlaceID extracts the place id path parameter
func parsePlaceID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
