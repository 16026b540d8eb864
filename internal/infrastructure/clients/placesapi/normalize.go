package placesapi

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/placeradar/backend/internal/domain/entities"
	apperrors "github.com/placeradar/backend/pkg/errors"
)

// The backend answers discovery and list endpoints with one of three shapes:
// a bare array, an object wrapping the array under "places", or a paginated
// object wrapping it under "content". Normalization flattens all three to a
// plain ordered slice right at this boundary.

type placeEnvelope struct {
	Places  []json.RawMessage `json:"places"`
	Content []json.RawMessage `json:"content"`
}

// NormalizePlaces decodes any of the known response shapes into places.
// Elements that cannot be decoded at all are skipped rather than failing the
// whole response; coordinate validation happens downstream.
func NormalizePlaces(raw json.RawMessage) ([]entities.Place, error) {
	elements, err := unwrap(raw)
	if err != nil {
		return nil, err
	}

	places := make([]entities.Place, 0, len(elements))
	for _, element := range elements {
		// Absent coordinates must read as invalid, not as 0,0
		wire := placeWire{
			Latitude:  flexFloat(math.NaN()),
			Longitude: flexFloat(math.NaN()),
		}
		if err := json.Unmarshal(element, &wire); err != nil {
			continue
		}
		places = append(places, wire.toPlace())
	}
	return places, nil
}

// NormalizeReviews decodes a bare array or paginated review response
func NormalizeReviews(raw json.RawMessage) ([]entities.Review, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var reviews []entities.Review
		if err := json.Unmarshal(raw, &reviews); err != nil {
			return nil, apperrors.NewExternalError("failed to decode reviews", err)
		}
		return reviews, nil
	}

	var envelope struct {
		Content []entities.Review `json:"content"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, apperrors.NewExternalError("failed to decode reviews", err)
	}
	return envelope.Content, nil
}

func unwrap(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var elements []json.RawMessage
		if err := json.Unmarshal(raw, &elements); err != nil {
			return nil, apperrors.NewExternalError("failed to decode place list", err)
		}
		return elements, nil
	}

	var envelope placeEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, apperrors.NewExternalError("failed to decode place envelope", err)
	}
	if envelope.Places != nil {
		return envelope.Places, nil
	}
	return envelope.Content, nil
}

// placeWire mirrors entities.Place but decodes coordinates leniently: the
// backend has been observed to emit numbers, numeric strings, and garbage
// like "NaN". Anything unparseable becomes NaN and fails validation later
// instead of poisoning the whole response.
type placeWire struct {
	entities.Place
	Latitude  flexFloat `json:"latitude"`
	Longitude flexFloat `json:"longitude"`
}

func (w *placeWire) toPlace() entities.Place {
	place := w.Place
	place.Latitude = float64(w.Latitude)
	place.Longitude = float64(w.Longitude)
	return place
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "" || text == "null" {
		*f = flexFloat(math.NaN())
		return nil
	}
	text = strings.Trim(text, `"`)
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		*f = flexFloat(math.NaN())
		return nil
	}
	*f = flexFloat(value)
	return nil
}
