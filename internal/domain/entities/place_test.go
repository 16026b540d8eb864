package entities_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/placeradar/backend/internal/domain/entities"
)

func TestLocationValid(t *testing.T) {
	valid := []entities.Location{
		{Latitude: 41.0082, Longitude: 28.9784},
		{Latitude: -90, Longitude: -180},
		{Latitude: 90, Longitude: 180},
		{Latitude: 0, Longitude: 0},
	}
	for _, loc := range valid {
		assert.True(t, loc.Valid(), "expected %+v to be valid", loc)
	}

	invalid := []entities.Location{
		{Latitude: 91, Longitude: 0},
		{Latitude: -95, Longitude: 0},
		{Latitude: 0, Longitude: 200},
		{Latitude: 0, Longitude: -181},
		{Latitude: math.NaN(), Longitude: 29},
		{Latitude: 41, Longitude: math.Inf(1)},
	}
	for _, loc := range invalid {
		assert.False(t, loc.Valid(), "expected %+v to be invalid", loc)
	}
}

func TestPlaceEffectiveStatus(t *testing.T) {
	assert.Equal(t, entities.PlaceStatusApproved, (&entities.Place{}).EffectiveStatus())
	assert.Equal(t, entities.PlaceStatusPending, (&entities.Place{Status: entities.PlaceStatusPending}).EffectiveStatus())
}

func TestValidateReviewInput(t *testing.T) {
	t.Run("accepts a valid review", func(t *testing.T) {
		_, ok := entities.ValidateReviewInput(4, "Great spot for a quiet afternoon")
		assert.True(t, ok)
	})

	t.Run("rejects out-of-range ratings", func(t *testing.T) {
		for _, rating := range []int{0, -1, 6} {
			msg, ok := entities.ValidateReviewInput(rating, "Great spot for a quiet afternoon")
			assert.False(t, ok)
			assert.Contains(t, msg, "rating")
		}
	})

	t.Run("rejects short or empty comments", func(t *testing.T) {
		_, ok := entities.ValidateReviewInput(4, "")
		assert.False(t, ok)

		_, ok = entities.ValidateReviewInput(4, "   ")
		assert.False(t, ok)

		_, ok = entities.ValidateReviewInput(4, "too short")
		assert.False(t, ok)
	})

	t.Run("rejects comments over the cap", func(t *testing.T) {
		_, ok := entities.ValidateReviewInput(4, strings.Repeat("a", entities.MaxReviewCommentLength+1))
		assert.False(t, ok)
	})

	t.Run("whitespace does not count toward the minimum", func(t *testing.T) {
		_, ok := entities.ValidateReviewInput(4, "  hi   ")
		assert.False(t, ok)
	})
}
