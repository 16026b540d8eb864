package location

import (
	"context"

	"github.com/placeradar/backend/internal/domain/entities"
	"github.com/placeradar/backend/internal/domain/providers"
)

// DefaultResolver substitutes a configured fallback location whenever the
// caller supplies no coordinates or coordinates outside the valid ranges.
type DefaultResolver struct {
	fallback entities.Location
}

// NewDefaultResolver creates a resolver with the given fallback location
func NewDefaultResolver(fallbackLat, fallbackLng float64) providers.LocationResolver {
	return &DefaultResolver{
		fallback: entities.Location{Latitude: fallbackLat, Longitude: fallbackLng},
	}
}

// Resolve returns the caller's location, or the fallback when absent or invalid
func (r *DefaultResolver) Resolve(ctx context.Context, lat, lng *float64) entities.Location {
	if lat == nil || lng == nil {
		return r.fallback
	}

	loc := entities.Location{Latitude: *lat, Longitude: *lng}
	if !loc.Valid() {
		return r.fallback
	}
	return loc
}
