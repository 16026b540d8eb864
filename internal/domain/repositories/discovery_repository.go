package repositories

import (
	"context"

	"github.com/placeradar/backend/internal/domain/entities"
)

// SearchParams are the parameters of the generic place search endpoint
type SearchParams struct {
	Latitude      float64
	Longitude     float64
	CategoryID    *int64
	MaxDistanceKm float64
	Sort          string
	Page          int
	Size          int
}

// DiscoveryRepository exposes the backend's discovery sources. Each method is
// one independently fallible source; implementations normalize every response
// shape to a plain ordered slice of places before returning.
type DiscoveryRepository interface {
	Trending(ctx context.Context, loc entities.Location, limit int) ([]entities.Place, error)
	PopularThisWeek(ctx context.Context, loc entities.Location, limit int) ([]entities.Place, error)
	HiddenGems(ctx context.Context, loc entities.Location, limit int) ([]entities.Place, error)
	NearbyActive(ctx context.Context, loc entities.Location, limit int) ([]entities.Place, error)
	Search(ctx context.Context, params SearchParams) ([]entities.Place, error)
}
