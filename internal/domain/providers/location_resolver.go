package providers

import (
	"context"

	"github.com/placeradar/backend/internal/domain/entities"
)

// LocationResolver turns optional caller-supplied coordinates into a usable
// location. Aggregation never runs without one: when the caller's coordinates
// are absent or invalid, a configured default is substituted.
type LocationResolver interface {
	Resolve(ctx context.Context, lat, lng *float64) entities.Location
}
