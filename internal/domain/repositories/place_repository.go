package repositories

import (
	"context"

	"github.com/placeradar/backend/internal/domain/entities"
)

// PlaceRepository exposes single-place reads from the backend
type PlaceRepository interface {
	GetByID(ctx context.Context, id int64) (*entities.Place, error)
}
