package repositories

import (
	"context"

	"github.com/placeradar/backend/internal/domain/entities"
)

// EngagementRepository exposes the authenticated per-user engagement reads
// and mutations. Reads always hit the backend; nothing here is served from a
// local cache, so every call reflects server truth at the time it returns.
type EngagementRepository interface {
	// Favorites returns the caller's favorited places
	Favorites(ctx context.Context) ([]entities.Place, error)

	// Visited returns the caller's visited places
	Visited(ctx context.Context) ([]entities.Place, error)

	AddFavorite(ctx context.Context, placeID int64) error
	RemoveFavorite(ctx context.Context, placeID int64) error

	AddVisited(ctx context.Context, placeID int64) error
	RemoveVisited(ctx context.Context, placeID int64) error
}

// ReviewRepository exposes the per-place review operations
type ReviewRepository interface {
	// UserReview returns the caller's review of a place, or nil when the
	// backend answers 404 (no review yet).
	UserReview(ctx context.Context, placeID int64) (*entities.Review, error)

	PlaceReviews(ctx context.Context, placeID int64, page, size int) ([]entities.Review, error)

	CreateReview(ctx context.Context, placeID int64, rating int, comment string) (*entities.Review, error)
	UpdateReview(ctx context.Context, placeID, reviewID int64, rating int, comment string) (*entities.Review, error)
	DeleteReview(ctx context.Context, placeID, reviewID int64) error
}
