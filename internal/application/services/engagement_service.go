package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/placeradar/backend/internal/domain/entities"
	"github.com/placeradar/backend/internal/domain/providers"
	"github.com/placeradar/backend/internal/domain/repositories"
	"github.com/placeradar/backend/internal/infrastructure/observability"
	apperrors "github.com/placeradar/backend/pkg/errors"
)

// EngagementService reconciles per-(user, place) engagement facts against
// authoritative backend reads and exposes the mutation operations. State is
// never derived from a local cache: every load is a fresh read.
type EngagementService struct {
	engagements repositories.EngagementRepository
	reviews     repositories.ReviewRepository
	auth        providers.AuthGateway
	eventBus    providers.EventBus

	// inFlight rejects a second concurrent mutation on the same
	// (place, action) pair. Two rapid toggles before the first confirms is a
	// known race; the second one is refused, not queued.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewEngagementService creates a new engagement reconciliation service
func NewEngagementService(
	engagements repositories.EngagementRepository,
	reviews repositories.ReviewRepository,
	auth providers.AuthGateway,
	eventBus providers.EventBus,
) *EngagementService {
	return &EngagementService{
		engagements: engagements,
		reviews:     reviews,
		auth:        auth,
		eventBus:    eventBus,
		inFlight:    make(map[string]struct{}),
	}
}

// LoadState derives the caller's engagement state for a place from three
// independent authoritative reads. Unauthenticated callers get the trivial
// state without any upstream call.
func (s *EngagementService) LoadState(ctx context.Context, placeID int64) (*entities.EngagementState, error) {
	state := &entities.EngagementState{PlaceID: placeID}

	if _, ok := s.auth.Token(ctx); !ok {
		return state, nil
	}

	var (
		wg        sync.WaitGroup
		favorites []entities.Place
		visited   []entities.Place
		review    *entities.Review
		errs      [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		favorites, errs[0] = s.engagements.Favorites(ctx)
	}()
	go func() {
		defer wg.Done()
		visited, errs[1] = s.engagements.Visited(ctx)
	}()
	go func() {
		defer wg.Done()
		review, errs[2] = s.reviews.UserReview(ctx, placeID)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	state.IsFavorited = containsPlace(favorites, placeID)
	state.IsVisited = containsPlace(visited, placeID)
	state.UserReview = review
	return state, nil
}

// ToggleFavorite adds or removes the place from the caller's favorites based
// on current authoritative membership.
func (s *EngagementService) ToggleFavorite(ctx context.Context, placeID int64) (*entities.ToggleResult, error) {
	if _, ok := s.auth.Token(ctx); !ok {
		return nil, apperrors.NewUnauthorizedError("sign in required")
	}
	release, err := s.acquire(placeID, entities.ActionFavorite)
	if err != nil {
		return nil, err
	}
	defer release()

	favorites, err := s.engagements.Favorites(ctx)
	if err != nil {
		return nil, err
	}

	favorited := containsPlace(favorites, placeID)
	if favorited {
		err = s.engagements.RemoveFavorite(ctx, placeID)
	} else {
		err = s.engagements.AddFavorite(ctx, placeID)
	}
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, placeID, entities.ActionFavorite)
	return &entities.ToggleResult{PlaceID: placeID, Active: !favorited}, nil
}

// ToggleVisited adds or removes the place from the caller's visited list. A
// 409 from the backend means the state already matched the intent and is
// reported as informational, not as a failure.
func (s *EngagementService) ToggleVisited(ctx context.Context, placeID int64) (*entities.ToggleResult, error) {
	if _, ok := s.auth.Token(ctx); !ok {
		return nil, apperrors.NewUnauthorizedError("sign in required")
	}
	release, err := s.acquire(placeID, entities.ActionVisited)
	if err != nil {
		return nil, err
	}
	defer release()

	visited, err := s.engagements.Visited(ctx)
	if err != nil {
		return nil, err
	}

	wasVisited := containsPlace(visited, placeID)
	if wasVisited {
		err = s.engagements.RemoveVisited(ctx, placeID)
	} else {
		err = s.engagements.AddVisited(ctx, placeID)
	}
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			return &entities.ToggleResult{
				PlaceID:     placeID,
				Active:      true,
				AlreadyDone: true,
				Message:     "You have already marked this place as visited.",
			}, nil
		}
		return nil, err
	}

	s.publishEvent(ctx, placeID, entities.ActionVisited)
	return &entities.ToggleResult{PlaceID: placeID, Active: !wasVisited}, nil
}

// SubmitReview creates the caller's review for a place. At most one review
// per (user, place) exists; a fresh pre-check catches an existing review
// before any network write, and a 409 that slips through the pre-check race
// is resolved by refetching and reporting "already reviewed".
func (s *EngagementService) SubmitReview(ctx context.Context, placeID int64, rating int, comment string) (*entities.Review, error) {
	if _, ok := s.auth.Token(ctx); !ok {
		return nil, apperrors.NewUnauthorizedError("sign in required")
	}
	if msg, ok := entities.ValidateReviewInput(rating, comment); !ok {
		return nil, apperrors.NewValidationError(msg)
	}
	release, err := s.acquire(placeID, entities.ActionReview)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.reviews.UserReview(ctx, placeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("You have already reviewed this place.")
	}

	review, err := s.reviews.CreateReview(ctx, placeID, rating, comment)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			// The pre-check raced another session. Resync authoritative
			// state before reporting the conflict.
			if _, refetchErr := s.reviews.UserReview(ctx, placeID); refetchErr != nil {
				observability.PlaceLogger(ctx, placeID).Warn().
					Err(refetchErr).
					Msg("failed to resync review state after conflict")
			}
			return nil, apperrors.NewConflictError("You have already reviewed this place.")
		}
		return nil, err
	}

	s.publishEvent(ctx, placeID, entities.ActionReview)
	return review, nil
}

// UpdateReview updates the caller's existing review
func (s *EngagementService) UpdateReview(ctx context.Context, placeID, reviewID int64, rating int, comment string) (*entities.Review, error) {
	if _, ok := s.auth.Token(ctx); !ok {
		return nil, apperrors.NewUnauthorizedError("sign in required")
	}
	if msg, ok := entities.ValidateReviewInput(rating, comment); !ok {
		return nil, apperrors.NewValidationError(msg)
	}
	release, err := s.acquire(placeID, entities.ActionReview)
	if err != nil {
		return nil, err
	}
	defer release()

	review, err := s.reviews.UpdateReview(ctx, placeID, reviewID, rating, comment)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, placeID, entities.ActionReview)
	return review, nil
}

// DeleteReview removes the caller's review
func (s *EngagementService) DeleteReview(ctx context.Context, placeID, reviewID int64) error {
	if _, ok := s.auth.Token(ctx); !ok {
		return apperrors.NewUnauthorizedError("sign in required")
	}
	release, err := s.acquire(placeID, entities.ActionReview)
	if err != nil {
		return err
	}
	defer release()

	if err := s.reviews.DeleteReview(ctx, placeID, reviewID); err != nil {
		return err
	}

	s.publishEvent(ctx, placeID, entities.ActionReview)
	return nil
}

// acquire marks a (place, action) mutation as in flight. The returned release
// must be called once the mutation settles.
func (s *EngagementService) acquire(placeID int64, action entities.EngagementAction) (func(), error) {
	key := fmt.Sprintf("%d:%s", placeID, action)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[key]; busy {
		return nil, apperrors.NewConflictError("This action is already in progress.")
	}
	s.inFlight[key] = struct{}{}

	return func() {
		s.mu.Lock()
		delete(s.inFlight, key)
		s.mu.Unlock()
	}, nil
}

// publishEvent announces a settled mutation so cached responses for the place
// can be invalidated. Publish failures are logged, never surfaced: the
// mutation itself already succeeded.
func (s *EngagementService) publishEvent(ctx context.Context, placeID int64, action entities.EngagementAction) {
	if s.eventBus == nil {
		return
	}

	event := &entities.EngagementEvent{
		ID:        uuid.NewString(),
		PlaceID:   placeID,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}

	logger := observability.PlaceLogger(ctx, placeID)
	if err := s.eventBus.Publish(ctx, providers.EventChannelEngagementUpdates, event); err != nil {
		logger.Warn().Err(err).Msg("failed to publish engagement event")
		return
	}
	if err := s.eventBus.Publish(ctx, providers.GetPlaceChannel(placeID), event); err != nil {
		logger.Warn().Err(err).Msg("failed to publish place event")
	}
}

func containsPlace(places []entities.Place, placeID int64) bool {
	for _, p := range places {
		if p.ID == placeID {
			return true
		}
	}
	return false
}
