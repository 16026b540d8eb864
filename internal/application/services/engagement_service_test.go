package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/placeradar/backend/internal/application/services"
	"github.com/placeradar/backend/internal/domain/entities"
	apperrors "github.com/placeradar/backend/pkg/errors"
)

// Mocks

type MockEngagementRepository struct {
	mock.Mock
}

func (m *MockEngagementRepository) Favorites(ctx context.Context) ([]entities.Place, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Place), args.Error(1)
}

func (m *MockEngagementRepository) Visited(ctx context.Context) ([]entities.Place, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Place), args.Error(1)
}

func (m *MockEngagementRepository) AddFavorite(ctx context.Context, placeID int64) error {
	return m.Called(ctx, placeID).Error(0)
}

func (m *MockEngagementRepository) RemoveFavorite(ctx context.Context, placeID int64) error {
	return m.Called(ctx, placeID).Error(0)
}

func (m *MockEngagementRepository) AddVisited(ctx context.Context, placeID int64) error {
	return m.Called(ctx, placeID).Error(0)
}

func (m *MockEngagementRepository) RemoveVisited(ctx context.Context, placeID int64) error {
	return m.Called(ctx, placeID).Error(0)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) UserReview(ctx context.Context, placeID int64) (*entities.Review, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewRepository) PlaceReviews(ctx context.Context, placeID int64, page, size int) ([]entities.Review, error) {
	args := m.Called(ctx, placeID, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Review), args.Error(1)
}

func (m *MockReviewRepository) CreateReview(ctx context.Context, placeID int64, rating int, comment string) (*entities.Review, error) {
	args := m.Called(ctx, placeID, rating, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewRepository) UpdateReview(ctx context.Context, placeID, reviewID int64, rating int, comment string) (*entities.Review, error) {
	args := m.Called(ctx, placeID, reviewID, rating, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewRepository) DeleteReview(ctx context.Context, placeID, reviewID int64) error {
	return m.Called(ctx, placeID, reviewID).Error(0)
}

// stubAuth is an AuthGateway with a fixed token
type stubAuth struct {
	token string
}

func (s *stubAuth) Token(ctx context.Context) (string, bool) {
	return s.token, s.token != ""
}

func (s *stubAuth) HandleExpiry(ctx context.Context) {}

const validComment = "A genuinely lovely spot, would visit again."

// Tests

func TestEngagementService_LoadState(t *testing.T) {
	t.Run("unauthenticated callers get trivial state with zero reads", func(t *testing.T) {
		engagements := new(MockEngagementRepository)
		reviews := new(MockReviewRepository)
		svc := services.NewEngagementService(engagements, reviews, &stubAuth{}, nil)

		state, err := svc.LoadState(context.Background(), 7)

		require.NoError(t, err)
		assert.False(t, state.IsFavorited)
		assert.False(t, state.IsVisited)
		assert.Nil(t, state.UserReview)
		engagements.AssertNotCalled(t, "Favorites", mock.Anything)
		engagements.AssertNotCalled(t, "Visited", mock.Anything)
		reviews.AssertNotCalled(t, "UserReview", mock.Anything, mock.Anything)
	})

	t.Run("derives state from the three authoritative reads", func(t *testing.T) {
		engagements := new(MockEngagementRepository)
		reviews := new(MockReviewRepository)
		svc := services.NewEngagementService(engagements, reviews, &stubAuth{token: "t"}, nil)

		engagements.On("Favorites", mock.Anything).Return([]entities.Place{{ID: 7}, {ID: 9}}, nil)
		engagements.On("Visited", mock.Anything).Return([]entities.Place{{ID: 3}}, nil)
		reviews.On("UserReview", mock.Anything, int64(7)).Return(&entities.Review{ID: 42, Rating: 5}, nil)

		state, err := svc.LoadState(context.Background(), 7)

		require.NoError(t, err)
		assert.True(t, state.IsFavorited)
		assert.False(t, state.IsVisited)
		require.NotNil(t, state.UserReview)
		assert.Equal(t, int64(42), state.UserReview.ID)
	})

	t.Run("a failed read propagates", func(t *testing.T) {
		engagements := new(MockEngagementRepository)
		reviews := new(MockReviewRepository)
		svc := services.NewEngagementService(engagements, reviews, &stubAuth{token: "t"}, nil)

		engagements.On("Favorites", mock.Anything).Return(nil, apperrors.NewUnavailableError("down", nil))
		engagements.On("Visited", mock.Anything).Return([]entities.Place{}, nil)
		reviews.On("UserReview", mock.Anything, int64(7)).Return(nil, nil)

		_, err := svc.LoadState(context.Background(), 7)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))
	})
}

func TestEngagementService_ToggleFavorite(t *testing.T) {
	t.Run("double toggle returns membership to its original state", func(t *testing.T) {
		engagements := new(MockEngagementRepository)
		reviews := new(MockReviewRepository)
		svc := services.NewEngagementService(engagements, reviews, &stubAuth{token: "t"}, nil)

		engagements.On("Favorites", mock.Anything).Return([]entities.Place{}, nil).Once()
		engagements.On("AddFavorite", mock.Anything, int64(7)).Return(nil).Once()
		engagements.On("Favorites", mock.Anything).Return([]entities.Place{{ID: 7}}, nil).Once()
		engagements.On("RemoveFavorite", mock.Anything, int64(7)).Return(nil).Once()

		first, err := svc.ToggleFavorite(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, first.Active)

		second, err := svc.ToggleFavorite(context.Background(), 7)
		require.NoError(t, err)
		assert.False(t, second.Active)
		engagements.AssertExpectations(t)
	})

	t.Run("requires authentication", func(t *testing.T) {
		svc := services.NewEngagementService(new(MockEngagementRepository), new(MockReviewRepository), &stubAuth{}, nil)

		_, err := svc.ToggleFavorite(context.Background(), 7)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	})

	t.Run("rejects a second concurrent mutation on the same place", func(t *testing.T) {
		engagements := new(MockEngagementRepository)
		svc := services.NewEngagementService(engagements, new(MockReviewRepository), &stubAuth{token: "t"}, nil)

		started := make(chan struct{})
		release := make(chan struct{})

		engagements.On("Favorites", mock.Anything).Return([]entities.Place{}, nil)
		engagements.On("AddFavorite", mock.Anything, int64(7)).Run(func(mock.Arguments) {
			close(started)
			<-release
		}).Return(nil)

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = svc.ToggleFavorite(context.Background(), 7)
		}()
		<-started

		_, err := svc.ToggleFavorite(context.Background(), 7)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

		close(release)
		<-done
	})
}

func TestEngagementService_ToggleVisited(t *testing.T) {
	t.Run("conflict means already visited and is not a failure", func(t *testing.T) {
		engagements := new(MockEngagementRepository)
		svc := services.NewEngagementService(engagements, new(MockReviewRepository), &stubAuth{token: "t"}, nil)

		engagements.On("Visited", mock.Anything).Return([]entities.Place{}, nil)
		engagements.On("AddVisited", mock.Anything, int64(7)).Return(apperrors.NewConflictError("already visited"))

		result, err := svc.ToggleVisited(context.Background(), 7)

		require.NoError(t, err)
		assert.True(t, result.AlreadyDone)
		assert.True(t, result.Active)
		assert.NotEmpty(t, result.Message)
	})

	t.Run("toggles off when currently visited", func(t *testing.T) {
		engagements := new(MockEngagementRepository)
		svc := services.NewEngagementService(engagements, new(MockReviewRepository), &stubAuth{token: "t"}, nil)

		engagements.On("Visited", mock.Anything).Return([]entities.Place{{ID: 7}}, nil)
		engagements.On("RemoveVisited", mock.Anything, int64(7)).Return(nil)

		result, err := svc.ToggleVisited(context.Background(), 7)

		require.NoError(t, err)
		assert.False(t, result.Active)
		assert.False(t, result.AlreadyDone)
	})
}

func TestEngagementService_SubmitReview(t *testing.T) {
	t.Run("rejects invalid input before any network call", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		svc := services.NewEngagementService(new(MockEngagementRepository), reviews, &stubAuth{token: "t"}, nil)

		_, err := svc.SubmitReview(context.Background(), 7, 0, validComment)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

		_, err = svc.SubmitReview(context.Background(), 7, 3, "short")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

		reviews.AssertNotCalled(t, "UserReview", mock.Anything, mock.Anything)
		reviews.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("pre-check finds an existing review and aborts locally", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		svc := services.NewEngagementService(new(MockEngagementRepository), reviews, &stubAuth{token: "t"}, nil)

		reviews.On("UserReview", mock.Anything, int64(7)).Return(&entities.Review{ID: 1}, nil)

		_, err := svc.SubmitReview(context.Background(), 7, 4, validComment)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
		reviews.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a 409 that races past the pre-check resyncs and reports already reviewed", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		svc := services.NewEngagementService(new(MockEngagementRepository), reviews, &stubAuth{token: "t"}, nil)

		reviews.On("UserReview", mock.Anything, int64(7)).Return(nil, nil).Once()
		reviews.On("CreateReview", mock.Anything, int64(7), 4, validComment).
			Return(nil, apperrors.NewConflictError("review already exists"))
		reviews.On("UserReview", mock.Anything, int64(7)).Return(&entities.Review{ID: 1}, nil).Once()

		_, err := svc.SubmitReview(context.Background(), 7, 4, validComment)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
		assert.Equal(t, "You have already reviewed this place.", apperrors.UserMessage(err))
		reviews.AssertExpectations(t)
	})

	t.Run("creates the review when none exists", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		svc := services.NewEngagementService(new(MockEngagementRepository), reviews, &stubAuth{token: "t"}, nil)

		reviews.On("UserReview", mock.Anything, int64(7)).Return(nil, nil)
		reviews.On("CreateReview", mock.Anything, int64(7), 4, validComment).
			Return(&entities.Review{ID: 42, Rating: 4}, nil)

		review, err := svc.SubmitReview(context.Background(), 7, 4, validComment)

		require.NoError(t, err)
		assert.Equal(t, int64(42), review.ID)
	})
}

func TestEngagementService_ReviewLifecycle(t *testing.T) {
	t.Run("update and delete pass through to the repository", func(t *testing.T) {
		reviews := new(MockReviewRepository)
		svc := services.NewEngagementService(new(MockEngagementRepository), reviews, &stubAuth{token: "t"}, nil)

		reviews.On("UpdateReview", mock.Anything, int64(7), int64(42), 5, validComment).
			Return(&entities.Review{ID: 42, Rating: 5}, nil)
		reviews.On("DeleteReview", mock.Anything, int64(7), int64(42)).Return(nil)

		updated, err := svc.UpdateReview(context.Background(), 7, 42, 5, validComment)
		require.NoError(t, err)
		assert.Equal(t, 5, updated.Rating)

		require.NoError(t, svc.DeleteReview(context.Background(), 7, 42))
		reviews.AssertExpectations(t)
	})
}
