package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/placeradar/backend/internal/api/handlers"
	"github.com/placeradar/backend/internal/domain/entities"
	apperrors "github.com/placeradar/backend/pkg/errors"
)

type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) GetByID(ctx context.Context, id int64) (*entities.Place, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Place), args.Error(1)
}

type MockReviewReader struct {
	mock.Mock
}

func (m *MockReviewReader) UserReview(ctx context.Context, placeID int64) (*entities.Review, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Review), args.Error(1)
}

func (m *MockReviewReader) PlaceReviews(ctx context.Context, placeID int64, page, size int) ([]entities.Review, error) {
	args := m.Called(ctx, placeID, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Review), args.Error(1)
}

func (m *MockReviewReader) CreateReview(ctx context.Context, placeID int64, rating int, comment string) (*entities.Review, error) {
	return nil, nil
}

func (m *MockReviewReader) UpdateReview(ctx context.Context, placeID, reviewID int64, rating int, comment string) (*entities.Review, error) {
	return nil, nil
}

func (m *MockReviewReader) DeleteReview(ctx context.Context, placeID, reviewID int64) error {
	return nil
}

func serveGetPlace(t *testing.T, handler *handlers.PlaceHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/places/{id}", handler.GetPlace)
	mux.HandleFunc("GET /api/places/{id}/reviews", handler.GetPlaceReviews)

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func TestPlaceHandler_GetPlace(t *testing.T) {
	t.Run("returns the place", func(t *testing.T) {
		places := new(MockPlaceRepository)
		places.On("GetByID", mock.Anything, int64(7)).
			Return(&entities.Place{ID: 7, Name: "Kadikoy Market", Latitude: 41, Longitude: 29}, nil)

		handler := handlers.NewPlaceHandler(places, new(MockReviewReader))
		recorder := serveGetPlace(t, handler, "/api/places/7")

		require.Equal(t, http.StatusOK, recorder.Code)
		var place entities.Place
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &place))
		assert.Equal(t, "Kadikoy Market", place.Name)
	})

	t.Run("maps not found to 404 with a safe message", func(t *testing.T) {
		places := new(MockPlaceRepository)
		places.On("GetByID", mock.Anything, int64(404)).
			Return(nil, apperrors.NewNotFoundError("resource not found"))

		handler := handlers.NewPlaceHandler(places, new(MockReviewReader))
		recorder := serveGetPlace(t, handler, "/api/places/404")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("rejects a non-numeric id", func(t *testing.T) {
		handler := handlers.NewPlaceHandler(new(MockPlaceRepository), new(MockReviewReader))
		recorder := serveGetPlace(t, handler, "/api/places/abc")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("upstream errors never leak their message", func(t *testing.T) {
		places := new(MockPlaceRepository)
		places.On("GetByID", mock.Anything, int64(7)).
			Return(nil, apperrors.NewExternalError("status 500: null value in column", nil))

		handler := handlers.NewPlaceHandler(places, new(MockReviewReader))
		recorder := serveGetPlace(t, handler, "/api/places/7")

		assert.Equal(t, http.StatusBadGateway, recorder.Code)
		assert.NotContains(t, recorder.Body.String(), "null value")
	})
}

func TestPlaceHandler_GetPlaceReviews(t *testing.T) {
	t.Run("clamps pagination to sane defaults", func(t *testing.T) {
		reviews := new(MockReviewReader)
		reviews.On("PlaceReviews", mock.Anything, int64(7), 0, 20).
			Return([]entities.Review{{ID: 1, Rating: 5}}, nil)

		handler := handlers.NewPlaceHandler(new(MockPlaceRepository), reviews)
		recorder := serveGetPlace(t, handler, "/api/places/7/reviews?page=-3&size=5000")

		require.Equal(t, http.StatusOK, recorder.Code)
		reviews.AssertExpectations(t)
	})
}
