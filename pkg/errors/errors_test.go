package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/placeradar/backend/pkg/errors"
)

func TestFromStatus(t *testing.T) {
	cases := []struct {
		status int
		want   apperrors.ErrorType
	}{
		{http.StatusUnauthorized, apperrors.ErrorTypeUnauthorized},
		{http.StatusForbidden, apperrors.ErrorTypeForbidden},
		{http.StatusNotFound, apperrors.ErrorTypeNotFound},
		{http.StatusConflict, apperrors.ErrorTypeConflict},
		{http.StatusBadRequest, apperrors.ErrorTypeValidation},
		{http.StatusUnprocessableEntity, apperrors.ErrorTypeValidation},
		{http.StatusInternalServerError, apperrors.ErrorTypeExternal},
		{http.StatusBadGateway, apperrors.ErrorTypeExternal},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("status %d", tc.status), func(t *testing.T) {
			err := apperrors.FromStatus(tc.status, "upstream message")
			assert.Equal(t, tc.want, apperrors.Type(err))
		})
	}
}

func TestIsType(t *testing.T) {
	err := apperrors.NewConflictError("already exists")
	wrapped := fmt.Errorf("mutation failed: %w", err)

	assert.True(t, apperrors.IsType(wrapped, apperrors.ErrorTypeConflict))
	assert.False(t, apperrors.IsType(wrapped, apperrors.ErrorTypeNotFound))
	assert.False(t, apperrors.IsType(fmt.Errorf("plain"), apperrors.ErrorTypeConflict))
}

func TestUserMessage(t *testing.T) {
	t.Run("storage vocabulary never reaches the user", func(t *testing.T) {
		leaky := []string{
			`null value in column "user_id" violates not-null constraint`,
			"duplicate key value violates unique constraint",
			"SQL syntax error near SELECT",
			`relation "reviews" does not exist`,
		}

		for _, message := range leaky {
			got := apperrors.UserMessage(apperrors.NewConflictError(message))
			assert.NotContains(t, got, "null value")
			assert.NotContains(t, got, "constraint")
			assert.NotContains(t, got, "SQL")
			assert.NotContains(t, got, "relation")
			assert.Equal(t, "Something went wrong. Please try again.", got)
		}
	})

	t.Run("clean validation messages pass through", func(t *testing.T) {
		err := apperrors.NewValidationError("rating must be between 1 and 5")
		assert.Equal(t, "rating must be between 1 and 5", apperrors.UserMessage(err))
	})

	t.Run("types map to friendly messages", func(t *testing.T) {
		assert.Equal(t, "Please sign in to continue.",
			apperrors.UserMessage(apperrors.NewUnauthorizedError("token expired")))
		assert.Equal(t, "Network error. Please check your connection and try again.",
			apperrors.UserMessage(apperrors.NewUnavailableError("dial tcp refused", nil)))
		assert.Equal(t, "Server error. Please try again later.",
			apperrors.UserMessage(apperrors.NewExternalError("status 500", nil)))
	})

	t.Run("non-app errors get the generic message", func(t *testing.T) {
		assert.Equal(t, "Something went wrong. Please try again.",
			apperrors.UserMessage(fmt.Errorf("raw internal detail")))
	})
}
