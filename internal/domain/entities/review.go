package entities

import (
	"strings"
	"time"
)

const (
	// MinReviewCommentLength is the shortest comment the backend accepts.
	MinReviewCommentLength = 10

	// MaxReviewCommentLength matches the client-side input cap.
	MaxReviewCommentLength = 500
)

// Review is a user's review of a place. The backend enforces at most one
// review per (user, place); a second creation attempt conflicts.
type Review struct {
	ID           int64     `json:"id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	User         *User     `json:"user,omitempty"`
	HelpfulCount *int      `json:"helpfulCount,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ValidateReviewInput checks a rating/comment pair before any network call.
// The server remains the final authority; this only avoids a wasted round trip.
func ValidateReviewInput(rating int, comment string) (string, bool) {
	if rating < 1 || rating > 5 {
		return "rating must be between 1 and 5", false
	}
	trimmed := strings.TrimSpace(comment)
	if trimmed == "" {
		return "comment is required", false
	}
	if len(trimmed) < MinReviewCommentLength {
		return "comment must be at least 10 characters", false
	}
	if len(trimmed) > MaxReviewCommentLength {
		return "comment is too long", false
	}
	return "", true
}
