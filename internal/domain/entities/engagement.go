package entities

import "time"

// EngagementState holds the three per-(user, place) facts the detail screen
// renders. It is derived from authoritative reads on every view, never from a
// client-side cache.
type EngagementState struct {
	PlaceID     int64   `json:"placeId"`
	IsFavorited bool    `json:"isFavorited"`
	IsVisited   bool    `json:"isVisited"`
	UserReview  *Review `json:"userReview"`
}

// EngagementAction names a mutation on engagement state
type EngagementAction string

const (
	ActionFavorite EngagementAction = "favorite"
	ActionVisited  EngagementAction = "visited"
	ActionReview   EngagementAction = "review"
)

// EngagementEvent is published after a successful engagement mutation so that
// cached responses for the affected place can be invalidated.
type EngagementEvent struct {
	ID        string           `json:"id"`
	PlaceID   int64            `json:"placeId"`
	Action    EngagementAction `json:"action"`
	Timestamp time.Time        `json:"timestamp"`
}

// ToggleResult reports the outcome of a favorite/visited toggle. AlreadyDone
// is set when the backend answered 409: the state already matched the intent,
// which is informational, not a failure.
type ToggleResult struct {
	PlaceID     int64  `json:"placeId"`
	Active      bool   `json:"active"`
	AlreadyDone bool   `json:"alreadyDone"`
	Message     string `json:"message,omitempty"`
}
