package providers

import (
	"context"
	"fmt"

	"github.com/placeradar/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// engagement events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.EngagementEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.EngagementEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelEngagementUpdates is the channel for all engagement updates
	EventChannelEngagementUpdates = "engagement:updates"

	// EventChannelPlacePrefix is the prefix for place-specific channels
	EventChannelPlacePrefix = "place:"
)

// GetPlaceChannel returns the channel name for a specific place
func GetPlaceChannel(placeID int64) string {
	return fmt.Sprintf("%s%d", EventChannelPlacePrefix, placeID)
}
