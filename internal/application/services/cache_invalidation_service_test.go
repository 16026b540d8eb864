package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placeradar/backend/internal/adapters/cache"
	"github.com/placeradar/backend/internal/domain/entities"
)

// channelEventBus feeds the invalidation service from a plain channel,
// standing in for the redis subscription.
type channelEventBus struct {
	events chan *entities.EngagementEvent
}

func newChannelEventBus() *channelEventBus {
	return &channelEventBus{events: make(chan *entities.EngagementEvent, 8)}
}

func (b *channelEventBus) Publish(ctx context.Context, channel string, event *entities.EngagementEvent) error {
	b.events <- event
	return nil
}

func (b *channelEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.EngagementEvent, error) {
	return b.events, nil
}

func (b *channelEventBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *channelEventBus) Close() error {
	close(b.events)
	return nil
}

func TestCacheInvalidationService_InvalidatesPlaceEntries(t *testing.T) {
	ctx := context.Background()

	adapter, err := cache.NewMemoryAdapter(16)
	require.NoError(t, err)
	require.NoError(t, adapter.Set(ctx, "http:cache:places:7:aaa", []byte("a"), 60))
	require.NoError(t, adapter.Set(ctx, "http:cache:places:8:bbb", []byte("b"), 60))

	bus := newChannelEventBus()
	service := NewCacheInvalidationService(adapter, bus)
	require.NoError(t, service.Start())
	defer service.Stop()

	require.NoError(t, bus.Publish(ctx, "engagement:updates", &entities.EngagementEvent{
		ID:      "evt-1",
		PlaceID: 7,
		Action:  entities.ActionFavorite,
	}))

	assert.Eventually(t, func() bool {
		_, err := adapter.Get(ctx, "http:cache:places:7:aaa")
		return err != nil
	}, 2*time.Second, 10*time.Millisecond, "place 7 entries should be invalidated")

	_, err = adapter.Get(ctx, "http:cache:places:8:bbb")
	assert.NoError(t, err, "other places must keep their cached entries")
}

func TestCacheInvalidationService_StopsWhenBusCloses(t *testing.T) {
	adapter, err := cache.NewMemoryAdapter(16)
	require.NoError(t, err)

	bus := newChannelEventBus()
	service := NewCacheInvalidationService(adapter, bus)
	require.NoError(t, service.Start())

	// Closing the bus closes the subscriber channel; the event loop must
	// treat that as terminal instead of spinning on the closed channel.
	require.NoError(t, bus.Close())

	select {
	case <-service.done:
	case <-time.After(2 * time.Second):
		t.Fatal("event loop did not exit after the subscriber channel closed")
	}
}
