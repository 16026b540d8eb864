package services

import (
	"context"
	"fmt"
	"time"

	"github.com/placeradar/backend/internal/domain/entities"
	"github.com/placeradar/backend/internal/domain/providers"
	"github.com/placeradar/backend/internal/infrastructure/observability"
)

// CacheInvalidationService drops cached responses for a place whenever an
// engagement mutation settles. It is the consolidated invalidate-and-refetch
// primitive: mutations publish events, and this service owns the cache-key
// knowledge instead of every call site duplicating it.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for engagement events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelEngagementUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to engagement updates: %w", err)
	}

	s.done = make(chan struct{})
	go s.processEvents(eventChan)
	observability.GetLogger().Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service and waits for the event loop to
// exit. Must run before the event bus closes.
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	if s.done != nil {
		<-s.done
	}
	observability.GetLogger().Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.EngagementEvent) {
	defer close(s.done)

	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				// Closed subscriber channel means the bus is gone
				return
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.EngagementEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger := observability.PlaceLogger(ctx, event.PlaceID)
	logger.Debug().
		Str("event_id", event.ID).
		Str("action", string(event.Action)).
		Msg("processing cache invalidation")

	// Feed snapshots are left to expire on their short TTL: an engagement
	// change does not reorder discovery sections, and clearing every feed key
	// on each toggle would stampede the aggregator.
	if err := s.InvalidatePlaceCache(ctx, event.PlaceID); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate place cache")
	}
}

// InvalidatePlaceCache drops all cached responses for a specific place
func (s *CacheInvalidationService) InvalidatePlaceCache(ctx context.Context, placeID int64) error {
	pattern := fmt.Sprintf("http:cache:places:%d:*", placeID)
	if err := s.cache.DeletePattern(ctx, pattern); err != nil {
		return fmt.Errorf("failed to invalidate place cache: %w", err)
	}
	return nil
}

// InvalidateFeedCache drops every stored feed snapshot. Heavy; reserved for
// maintenance and major upstream data changes.
func (s *CacheInvalidationService) InvalidateFeedCache(ctx context.Context) error {
	if err := s.cache.DeletePattern(ctx, "discovery:feed:*"); err != nil {
		return fmt.Errorf("failed to invalidate feed cache: %w", err)
	}
	return nil
}
