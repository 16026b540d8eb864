package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/placeradar/backend/internal/domain/entities"
	"github.com/placeradar/backend/internal/domain/providers"
	"github.com/placeradar/backend/internal/domain/repositories"
	"github.com/placeradar/backend/internal/infrastructure/observability"
	"github.com/placeradar/backend/pkg/config"
)

const fallbackPageSize = 20

// DiscoveryService aggregates the independent discovery sources into one
// ordered feed. Every source is independently fallible: a failed or tripped
// source degrades to an empty section, never aborts the others.
type DiscoveryService struct {
	repo     repositories.DiscoveryRepository
	cache    providers.CacheProvider
	flags    *FeatureFlags
	metrics  *observability.Metrics
	cfg      config.DiscoveryConfig
	breakers map[entities.DiscoverySource]*gobreaker.CircuitBreaker
	tracker  *feedTracker
}

// NewDiscoveryService creates a new discovery aggregation service
func NewDiscoveryService(
	repo repositories.DiscoveryRepository,
	cache providers.CacheProvider,
	flags *FeatureFlags,
	metrics *observability.Metrics,
	cfg config.DiscoveryConfig,
) *DiscoveryService {
	breakers := make(map[entities.DiscoverySource]*gobreaker.CircuitBreaker)
	for _, source := range entities.SectionOrder {
		breakers[source] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        string(source),
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		})
	}

	return &DiscoveryService{
		repo:     repo,
		cache:    cache,
		flags:    flags,
		metrics:  metrics,
		cfg:      cfg,
		breakers: breakers,
		tracker:  newFeedTracker(),
	}
}

// Aggregate fans out to every discovery source concurrently and merges the
// settled results into an ordered section list. Source failures are swallowed
// here: they produce empty sections and are never propagated to the caller.
func (s *DiscoveryService) Aggregate(ctx context.Context, loc entities.Location, limit int) (*entities.DiscoveryFeed, error) {
	if limit <= 0 {
		limit = s.cfg.SectionLimit
	}

	key := feedKey(loc, limit)
	gen := s.tracker.begin(key)

	logger := observability.LoggerFromContext(ctx)

	type sourceFetch struct {
		source entities.DiscoverySource
		fetch  func(context.Context) ([]entities.Place, error)
	}

	fetches := []sourceFetch{
		{entities.SourceNearbyActive, func(ctx context.Context) ([]entities.Place, error) {
			return s.fetchNearbyActive(ctx, loc, limit)
		}},
		{entities.SourceTrending, func(ctx context.Context) ([]entities.Place, error) {
			return s.repo.Trending(ctx, loc, limit)
		}},
		{entities.SourcePopularThisWeek, func(ctx context.Context) ([]entities.Place, error) {
			return s.repo.PopularThisWeek(ctx, loc, limit)
		}},
		{entities.SourceHiddenGems, func(ctx context.Context) ([]entities.Place, error) {
			return s.repo.HiddenGems(ctx, loc, limit)
		}},
	}

	// One result slot per source; aggregation is a pure merge once every
	// fetch has settled.
	results := make(map[entities.DiscoverySource][]entities.Place, len(fetches))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, f := range fetches {
		wg.Add(1)
		go func(f sourceFetch) {
			defer wg.Done()

			places, err := s.fetchSource(ctx, f.source, f.fetch)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("source", string(f.source)).
					Msg("discovery source failed, degrading to empty section")
				return
			}

			mu.Lock()
			results[f.source] = places
			mu.Unlock()
		}(f)
	}
	wg.Wait()

	sections := make([]entities.DiscoverySection, 0, len(entities.SectionOrder))
	for _, source := range entities.SectionOrder {
		if source == entities.SourceFallback {
			continue
		}
		places := sanitizePlaces(results[source])
		if len(places) == 0 {
			continue
		}
		sections = append(sections, entities.DiscoverySection{
			Source: source,
			Title:  entities.SectionTitles[source],
			Places: places,
		})
	}

	feed := &entities.DiscoveryFeed{
		Sections:    sections,
		Location:    loc,
		GeneratedAt: time.Now().UTC(),
	}

	// Fallback search runs only when every primary source came back empty.
	if len(sections) == 0 {
		fallback := sanitizePlaces(s.fetchFallback(ctx, loc))
		if len(fallback) > 0 {
			feed.Sections = append(feed.Sections, entities.DiscoverySection{
				Source: entities.SourceFallback,
				Title:  entities.SectionTitles[entities.SourceFallback],
				Places: fallback,
			})
		} else {
			feed.Empty = true
		}
	}

	s.storeSnapshot(ctx, key, gen, feed)
	return feed, nil
}

// Snapshot returns the last stored feed for the given inputs, or nil when
// none exists or the snapshot can no longer be decoded.
func (s *DiscoveryService) Snapshot(ctx context.Context, loc entities.Location, limit int) *entities.DiscoveryFeed {
	if s.cache == nil {
		return nil
	}
	if limit <= 0 {
		limit = s.cfg.SectionLimit
	}

	data, err := s.cache.Get(ctx, feedKey(loc, limit))
	if err != nil {
		if s.metrics != nil {
			observability.RecordCacheMiss(ctx, s.metrics, "discovery:feed")
		}
		return nil
	}

	var feed entities.DiscoveryFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil
	}
	if s.metrics != nil {
		observability.RecordCacheHit(ctx, s.metrics, "discovery:feed")
	}
	return &feed
}

// fetchSource runs one source fetch behind its circuit breaker and timeout
func (s *DiscoveryService) fetchSource(
	ctx context.Context,
	source entities.DiscoverySource,
	fetch func(context.Context) ([]entities.Place, error),
) ([]entities.Place, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.breakers[source].Execute(func() (interface{}, error) {
		return fetch(fetchCtx)
	})
	if s.metrics != nil {
		observability.RecordSourceFetch(ctx, s.metrics, string(source), time.Since(start), err != nil)
	}
	if err != nil {
		return nil, err
	}

	places, _ := result.([]entities.Place)
	return places, nil
}

// fetchNearbyActive tries the dedicated endpoint first and falls back once to
// a distance-sorted generic search. The fallback is attempted once per
// aggregate call, never retried.
func (s *DiscoveryService) fetchNearbyActive(ctx context.Context, loc entities.Location, limit int) ([]entities.Place, error) {
	if !s.flags.NearbyActiveEnabled() {
		return nil, nil
	}

	places, err := s.repo.NearbyActive(ctx, loc, limit)
	if err == nil {
		return places, nil
	}

	observability.LoggerFromContext(ctx).Debug().
		Err(err).
		Msg("nearby-active endpoint failed, falling back to distance search")

	return s.repo.Search(ctx, repositories.SearchParams{
		Latitude:      loc.Latitude,
		Longitude:     loc.Longitude,
		MaxDistanceKm: s.cfg.FallbackRadiusKm,
		Sort:          "distance",
		Page:          0,
		Size:          limit,
	})
}

// fetchFallback is the ultimate rating-sorted search, widened once when the
// first radius finds nothing.
func (s *DiscoveryService) fetchFallback(ctx context.Context, loc entities.Location) []entities.Place {
	logger := observability.LoggerFromContext(ctx)

	for _, radius := range []float64{s.cfg.FallbackRadiusKm, s.cfg.FallbackRadiusKm * 2} {
		places, err := s.fetchSource(ctx, entities.SourceFallback, func(ctx context.Context) ([]entities.Place, error) {
			return s.repo.Search(ctx, repositories.SearchParams{
				Latitude:      loc.Latitude,
				Longitude:     loc.Longitude,
				MaxDistanceKm: radius,
				Sort:          "rating",
				Page:          0,
				Size:          fallbackPageSize,
			})
		})
		if err != nil {
			logger.Warn().Err(err).Float64("radius_km", radius).Msg("fallback search failed")
			continue
		}
		if len(places) > 0 {
			return places
		}
	}
	return nil
}

// storeSnapshot persists the feed unless a newer aggregation for the same key
// has begun in the meantime. Stale results are discarded, not stored.
func (s *DiscoveryService) storeSnapshot(ctx context.Context, key string, gen uint64, feed *entities.DiscoveryFeed) {
	if s.cache == nil {
		return
	}

	logger := observability.LoggerFromContext(ctx)
	if !s.tracker.isCurrent(key, gen) {
		logger.Debug().Str("key", key).Msg("discarding superseded feed snapshot")
		return
	}

	data, err := json.Marshal(feed)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to marshal feed snapshot")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cfg.CacheTTLSeconds); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("failed to store feed snapshot")
	}
}

// sanitizePlaces drops places with invalid coordinates and deduplicates by id
// within the section. Downstream map rendering cannot tolerate invalid
// coordinates, so this is enforced unconditionally.
func sanitizePlaces(places []entities.Place) []entities.Place {
	if len(places) == 0 {
		return nil
	}

	seen := make(map[int64]struct{}, len(places))
	clean := make([]entities.Place, 0, len(places))
	for _, p := range places {
		if !p.Location().Valid() {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		clean = append(clean, p)
	}
	return clean
}

func feedKey(loc entities.Location, limit int) string {
	return fmt.Sprintf("discovery:feed:%.4f:%.4f:%d", loc.Latitude, loc.Longitude, limit)
}
