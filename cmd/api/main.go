package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/placeradar/backend/internal/adapters/cache"
	"github.com/placeradar/backend/internal/adapters/events"
	"github.com/placeradar/backend/internal/adapters/providers/auth"
	"github.com/placeradar/backend/internal/adapters/providers/location"
	"github.com/placeradar/backend/internal/api/handlers"
	"github.com/placeradar/backend/internal/api/middleware"
	"github.com/placeradar/backend/internal/api/routes"
	"github.com/placeradar/backend/internal/application/services"
	"github.com/placeradar/backend/internal/domain/providers"
	"github.com/placeradar/backend/internal/infrastructure/clients/placesapi"
	"github.com/placeradar/backend/internal/infrastructure/clients/redis"
	"github.com/placeradar/backend/internal/infrastructure/observability"
	"github.com/placeradar/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OpenTelemetry is optional; the service runs fine without an exporter
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Redis is optional: without it the service degrades to an in-process
	// LRU cache and loses event-driven invalidation, nothing else.
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, falling back to in-memory cache")
		redisClient = nil
	} else {
		defer redisClient.Close()
		log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("redis client initialized")
	}

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	} else {
		cacheProvider, err = cache.NewMemoryAdapter(0)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize in-memory cache")
		}
	}

	var eventBus providers.EventBus
	if redisClient != nil {
		eventBus = events.NewRedisEventBus(redisClient)
		log.Info().Msg("event bus initialized")
	} else {
		log.Warn().Msg("event bus disabled (redis unavailable)")
	}

	authGateway := auth.NewContextGateway()
	locationResolver := location.NewDefaultResolver(
		cfg.Discovery.DefaultLatitude,
		cfg.Discovery.DefaultLongitude,
	)

	placesClient := placesapi.NewClient(cfg.PlacesAPI.BaseURL, cfg.PlacesAPI.Timeout, authGateway)
	flags := services.NewFeatureFlags()

	discoveryService := services.NewDiscoveryService(
		placesClient,
		cacheProvider,
		flags,
		metrics,
		cfg.Discovery,
	)
	engagementService := services.NewEngagementService(
		placesClient,
		placesClient,
		authGateway,
		eventBus,
	)

	var cacheInvalidationService *services.CacheInvalidationService
	if eventBus != nil {
		cacheInvalidationService = services.NewCacheInvalidationService(cacheProvider, eventBus)
		if err := cacheInvalidationService.Start(); err != nil {
			log.Warn().Err(err).Msg("failed to start cache invalidation service")
		}
	}

	discoveryHandler := handlers.NewDiscoveryHandler(discoveryService, locationResolver)
	placeHandler := handlers.NewPlaceHandler(placesClient, placesClient)
	engagementHandler := handlers.NewEngagementHandler(engagementService)
	reviewHandler := handlers.NewReviewHandler(engagementService)

	var cacheMiddleware *middleware.CacheMiddleware
	if flags.ResponseCacheEnabled() {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	router := routes.NewRouter(
		discoveryHandler,
		placeHandler,
		engagementHandler,
		reviewHandler,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Stop the invalidation consumer before closing the bus that feeds it
	if cacheInvalidationService != nil {
		cacheInvalidationService.Stop()
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}
