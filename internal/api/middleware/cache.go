package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/placeradar/backend/internal/domain/providers"
	"github.com/placeradar/backend/internal/infrastructure/observability"
)

// CacheConfig holds cache configuration for specific routes
type CacheConfig struct {
	TTLSeconds int
	Enabled    bool
}

// CacheMiddleware provides HTTP response caching for anonymous GET traffic.
// Authenticated requests always bypass it: the cache key carries no user
// identity, so per-user responses must never land in it.
type CacheMiddleware struct {
	cache        providers.CacheProvider
	routeConfigs map[string]CacheConfig
}

// NewCacheMiddleware creates a new cache middleware
func NewCacheMiddleware(cache providers.CacheProvider) *CacheMiddleware {
	return &CacheMiddleware{
		cache: cache,
		routeConfigs: map[string]CacheConfig{
			"/api/places/": {TTLSeconds: 300, Enabled: true}, // 5 minutes (prefix match)
		},
	}
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || m.cache == nil {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("Authorization") != "" {
			next.ServeHTTP(w, r)
			return
		}

		config := m.getRouteConfig(r.URL.Path)
		if !config.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		cacheKey := m.generateCacheKey(r)
		logger := observability.LoggerFromContext(r.Context())

		if cached, err := m.cache.Get(r.Context(), cacheKey); err == nil {
			logger.Debug().Str("key", cacheKey).Msg("response cache hit")
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write(cached); err != nil {
				logger.Warn().Err(err).Msg("failed to write cached response")
			}
			return
		}

		w.Header().Set("X-Cache", "MISS")
		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}

		next.ServeHTTP(recorder, r)

		// Only successful responses are worth keeping
		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(r.Context(), cacheKey, recorder.body.Bytes(), config.TTLSeconds); err != nil {
				logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache response")
			}
		}
	})
}

// getRouteConfig gets the cache configuration for a route
func (m *CacheMiddleware) getRouteConfig(path string) CacheConfig {
	if config, exists := m.routeConfigs[path]; exists {
		return config
	}

	// Prefix match for dynamic routes (e.g. /api/places/{id})
	for pattern, config := range m.routeConfigs {
		if strings.HasPrefix(path, pattern) {
			return config
		}
	}

	return CacheConfig{Enabled: false}
}

// generateCacheKey generates a cache key from the request
func (m *CacheMiddleware) generateCacheKey(r *http.Request) string {
	key := fmt.Sprintf("%s:%s", r.Method, r.URL.Path)
	if r.URL.RawQuery != "" {
		key += "?" + r.URL.RawQuery
	}

	// Keep the path visible in the key so event-driven invalidation can
	// target one place's entries with a pattern. Slashes become colons to
	// keep keys glob-friendly across cache backends.
	hash := sha256.Sum256([]byte(key))
	segment := strings.ReplaceAll(strings.TrimPrefix(r.URL.Path, "/api/"), "/", ":")
	return "http:cache:" + segment + ":" + hex.EncodeToString(hash[:8])
}

// CacheMiddlewareWithConfig creates a cache middleware with custom config
func CacheMiddlewareWithConfig(cache providers.CacheProvider, configs map[string]CacheConfig) func(http.Handler) http.Handler {
	m := &CacheMiddleware{
		cache:        cache,
		routeConfigs: configs,
	}
	return m.Middleware
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}

	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
