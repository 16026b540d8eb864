package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placeradar/backend/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:9090", cfg.PlacesAPI.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.PlacesAPI.Timeout)

	// Istanbul is the fallback location when the caller supplies none
	assert.InDelta(t, 41.0082, cfg.Discovery.DefaultLatitude, 0.0001)
	assert.InDelta(t, 28.9784, cfg.Discovery.DefaultLongitude, 0.0001)
	assert.Equal(t, 12, cfg.Discovery.SectionLimit)
	assert.InDelta(t, 50.0, cfg.Discovery.FallbackRadiusKm, 0.0001)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("DISCOVERY_SECTION_LIMIT", "6")
	t.Setenv("DISCOVERY_SOURCE_TIMEOUT", "3s")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 6, cfg.Discovery.SectionLimit)
	assert.Equal(t, 3*time.Second, cfg.Discovery.SourceTimeout)
	assert.Equal(t, "cache.internal:6380", cfg.Redis.RedisAddr())
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("DISCOVERY_DEFAULT_LAT", "garbage")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 41.0082, cfg.Discovery.DefaultLatitude, 0.0001)
}
