package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	PlacesAPI PlacesAPIConfig
	Redis     RedisConfig
	Discovery DiscoveryConfig
	OTEL      OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// PlacesAPIConfig holds configuration for the upstream places backend
type PlacesAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DiscoveryConfig holds discovery aggregation configuration
type DiscoveryConfig struct {
	// Default location used when the caller supplies none. The mobile client
	// fell back to Istanbul, so that stays the default here.
	DefaultLatitude  float64
	DefaultLongitude float64
	SectionLimit     int
	FallbackRadiusKm float64
	SourceTimeout    time.Duration
	CacheTTLSeconds  int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
			Env:  getEnv("APP_ENV", "development"),
		},
		PlacesAPI: PlacesAPIConfig{
			BaseURL: getEnv("PLACES_API_URL", "http://localhost:9090"),
			Timeout: getEnvAsDuration("PLACES_API_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Discovery: DiscoveryConfig{
			DefaultLatitude:  getEnvAsFloat("DISCOVERY_DEFAULT_LAT", 41.0082),
			DefaultLongitude: getEnvAsFloat("DISCOVERY_DEFAULT_LNG", 28.9784),
			SectionLimit:     getEnvAsInt("DISCOVERY_SECTION_LIMIT", 12),
			FallbackRadiusKm: getEnvAsFloat("DISCOVERY_FALLBACK_RADIUS_KM", 50),
			SourceTimeout:    getEnvAsDuration("DISCOVERY_SOURCE_TIMEOUT", 8*time.Second),
			CacheTTLSeconds:  getEnvAsInt("DISCOVERY_CACHE_TTL_SECONDS", 180),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "place-discovery"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
