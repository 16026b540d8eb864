package services

import (
	"os"
)

type FeatureFlags struct {
	nearbyActiveEnabled  bool
	responseCacheEnabled bool
}

func NewFeatureFlags() *FeatureFlags {
	nearby := os.Getenv("FEATURE_NEARBY_ACTIVE") != "false"
	responseCache := os.Getenv("FEATURE_RESPONSE_CACHE") != "false"

	return &FeatureFlags{
		nearbyActiveEnabled:  nearby,
		responseCacheEnabled: responseCache,
	}
}

func (f *FeatureFlags) NearbyActiveEnabled() bool {
	return f.nearbyActiveEnabled
}

func (f *FeatureFlags) ResponseCacheEnabled() bool {
	return f.responseCacheEnabled
}
