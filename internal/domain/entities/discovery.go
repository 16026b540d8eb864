package entities

import "time"

// DiscoverySource identifies one backend discovery endpoint
type DiscoverySource string

const (
	SourceNearbyActive    DiscoverySource = "nearby-active"
	SourceTrending        DiscoverySource = "trending"
	SourcePopularThisWeek DiscoverySource = "popular-this-week"
	SourceHiddenGems      DiscoverySource = "hidden-gems"
	SourceFallback        DiscoverySource = "fallback"
)

// SectionOrder fixes the priority of sections in a feed, independent of
// result size or arrival order.
var SectionOrder = []DiscoverySource{
	SourceNearbyActive,
	SourceTrending,
	SourcePopularThisWeek,
	SourceHiddenGems,
	SourceFallback,
}

// SectionTitles are the display titles carried alongside each source
var SectionTitles = map[DiscoverySource]string{
	SourceNearbyActive:    "Active nearby",
	SourceTrending:        "Trending near you",
	SourcePopularThisWeek: "Popular this week",
	SourceHiddenGems:      "Hidden gems",
	SourceFallback:        "Popular places",
}

// DiscoverySection is an ordered bucket of places attributable to one source.
// Sections are ephemeral: recomputed on every fetch cycle, never persisted.
type DiscoverySection struct {
	Source DiscoverySource `json:"source"`
	Title  string          `json:"title"`
	Places []Place         `json:"places"`
}

// DiscoveryFeed is the aggregate of all sections for one location.
type DiscoveryFeed struct {
	Sections []DiscoverySection `json:"sections"`
	// Empty signals the "no content, browse categories" affordance: every
	// source, including the fallback search, came back with nothing.
	Empty       bool      `json:"empty"`
	Location    Location  `json:"location"`
	GeneratedAt time.Time `json:"generatedAt"`
}
