package entities

import (
	"math"
	"time"
)

// PlaceStatus is the moderation lifecycle of a place
type PlaceStatus string

const (
	PlaceStatusPending  PlaceStatus = "PENDING"
	PlaceStatusApproved PlaceStatus = "APPROVED"
	PlaceStatusRejected PlaceStatus = "REJECTED"
)

// Place represents a place of interest as served by the upstream backend.
// The backend owns this data; the service treats it as read-only per fetch.
type Place struct {
	ID                  int64       `json:"id"`
	Name                string      `json:"name"`
	Description         string      `json:"description,omitempty"`
	Category            *Category   `json:"category,omitempty"`
	Address             string      `json:"address"`
	City                string      `json:"city"`
	District            string      `json:"district"`
	Latitude            float64     `json:"latitude"`
	Longitude           float64     `json:"longitude"`
	PriceLevel          string      `json:"priceLevel,omitempty"`
	AverageRating       *float64    `json:"averageRating,omitempty"`
	ReviewCount         *int        `json:"reviewCount,omitempty"`
	Phone               string      `json:"phone,omitempty"`
	Website             string      `json:"website,omitempty"`
	IsTrending          bool        `json:"isTrending,omitempty"`
	VisitCountLast7Days int         `json:"visitCountLast7Days,omitempty"`
	Status              PlaceStatus `json:"status,omitempty"`
	DistanceKm          *float64    `json:"distance,omitempty"`
	Photos              []Photo     `json:"photos,omitempty"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

// Category is a place category reference
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID *int64 `json:"parentId"`
}

// Photo is a place photo; at most one per place is flagged as cover
type Photo struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	IsCover   bool      `json:"isCover"`
	CreatedAt time.Time `json:"createdAt"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinates are finite and within range.
// Map rendering downstream cannot tolerate anything else.
func (l Location) Valid() bool {
	if math.IsNaN(l.Latitude) || math.IsInf(l.Latitude, 0) {
		return false
	}
	if math.IsNaN(l.Longitude) || math.IsInf(l.Longitude, 0) {
		return false
	}
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// Location returns the place's coordinates
func (p *Place) Location() Location {
	return Location{Latitude: p.Latitude, Longitude: p.Longitude}
}

// EffectiveStatus defaults an absent status to APPROVED
func (p *Place) EffectiveStatus() PlaceStatus {
	if p.Status == "" {
		return PlaceStatusApproved
	}
	return p.Status
}

// CoverPhoto returns the cover photo, falling back to the first one
func (p *Place) CoverPhoto() *Photo {
	for i := range p.Photos {
		if p.Photos[i].IsCover {
			return &p.Photos[i]
		}
	}
	if len(p.Photos) > 0 {
		return &p.Photos[0]
	}
	return nil
}
