package domain

import (
	"context"
	"time"
)

// PlaceLabels contains administrative labels returned by a reverse geocoder.
// Any field may be empty when the provider could not resolve that level.
type PlaceLabels struct {
	DisplayName string
	Road        string
	Suburb      string
	City        string
	State       string
	Postcode    string
	Country     string
	CountryCode string
}

// Geocoder resolves coordinates to administrative labels.
type Geocoder interface {
	// ReverseGeocode converts coordinates to place labels.
	ReverseGeocode(ctx context.Context, lat, lon float64) (PlaceLabels, error)
}

// MapFeatures is the raw tag summary returned by a map-context provider for
// the area around a point. Classification into buckets happens in the
// domain, not in the adapter.
type MapFeatures struct {
	LanduseCounts map[string]int // raw landuse value -> occurrence count
	RoadType      string         // dominant classified road type, "" when no road data
	Sidewalk      bool
	Water         bool
	Park          bool

	BuildingCount int
	// MeanLevels is the mean of available building:levels tags.
	// Zero with HasLevelData false means no storey information.
	MeanLevels   float64
	HasLevelData bool

	POIs []string // capped, most-notable-first
}

// MapContextProvider queries map features within a radius of a point.
type MapContextProvider interface {
	Features(ctx context.Context, lat, lon float64, radiusM int) (MapFeatures, error)
}

// SunPosition is the solar geometry at a point and instant. Azimuth is in
// degrees clockwise from north (any range; normalized by the caller),
// elevation in degrees above the horizon.
type SunPosition struct {
	AzimuthDeg   float64
	ElevationDeg float64
}

// SunCalculator computes the solar position for a point at an instant.
type SunCalculator interface {
	Position(ctx context.Context, lat, lon float64, at time.Time) (SunPosition, error)
}

// WeatherObservation is a provider's raw condition bundle for a local date.
// RawCondition uses the provider's own taxonomy; CanonicalCondition maps it
// onto the fixed enum. Numeric fields are nil when unreported.
type WeatherObservation struct {
	RawCondition string
	ObservedDate time.Time // date the observation describes (UTC midnight)
	TemperatureC *float64
	PrecipMm     *float64
	WindMps      *float64
}

// WeatherProvider fetches the observation bundle for a local date.
type WeatherProvider interface {
	Observe(ctx context.Context, lat, lon float64, localDate time.Time) (WeatherObservation, error)
}
