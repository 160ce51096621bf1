package domain

import (
	"fmt"
	"time"
)

// SchemaVersion identifies the scene card schema. Bump on any change to
// field names, units, or enumerations.
const SchemaVersion = "1.0.0"

// Source holds the verbatim request facts plus derived calendar fields.
type Source struct {
	Lat           float64  `json:"lat"`
	Lon           float64  `json:"lon"`
	HeadingDeg    *float64 `json:"heading_deg"` // 0-360 clockwise from north, nil when not supplied
	DatetimeLocal string   `json:"datetime_local"`
	Timezone      string   `json:"timezone"`
	Weekday       string   `json:"weekday"`
	DayOfYear     int      `json:"day_of_year"`
}

// Location holds administrative labels from the reverse geocoder.
// DisplayName is always set; it falls back to the raw coordinates when
// geocoding is unavailable.
type Location struct {
	DisplayName string `json:"display_name"`
	Road        string `json:"road,omitempty"`
	Suburb      string `json:"suburb,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Postcode    string `json:"postcode,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

// Elements summarizes the physical makeup of the immediate surroundings.
type Elements struct {
	RoadType           *string `json:"road_type"` // nil when no road data returned
	Sidewalk           bool    `json:"sidewalk"`
	Water              bool    `json:"water"`
	Park               bool    `json:"park"`
	BuildingHeightHint string  `json:"building_height_hint"` // lowrise, midrise, highrise, unknown
	BuildingDensity    string  `json:"building_density"`     // sparse, medium, dense, unknown
}

// MapContext holds map-feature data within the query radius.
type MapContext struct {
	Landuse   []string `json:"landuse"` // unique landuse values, sorted for determinism
	Elements  Elements `json:"elements"`
	POIs      []string `json:"pois"` // capped, most-notable-first
	PlaceType string   `json:"place_type"`
}

// Sun holds solar geometry and the lighting flags derived from elevation.
// The flags are computed fields: they are always recomputed from
// ElevationDeg via DeriveSun, never supplied independently.
type Sun struct {
	AzimuthDeg   *float64 `json:"azimuth_deg"`   // [0,360), clockwise from north
	ElevationDeg *float64 `json:"elevation_deg"` // [-90,90]
	IsDay        bool     `json:"is_day"`
	IsNight      bool     `json:"is_night"`
	IsBlueHour   bool     `json:"is_blue_hour"`
	IsGoldenHour bool     `json:"is_golden_hour"`
}

// Weather holds the canonicalized observation for the requested local date.
type Weather struct {
	Condition    Condition `json:"condition"`
	TemperatureC *float64  `json:"temperature_c"`
	PrecipMm     *float64  `json:"precip_mm"`
	WindMps      *float64  `json:"wind_mps"`
	WetGround    bool      `json:"wet_ground"`
}

// Climate holds the Köppen-Geiger class and the seasonal foliage state.
type Climate struct {
	Koppen string `json:"koppen,omitempty"`
	LeafOn bool   `json:"leaf_on"`
}

// Provenance names the adapter (and version) that produced each section.
// Sections that were unavailable carry the adapter name with an
// "(unavailable: <reason>)" suffix.
type Provenance struct {
	Geocoder     string    `json:"geocoder"`
	MapContext   string    `json:"map_context"`
	Sun          string    `json:"sun"`
	Weather      string    `json:"weather"`
	Climate      string    `json:"climate"`
	CreatedAtUTC time.Time `json:"created_at_utc"`
}

// Confidence holds per-section reliability scores in [0,1].
type Confidence struct {
	Location   float64 `json:"location"`
	MapContext float64 `json:"map_context"`
	Sun        float64 `json:"sun"`
	Weather    float64 `json:"weather"`
}

// SceneCard is the emitted record describing the physical and environmental
// context around a GPS point at a local instant. A card is immutable once
// validated; regeneration produces a new card with a new ID and timestamp.
type SceneCard struct {
	Version    string     `json:"version"`
	ID         string     `json:"id"`
	Source     Source     `json:"source"`
	Location   Location   `json:"location"`
	MapContext MapContext `json:"map_context"`
	Sun        Sun        `json:"sun"`
	Weather    Weather    `json:"weather"`
	Climate    Climate    `json:"climate"`
	Prompt     string     `json:"prompt"`
	Notes      string     `json:"notes,omitempty"`
	Provenance Provenance `json:"provenance"`
	Confidence Confidence `json:"confidence"`
}

// GenerateID produces a card identifier from the creation instant and the
// coordinates rounded to five decimal places, e.g.
// "sc_20251009T112000Z_48.85837_2.29448". Uniqueness is best-effort only:
// two requests in the same second and rounding bucket collide.
func GenerateID(createdAt time.Time, lat, lon float64) string {
	ts := createdAt.UTC().Format("20060102T150405Z")
	return fmt.Sprintf("sc_%s_%.5f_%.5f", ts, lat, lon)
}
