package domain

import (
	"fmt"
	"strings"
	"time"
)

var validHeightHints = map[string]bool{
	HeightLowrise:  true,
	HeightMidrise:  true,
	HeightHighrise: true,
	HeightUnknown:  true,
}

var validDensities = map[string]bool{
	DensitySparse:  true,
	DensityMedium:  true,
	DensityDense:   true,
	DensityUnknown: true,
}

var validConditions = map[Condition]bool{
	ConditionClear:        true,
	ConditionPartlyCloudy: true,
	ConditionOvercast:     true,
	ConditionLightRain:    true,
	ConditionRain:         true,
	ConditionSnow:         true,
	ConditionFog:          true,
	ConditionThunderstorm: true,
	ConditionUnknown:      true,
}

var validRoadTypes = map[string]bool{
	"motorway":    true,
	"primary":     true,
	"secondary":   true,
	"tertiary":    true,
	"residential": true,
	"service":     true,
	"pedestrian":  true,
	"path":        true,
}

var validPlaceTypes = map[string]bool{
	PlaceUrbanCommercial:  true,
	PlaceUrbanResidential: true,
	PlaceParkland:         true,
	PlaceRuralFarmland:    true,
	PlaceIndustrial:       true,
	PlaceMixedUrban:       true,
	"":                    true, // degraded map section carries no place type
}

// ValidateCard enforces the card schema: required fields, enumerated value
// sets, numeric ranges, and cross-field consistency. Checks run in a fixed
// order and the first violation is returned; no repair is attempted.
func ValidateCard(card *SceneCard) *ValidationError {
	if err := validateRequired(card); err != nil {
		return err
	}
	if err := validateEnums(card); err != nil {
		return err
	}
	if err := validateRanges(card); err != nil {
		return err
	}
	return validateConsistency(card)
}

func validateRequired(card *SceneCard) *ValidationError {
	if card.Version != SchemaVersion {
		return violation("required", "version", fmt.Sprintf("must be %q, got %q", SchemaVersion, card.Version))
	}
	if !strings.HasPrefix(card.ID, "sc_") {
		return violation("required", "id", "must be present with sc_ prefix")
	}
	if card.Source.Timezone == "" {
		return violation("required", "source.timezone", "must be set")
	}
	if card.Source.DatetimeLocal == "" {
		return violation("required", "source.datetime_local", "must be set")
	}
	if card.Location.DisplayName == "" {
		return violation("required", "location.display_name", "must be set, falling back to coordinates")
	}
	if card.MapContext.Landuse == nil {
		return violation("required", "map_context.landuse", "must be non-nil even when empty")
	}
	if card.MapContext.POIs == nil {
		return violation("required", "map_context.pois", "must be non-nil even when empty")
	}
	if card.Prompt == "" {
		return violation("required", "prompt", "must be non-empty")
	}
	if card.Provenance.CreatedAtUTC.IsZero() {
		return violation("required", "provenance.created_at_utc", "must be set")
	}
	return nil
}

func validateEnums(card *SceneCard) *ValidationError {
	if !validHeightHints[card.MapContext.Elements.BuildingHeightHint] {
		return violation("enum", "map_context.elements.building_height_hint",
			fmt.Sprintf("unknown value %q", card.MapContext.Elements.BuildingHeightHint))
	}
	if !validDensities[card.MapContext.Elements.BuildingDensity] {
		return violation("enum", "map_context.elements.building_density",
			fmt.Sprintf("unknown value %q", card.MapContext.Elements.BuildingDensity))
	}
	if rt := card.MapContext.Elements.RoadType; rt != nil && !validRoadTypes[*rt] {
		return violation("enum", "map_context.elements.road_type", fmt.Sprintf("unknown value %q", *rt))
	}
	if !validPlaceTypes[card.MapContext.PlaceType] {
		return violation("enum", "map_context.place_type", fmt.Sprintf("unknown value %q", card.MapContext.PlaceType))
	}
	if !validConditions[card.Weather.Condition] {
		return violation("enum", "weather.condition", fmt.Sprintf("unknown value %q", card.Weather.Condition))
	}
	return nil
}

func validateRanges(card *SceneCard) *ValidationError {
	if card.Source.Lat < -90 || card.Source.Lat > 90 {
		return violation("range", "source.lat", fmt.Sprintf("%.5f outside [-90,90]", card.Source.Lat))
	}
	if card.Source.Lon < -180 || card.Source.Lon > 180 {
		return violation("range", "source.lon", fmt.Sprintf("%.5f outside [-180,180]", card.Source.Lon))
	}
	if h := card.Source.HeadingDeg; h != nil && (*h < 0 || *h > 360) {
		return violation("range", "source.heading_deg", fmt.Sprintf("%.2f outside [0,360]", *h))
	}
	if az := card.Sun.AzimuthDeg; az != nil && (*az < 0 || *az >= 360) {
		return violation("range", "sun.azimuth_deg", fmt.Sprintf("%.2f outside [0,360)", *az))
	}
	if el := card.Sun.ElevationDeg; el != nil && (*el < -90 || *el > 90) {
		return violation("range", "sun.elevation_deg", fmt.Sprintf("%.2f outside [-90,90]", *el))
	}
	for field, score := range map[string]float64{
		"confidence.location":    card.Confidence.Location,
		"confidence.map_context": card.Confidence.MapContext,
		"confidence.sun":         card.Confidence.Sun,
		"confidence.weather":     card.Confidence.Weather,
	} {
		if score < 0 || score > 1 {
			return violation("range", field, fmt.Sprintf("%.3f outside [0,1]", score))
		}
	}
	return nil
}

func validateConsistency(card *SceneCard) *ValidationError {
	if err := validateSunFlags(card.Sun); err != nil {
		return err
	}
	return validateOffset(card.Source)
}

// validateSunFlags recomputes the lighting flags from the stored elevation
// and rejects any stored flag that disagrees. With no elevation all flags
// must be false.
func validateSunFlags(sun Sun) *ValidationError {
	expected := DeriveSun(nil)
	if sun.ElevationDeg != nil {
		expected = DeriveSun(&SunPosition{ElevationDeg: *sun.ElevationDeg})
	}
	if sun.IsDay != expected.IsDay || sun.IsNight != expected.IsNight ||
		sun.IsBlueHour != expected.IsBlueHour || sun.IsGoldenHour != expected.IsGoldenHour {
		return violation("consistency", "sun", "lighting flags disagree with elevation_deg")
	}
	return nil
}

// validateOffset checks that datetime_local's UTC offset matches the named
// timezone's offset at that instant.
func validateOffset(src Source) *ValidationError {
	t, err := time.Parse(time.RFC3339, src.DatetimeLocal)
	if err != nil {
		return violation("consistency", "source.datetime_local", fmt.Sprintf("not ISO-8601 with offset: %v", err))
	}
	loc, err := time.LoadLocation(src.Timezone)
	if err != nil {
		return violation("consistency", "source.timezone", fmt.Sprintf("unknown timezone %q", src.Timezone))
	}
	_, wantOffset := t.In(loc).Zone()
	_, gotOffset := t.Zone()
	if wantOffset != gotOffset {
		return violation("consistency", "source.datetime_local",
			fmt.Sprintf("offset %+d does not match %s offset %+d at that instant", gotOffset, src.Timezone, wantOffset))
	}
	return nil
}

func violation(rule, field, message string) *ValidationError {
	return &ValidationError{Rule: rule, Field: field, Message: message}
}
