package domain

import (
	"fmt"
	"strings"
)

// StyleConfig carries the shared stylistic constraints injected into every
// prompt. It is passed explicitly to DistillPrompt; there is no package
// global, so two pipelines can run different styles side by side.
type StyleConfig struct {
	// SceneNoun is the subject noun used when no place type resolved.
	SceneNoun string
	// MaxPOIs caps how many POI labels the prompt mentions.
	MaxPOIs int
}

// DefaultStyle is the stock configuration used by the service.
func DefaultStyle() StyleConfig {
	return StyleConfig{SceneNoun: "streetscape", MaxPOIs: 1}
}

// DistillPrompt composes a deterministic one-to-two sentence description
// from the card's structured fields. Identical fields always yield
// byte-identical text. Internal codes ("unknown", nil placeholders) never
// appear in the output; when every section is degraded the prompt falls
// back to a coordinate/time description so it is never empty.
func DistillPrompt(card *SceneCard, style StyleConfig) string {
	first := subjectSentence(card, style)
	if first == "" {
		first = fallbackSentence(card)
	}
	second := conditionSentence(card)
	if second == "" {
		return first
	}
	return first + " " + second
}

// subjectSentence describes the built environment: density, height, place
// type, dominant road, and the most notable POI or place name.
func subjectSentence(card *SceneCard, style StyleConfig) string {
	mc := card.MapContext

	var words []string
	switch mc.Elements.BuildingDensity {
	case DensitySparse:
		words = append(words, "sparsely built")
	case DensityDense:
		words = append(words, "dense")
	}
	switch mc.Elements.BuildingHeightHint {
	case HeightLowrise:
		words = append(words, "low-rise")
	case HeightMidrise:
		words = append(words, "mid-rise")
	case HeightHighrise:
		words = append(words, "high-rise")
	}

	if mc.PlaceType != "" && mc.PlaceType != PlaceMixedUrban {
		words = append(words, strings.ReplaceAll(mc.PlaceType, "_", " "))
	}
	words = append(words, style.SceneNoun)

	anchor := promptAnchor(card, style)
	if anchor == "" && mc.PlaceType == "" {
		// Nothing location-specific resolved; let the caller fall back.
		return ""
	}

	s := strings.Join(words, " ")
	if anchor != "" {
		s += " near " + anchor
	}
	if mc.Elements.RoadType != nil {
		s += ", along a " + strings.ReplaceAll(*mc.Elements.RoadType, "_", " ") + " road"
		if mc.Elements.Sidewalk {
			s += " with sidewalks"
		}
	}
	return capitalize(s) + "."
}

// promptAnchor picks the named anchor for the scene: the most notable POI,
// otherwise the geocoded display name unless it is the coordinate fallback.
func promptAnchor(card *SceneCard, style StyleConfig) string {
	pois := card.MapContext.POIs
	if style.MaxPOIs > 0 && len(pois) > 0 {
		n := style.MaxPOIs
		if n > len(pois) {
			n = len(pois)
		}
		return strings.Join(pois[:n], " and ")
	}
	name := card.Location.DisplayName
	if name != "" && name != CoordinateDisplayName(card.Source.Lat, card.Source.Lon) {
		return name
	}
	return ""
}

// conditionSentence describes weather, ground state, and the lighting
// window. Exactly one lighting clause is chosen with priority
// night > blue hour > golden hour > day.
func conditionSentence(card *SceneCard) string {
	var clauses []string
	if card.Weather.Condition != ConditionUnknown && card.Weather.Condition != "" {
		clauses = append(clauses, strings.ReplaceAll(string(card.Weather.Condition), "_", " "))
	}
	if card.Weather.WetGround {
		clauses = append(clauses, "wet ground")
	}
	if light := lightingClause(card.Sun); light != "" {
		clauses = append(clauses, light)
	}
	if len(clauses) == 0 {
		return ""
	}
	return capitalize(strings.Join(clauses, ", ")) + "."
}

func lightingClause(sun Sun) string {
	switch {
	case sun.IsNight:
		return "night"
	case sun.IsBlueHour:
		return "blue hour light"
	case sun.IsGoldenHour:
		return "golden hour light"
	case sun.IsDay:
		return "daylight"
	default:
		return ""
	}
}

// fallbackSentence describes the card by coordinates and local time when no
// map or location data resolved.
func fallbackSentence(card *SceneCard) string {
	s := fmt.Sprintf("Scene at %s", CoordinateDisplayName(card.Source.Lat, card.Source.Lon))
	if len(card.Source.DatetimeLocal) >= 16 {
		// ISO-8601 local datetime: date is [0:10], wall time [11:16].
		s += fmt.Sprintf(" on %s at %s local time", card.Source.DatetimeLocal[:10], card.Source.DatetimeLocal[11:16])
	}
	return s + "."
}

// CoordinateDisplayName formats coordinates at five decimal places. It is
// the display_name fallback when geocoding is unavailable, and the prompt
// anchor of last resort.
func CoordinateDisplayName(lat, lon float64) string {
	return fmt.Sprintf("%.5f, %.5f", lat, lon)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
