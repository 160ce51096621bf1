package domain

import "strings"

// Condition is the canonical weather-condition vocabulary used by every
// card regardless of provider taxonomy.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionPartlyCloudy Condition = "partly_cloudy"
	ConditionOvercast     Condition = "overcast"
	ConditionLightRain    Condition = "light_rain"
	ConditionRain         Condition = "rain"
	ConditionSnow         Condition = "snow"
	ConditionFog          Condition = "fog"
	ConditionThunderstorm Condition = "thunderstorm"
	ConditionUnknown      Condition = "unknown"
)

// Building height buckets derived from storey counts.
const (
	HeightLowrise  = "lowrise"  // 1-2 storeys
	HeightMidrise  = "midrise"  // 3-6 storeys
	HeightHighrise = "highrise" // 7+ storeys
	HeightUnknown  = "unknown"
)

// Building density buckets derived from footprint counts within the query
// radius. Cutpoints are fixed so identical inputs always bucket identically.
const (
	DensitySparse  = "sparse" // 1-9 buildings
	DensityMedium  = "medium" // 10-39 buildings
	DensityDense   = "dense"  // 40+ buildings
	DensityUnknown = "unknown"
)

// WetGroundPrecipMm is the precipitation threshold above which ground is
// considered wet even under a dry-looking condition.
const WetGroundPrecipMm = 0.2

// conditionAliases maps known provider condition labels (lowercased) onto
// the canonical enum. Covers the WMO-derived labels emitted by the
// Open-Meteo adapter plus common labels from other provider taxonomies.
var conditionAliases = map[string]Condition{
	"clear":         ConditionClear,
	"clear-sky":     ConditionClear,
	"sunny":         ConditionClear,
	"partly-cloudy": ConditionPartlyCloudy,
	"partly cloudy": ConditionPartlyCloudy,
	"mainly-clear":  ConditionPartlyCloudy,
	"few clouds":    ConditionPartlyCloudy,
	"clouds":        ConditionOvercast,
	"cloudy":        ConditionOvercast,
	"overcast":      ConditionOvercast,
	"drizzle":       ConditionLightRain,
	"light-rain":    ConditionLightRain,
	"light rain":    ConditionLightRain,
	"rain-showers":  ConditionRain,
	"rain":          ConditionRain,
	"heavy-rain":    ConditionRain,
	"freezing-rain": ConditionRain,
	"snow":          ConditionSnow,
	"snow-showers":  ConditionSnow,
	"snow-grains":   ConditionSnow,
	"sleet":         ConditionSnow,
	"fog":           ConditionFog,
	"mist":          ConditionFog,
	"haze":          ConditionFog,
	"thunderstorm":  ConditionThunderstorm,
	"thunder":       ConditionThunderstorm,
}

// wetConditions are the canonical conditions implying wet ground on their own.
var wetConditions = map[Condition]bool{
	ConditionLightRain:    true,
	ConditionRain:         true,
	ConditionSnow:         true,
	ConditionThunderstorm: true,
	ConditionFog:          true,
}

// CanonicalCondition maps a provider's raw condition label onto the fixed
// enum. Unmapped values fall to unknown, never to clear.
func CanonicalCondition(raw string) Condition {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ConditionUnknown
	}
	if c, ok := conditionAliases[raw]; ok {
		return c
	}
	return ConditionUnknown
}

// WetGround reports whether the ground should be considered wet: true when
// the condition is in the wet set, or when measured precipitation reaches
// the threshold. Nil precipitation with a dry condition is false.
func WetGround(cond Condition, precipMm *float64) bool {
	if wetConditions[cond] {
		return true
	}
	return precipMm != nil && *precipMm >= WetGroundPrecipMm
}

// BucketBuildingHeight maps a mean storey estimate onto a height bucket.
// No storey data yields unknown, never lowrise.
func BucketBuildingHeight(meanLevels float64, hasLevelData bool) string {
	if !hasLevelData || meanLevels <= 0 {
		return HeightUnknown
	}
	switch {
	case meanLevels < 3:
		return HeightLowrise
	case meanLevels < 7:
		return HeightMidrise
	default:
		return HeightHighrise
	}
}

// BucketBuildingDensity maps a building footprint count within the query
// radius onto a density bucket. Zero counts mean no footprint data and
// yield unknown.
func BucketBuildingDensity(buildingCount int) string {
	switch {
	case buildingCount <= 0:
		return DensityUnknown
	case buildingCount < 10:
		return DensitySparse
	case buildingCount < 40:
		return DensityMedium
	default:
		return DensityDense
	}
}

// Place types derived from the landuse/road/building makeup around a point.
const (
	PlaceUrbanCommercial  = "urban_commercial"
	PlaceUrbanResidential = "urban_residential"
	PlaceParkland         = "parkland"
	PlaceRuralFarmland    = "rural_farmland"
	PlaceIndustrial       = "industrial"
	PlaceMixedUrban       = "mixed_urban"
)

// farmlandValues are landuse tags counted toward the farmland score.
var farmlandValues = []string{"farmland", "farm", "orchard", "vineyard", "meadow"}

// greenValues are landuse tags counted toward the parkland score.
var greenValues = []string{"grass", "recreation_ground", "forest", "wood", "park"}

// DerivePlaceType classifies the surroundings into a coarse scene class.
// Rules are checked in a fixed order; the first match wins.
func DerivePlaceType(f MapFeatures) string {
	retail := f.LanduseCounts["retail"] + f.LanduseCounts["commercial"]
	green := sumCounts(f.LanduseCounts, greenValues)
	farm := sumCounts(f.LanduseCounts, farmlandValues)
	industrial := f.LanduseCounts["industrial"]
	residential := f.LanduseCounts["residential"]

	switch {
	case retail >= 3:
		return PlaceUrbanCommercial
	case green >= 3 && f.BuildingCount < 10:
		return PlaceParkland
	case farm >= 2 && f.BuildingCount < 5:
		return PlaceRuralFarmland
	case industrial >= 2:
		return PlaceIndustrial
	case residential >= 3 || f.BuildingCount >= 20:
		return PlaceUrbanResidential
	default:
		return PlaceMixedUrban
	}
}

func sumCounts(counts map[string]int, keys []string) int {
	total := 0
	for _, k := range keys {
		total += counts[k]
	}
	return total
}
