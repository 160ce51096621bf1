package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalCondition(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Condition
	}{
		{"open-meteo clear sky", "clear-sky", ConditionClear},
		{"open-meteo overcast", "overcast", ConditionOvercast},
		{"open-meteo drizzle", "drizzle", ConditionLightRain},
		{"open-meteo thunder", "thunderstorm", ConditionThunderstorm},
		{"owm style clouds", "Clouds", ConditionOvercast},
		{"owm style mist", "Mist", ConditionFog},
		{"mixed case", "RAIN", ConditionRain},
		{"padded", "  snow  ", ConditionSnow},
		{"unmapped falls to unknown", "volcanic-ash", ConditionUnknown},
		{"empty", "", ConditionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalCondition(tt.raw))
		})
	}
}

func TestWetGround(t *testing.T) {
	precip := func(v float64) *float64 { return &v }

	tests := []struct {
		name     string
		cond     Condition
		precipMm *float64
		expected bool
	}{
		{"rain implies wet", ConditionRain, nil, true},
		{"fog with nil precip is wet", ConditionFog, nil, true},
		{"snow is wet", ConditionSnow, precip(0), true},
		{"clear and dry", ConditionClear, precip(0), false},
		{"clear with nil precip", ConditionClear, nil, false},
		{"clear above threshold", ConditionClear, precip(0.2), true},
		{"overcast below threshold", ConditionOvercast, precip(0.1), false},
		{"unknown with heavy precip", ConditionUnknown, precip(3.4), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WetGround(tt.cond, tt.precipMm))
		})
	}
}

func TestBucketBuildingHeight(t *testing.T) {
	tests := []struct {
		name     string
		levels   float64
		hasData  bool
		expected string
	}{
		{"single storey", 1, true, HeightLowrise},
		{"two storeys", 2.4, true, HeightLowrise},
		{"four storeys", 4, true, HeightMidrise},
		{"six storeys", 6.9, true, HeightMidrise},
		{"seven storeys", 7, true, HeightHighrise},
		{"tower", 40, true, HeightHighrise},
		{"no data never defaults to lowrise", 0, false, HeightUnknown},
		{"zero with data flag", 0, true, HeightUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BucketBuildingHeight(tt.levels, tt.hasData))
		})
	}
}

func TestBucketBuildingDensity(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		expected string
	}{
		{"no footprint data", 0, DensityUnknown},
		{"single building", 1, DensitySparse},
		{"sparse upper bound", 9, DensitySparse},
		{"medium lower bound", 10, DensityMedium},
		{"medium upper bound", 39, DensityMedium},
		{"dense lower bound", 40, DensityDense},
		{"city block", 200, DensityDense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BucketBuildingDensity(tt.count))
		})
	}
}

func TestDerivePlaceType(t *testing.T) {
	tests := []struct {
		name     string
		features MapFeatures
		expected string
	}{
		{
			"retail corridor",
			MapFeatures{LanduseCounts: map[string]int{"retail": 2, "commercial": 2}, BuildingCount: 30},
			PlaceUrbanCommercial,
		},
		{
			"park",
			MapFeatures{LanduseCounts: map[string]int{"grass": 2, "park": 2}, BuildingCount: 3},
			PlaceParkland,
		},
		{
			"farmland",
			MapFeatures{LanduseCounts: map[string]int{"farmland": 3}, BuildingCount: 1},
			PlaceRuralFarmland,
		},
		{
			"industrial estate",
			MapFeatures{LanduseCounts: map[string]int{"industrial": 4}, BuildingCount: 12},
			PlaceIndustrial,
		},
		{
			"residential block",
			MapFeatures{LanduseCounts: map[string]int{"residential": 5}, BuildingCount: 25},
			PlaceUrbanResidential,
		},
		{
			"dense buildings without landuse tags",
			MapFeatures{LanduseCounts: map[string]int{}, BuildingCount: 60},
			PlaceUrbanResidential,
		},
		{
			"nothing distinctive",
			MapFeatures{LanduseCounts: map[string]int{}, BuildingCount: 2},
			PlaceMixedUrban,
		},
		{
			"retail outranks residential",
			MapFeatures{LanduseCounts: map[string]int{"retail": 4, "residential": 8}, BuildingCount: 50},
			PlaceUrbanCommercial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DerivePlaceType(tt.features))
		})
	}
}
