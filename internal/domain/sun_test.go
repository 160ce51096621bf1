package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAzimuth(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"already normalized", 123.4, 123.4},
		{"zero", 0, 0},
		{"negative wraps", -30, 330},
		{"full turn", 360, 0},
		{"over a turn", 390, 30},
		{"deep negative", -720.5, 359.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NormalizeAzimuth(tt.input), 1e-9)
		})
	}
}

func TestDeriveSun_Flags(t *testing.T) {
	tests := []struct {
		name      string
		elevation float64
		day       bool
		night     bool
		blue      bool
		golden    bool
	}{
		{"high noon", 45, true, false, false, false},
		{"golden hour", 8, true, false, false, true},
		{"golden hour boundary", 10, true, false, false, true},
		{"just above horizon", 0.1, true, false, false, true},
		{"horizon", 0, false, false, true, false},
		{"blue hour", -3, false, false, true, false},
		{"blue hour boundary", -6, false, false, true, false},
		{"night", -10, false, true, false, false},
		{"deep night", -40, false, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sun := DeriveSun(&SunPosition{AzimuthDeg: 180, ElevationDeg: tt.elevation})
			assert.Equal(t, tt.day, sun.IsDay, "is_day")
			assert.Equal(t, tt.night, sun.IsNight, "is_night")
			assert.Equal(t, tt.blue, sun.IsBlueHour, "is_blue_hour")
			assert.Equal(t, tt.golden, sun.IsGoldenHour, "is_golden_hour")
		})
	}
}

// TestDeriveSun_FlagExclusivity sweeps the elevation range and checks the
// pairwise invariants: day and night are mutually exclusive, and the
// twilight windows never overlap night.
func TestDeriveSun_FlagExclusivity(t *testing.T) {
	for e := -90.0; e <= 90.0; e += 0.25 {
		sun := DeriveSun(&SunPosition{ElevationDeg: e})
		assert.False(t, sun.IsDay && sun.IsNight, "day and night both true at %.2f", e)
		assert.False(t, sun.IsBlueHour && sun.IsNight, "blue hour and night both true at %.2f", e)
		assert.False(t, sun.IsGoldenHour && sun.IsNight, "golden hour and night both true at %.2f", e)
		assert.False(t, sun.IsBlueHour && sun.IsGoldenHour, "blue and golden hour both true at %.2f", e)
	}
}

func TestDeriveSun_ParisAfternoon(t *testing.T) {
	// lat=48.85837, lon=2.29448, 2025-10-09T13:20:00+02:00: elevation 15.
	sun := DeriveSun(&SunPosition{AzimuthDeg: 190, ElevationDeg: 15.0})

	assert.True(t, sun.IsDay)
	assert.False(t, sun.IsGoldenHour, "15 degrees is above the golden hour window")
	assert.False(t, sun.IsBlueHour)
	assert.False(t, sun.IsNight)
}

func TestDeriveSun_Unavailable(t *testing.T) {
	sun := DeriveSun(nil)

	require.Nil(t, sun.AzimuthDeg)
	require.Nil(t, sun.ElevationDeg)
	assert.False(t, sun.IsDay)
	assert.False(t, sun.IsNight)
	assert.False(t, sun.IsBlueHour)
	assert.False(t, sun.IsGoldenHour)
}

func TestDeriveSun_NormalizesAzimuth(t *testing.T) {
	sun := DeriveSun(&SunPosition{AzimuthDeg: -30, ElevationDeg: 20})

	require.NotNil(t, sun.AzimuthDeg)
	assert.InDelta(t, 330.0, *sun.AzimuthDeg, 1e-9)
}
