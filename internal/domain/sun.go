package domain

import "math"

// Solar elevation thresholds for the lighting flags, in degrees.
// Blue hour spans civil twilight (-6° to 0°), golden hour the first 10°
// above the horizon.
const (
	nightElevation      = -6.0
	goldenHourElevation = 10.0
)

// NormalizeAzimuth maps an angle in degrees onto [0,360).
func NormalizeAzimuth(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	if m >= 360 { // guard against -1e-15 wrapping to exactly 360
		m = 0
	}
	return m
}

// DeriveSun builds the sun section from a computed position. The four
// lighting flags are evaluated from the single elevation value in a fixed
// order, so they can never disagree pairwise. A nil position yields the
// degraded section shape: nil angles, all flags false.
func DeriveSun(pos *SunPosition) Sun {
	if pos == nil {
		return Sun{}
	}
	az := NormalizeAzimuth(pos.AzimuthDeg)
	el := pos.ElevationDeg
	return Sun{
		AzimuthDeg:   &az,
		ElevationDeg: &el,
		IsDay:        el > 0,
		IsNight:      el < nightElevation,
		IsBlueHour:   el >= nightElevation && el <= 0,
		IsGoldenHour: el > 0 && el <= goldenHourElevation,
	}
}
