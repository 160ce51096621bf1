package domain

import "time"

// Confidence scoring. Scores are heuristic reliability indicators, not
// ground truth. Each function is monotonic in data completeness: more
// corroborating fields never lowers the score.

// LocationScore rates the geocoded section by how much of the
// administrative hierarchy resolved.
func LocationScore(unavailable bool, loc Location) float64 {
	if unavailable {
		return 0
	}
	score := 0.25 // display name only
	if loc.Country != "" {
		score = 0.5
	}
	if loc.City != "" {
		score = 0.75
	}
	if loc.City != "" && (loc.Road != "" || loc.Suburb != "") {
		score = 1.0
	}
	return score
}

// MapContextScore rates the map section by how many of landuse, road type,
// and POIs came back non-empty. Zero only when the adapter was wholly
// unavailable.
func MapContextScore(unavailable bool, mc MapContext) float64 {
	if unavailable {
		return 0
	}
	populated := 0
	if len(mc.Landuse) > 0 {
		populated++
	}
	if mc.Elements.RoadType != nil {
		populated++
	}
	if len(mc.POIs) > 0 {
		populated++
	}
	return 0.25 + 0.25*float64(populated)
}

// SunScore is 1.0 whenever the position was computed. The calculation is
// deterministic, so it only degrades when the computation itself failed.
func SunScore(computed bool) float64 {
	if computed {
		return 1.0
	}
	return 0
}

// WeatherScore rates the observation by how closely its date matches the
// requested local date: exact match 1.0, neighbouring day 0.6, anything
// further 0.3.
func WeatherScore(unavailable bool, requested, observed time.Time) float64 {
	if unavailable {
		return 0
	}
	if observed.IsZero() {
		return 0.3
	}
	gap := civilDate(requested).Sub(civilDate(observed))
	if gap < 0 {
		gap = -gap
	}
	switch {
	case gap == 0:
		return 1.0
	case gap <= 24*time.Hour:
		return 0.6
	default:
		return 0.3
	}
}

// civilDate strips the time of day, keeping the date in the value's own zone.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
