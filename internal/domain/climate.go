package domain

import "math"

// KoppenForLatitude guesses a Köppen-Geiger class from the latitude belt.
// This is the documented fallback when no climate raster is wired in; a
// proper raster lookup can replace it behind the same call site.
func KoppenForLatitude(lat float64) string {
	absLat := math.Abs(lat)
	switch {
	case absLat < 10:
		return "Af" // equatorial rainforest
	case absLat < 23:
		return "Aw" // tropical savanna
	case absLat < 35:
		return "BSh" // subtropical steppe
	case absLat < 55:
		return "Cfb" // temperate oceanic
	default:
		return "Dfb" // continental
	}
}

// LeafOn reports whether deciduous foliage is expected for the climate
// class at the given day of year. Tropics are always leaf-on; temperate and
// continental belts roughly May through October.
func LeafOn(koppen string, dayOfYear int) bool {
	switch koppen {
	case "Af", "Aw":
		return true
	case "Cfb", "Dfb":
		return dayOfYear >= 120 && dayOfYear <= 300
	default:
		return dayOfYear >= 150 && dayOfYear <= 280
	}
}

// DeriveClimate builds the climate section for a point and day of year.
func DeriveClimate(lat float64, dayOfYear int) Climate {
	koppen := KoppenForLatitude(lat)
	return Climate{
		Koppen: koppen,
		LeafOn: LeafOn(koppen, dayOfYear),
	}
}
