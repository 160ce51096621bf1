// Package solar implements domain.SunCalculator with the NOAA solar
// position approximation. The computation is local and deterministic; it is
// an adapter only so the orchestrator treats it like any other provider.
package solar

import (
	"context"
	"math"
	"time"

	"github.com/couchcryptid/scene-card-service/internal/domain"
)

// Calculator computes solar geometry from coordinates and an instant.
type Calculator struct{}

// NewCalculator creates a solar position calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Position returns the sun's azimuth and elevation for the point at the
// instant. Azimuth is degrees clockwise from north in [0,360), elevation is
// degrees above the horizon (negative below). Accuracy is within a few
// tenths of a degree, which is far finer than the lighting thresholds that
// consume it; atmospheric refraction is not applied.
func (c *Calculator) Position(_ context.Context, lat, lon float64, at time.Time) (domain.SunPosition, error) {
	utc := at.UTC()

	// Julian century from J2000.0.
	jd := float64(utc.Unix())/86400.0 + 2440587.5
	jc := (jd - 2451545.0) / 36525.0

	meanLong := math.Mod(280.46646+jc*(36000.76983+jc*0.0003032), 360)
	meanAnom := 357.52911 + jc*(35999.05029-0.0001537*jc)
	eccent := 0.016708634 - jc*(0.000042037+0.0000001267*jc)

	eqCtr := math.Sin(rad(meanAnom))*(1.914602-jc*(0.004817+0.000014*jc)) +
		math.Sin(2*rad(meanAnom))*(0.019993-0.000101*jc) +
		math.Sin(3*rad(meanAnom))*0.000289
	trueLong := meanLong + eqCtr
	appLong := trueLong - 0.00569 - 0.00478*math.Sin(rad(125.04-1934.136*jc))

	meanObliq := 23 + (26+(21.448-jc*(46.815+jc*(0.00059-jc*0.001813)))/60)/60
	obliqCorr := meanObliq + 0.00256*math.Cos(rad(125.04-1934.136*jc))

	declination := deg(math.Asin(math.Sin(rad(obliqCorr)) * math.Sin(rad(appLong))))

	// Equation of time, in minutes.
	varY := math.Pow(math.Tan(rad(obliqCorr/2)), 2)
	eqTime := 4 * deg(varY*math.Sin(2*rad(meanLong))-
		2*eccent*math.Sin(rad(meanAnom))+
		4*eccent*varY*math.Sin(rad(meanAnom))*math.Cos(2*rad(meanLong))-
		0.5*varY*varY*math.Sin(4*rad(meanLong))-
		1.25*eccent*eccent*math.Sin(2*rad(meanAnom)))

	utcMinutes := float64(utc.Hour()*60+utc.Minute()) + float64(utc.Second())/60
	trueSolarTime := math.Mod(utcMinutes+eqTime+4*lon+1440, 1440)

	hourAngle := trueSolarTime/4 - 180
	if trueSolarTime/4 < 0 {
		hourAngle = trueSolarTime/4 + 180
	}

	zenith := deg(math.Acos(clamp(
		math.Sin(rad(lat))*math.Sin(rad(declination))+
			math.Cos(rad(lat))*math.Cos(rad(declination))*math.Cos(rad(hourAngle)))))
	elevation := 90 - zenith

	azDenom := math.Cos(rad(lat)) * math.Sin(rad(zenith))
	var azimuth float64
	if math.Abs(azDenom) > 1e-9 {
		azRatio := clamp((math.Sin(rad(lat))*math.Cos(rad(zenith)) - math.Sin(rad(declination))) / azDenom)
		if hourAngle > 0 {
			azimuth = math.Mod(deg(math.Acos(azRatio))+180, 360)
		} else {
			azimuth = math.Mod(540-deg(math.Acos(azRatio)), 360)
		}
	} else if lat > 0 {
		// Sun due south (or north) at the pole-adjacent degenerate case.
		azimuth = 180
	}

	return domain.SunPosition{
		AzimuthDeg:   azimuth,
		ElevationDeg: elevation,
	}, nil
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }

// clamp keeps acos arguments inside [-1,1] against floating point drift.
func clamp(x float64) float64 {
	return math.Max(-1, math.Min(1, x))
}
