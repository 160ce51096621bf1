package builder

import (
	"fmt"
	"time"

	"github.com/couchcryptid/scene-card-service/internal/domain"
)

// validateRequest checks the raw inputs and returns the parsed local time.
// Any problem is a *domain.InputError: fatal to the request, reported
// before any provider is called.
func validateRequest(req Request) (time.Time, error) {
	if req.Lat < -90 || req.Lat > 90 {
		return time.Time{}, &domain.InputError{Field: "lat", Message: fmt.Sprintf("%.5f outside [-90,90]", req.Lat)}
	}
	if req.Lon < -180 || req.Lon > 180 {
		return time.Time{}, &domain.InputError{Field: "lon", Message: fmt.Sprintf("%.5f outside [-180,180]", req.Lon)}
	}
	if req.HeadingDeg != nil && (*req.HeadingDeg < 0 || *req.HeadingDeg > 360) {
		return time.Time{}, &domain.InputError{Field: "heading_deg", Message: fmt.Sprintf("%.2f outside [0,360]", *req.HeadingDeg)}
	}
	if req.RadiusM < 0 {
		return time.Time{}, &domain.InputError{Field: "radius_m", Message: "must not be negative"}
	}

	localTime, err := time.Parse(time.RFC3339, req.DatetimeLocal)
	if err != nil {
		return time.Time{}, &domain.InputError{Field: "datetime_local", Message: fmt.Sprintf("not ISO-8601 with offset: %v", err)}
	}
	if req.Timezone == "" {
		return time.Time{}, &domain.InputError{Field: "timezone", Message: "must be set"}
	}
	loc, err := time.LoadLocation(req.Timezone)
	if err != nil {
		return time.Time{}, &domain.InputError{Field: "timezone", Message: fmt.Sprintf("unknown timezone %q", req.Timezone)}
	}

	// The supplied offset must match the named zone at that instant.
	_, gotOffset := localTime.Zone()
	_, wantOffset := localTime.In(loc).Zone()
	if gotOffset != wantOffset {
		return time.Time{}, &domain.InputError{
			Field:   "datetime_local",
			Message: fmt.Sprintf("offset %+d does not match %s offset %+d at that instant", gotOffset, req.Timezone, wantOffset),
		}
	}

	// Re-anchor to the named zone so calendar derivation uses real zone rules.
	return localTime.In(loc), nil
}
