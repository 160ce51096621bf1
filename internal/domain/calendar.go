package domain

import "time"

// DeriveCalendar returns the weekday abbreviation and day of year for a
// local instant. Both are derived from the zoned time, not UTC.
func DeriveCalendar(local time.Time) (weekday string, dayOfYear int) {
	return local.Format("Mon"), local.YearDay()
}
