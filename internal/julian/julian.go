// Package julian converts between calendar time and Julian Days.
// The proleptic Gregorian calendar is assumed throughout.
package julian

import (
	"time"

	meeus "github.com/mooncaker816/learnmeeus/v3/julian"
)

// FromTime returns the Julian Day of t.
func FromTime(t time.Time) float64 {
	return meeus.TimeToJD(t.UTC())
}

// ToTime returns the instant of the Julian Day jd in UTC.
func ToTime(jd float64) time.Time {
	return meeus.JDToTime(jd).UTC()
}

// FromDate returns the Julian Day of 0h UTC on the given date.
func FromDate(year int, month time.Month, day int) float64 {
	return meeus.CalendarGregorianToJD(year, int(month), float64(day))
}

// ToDate returns the calendar date the Julian Day jd falls on in UTC.
// Dates before 1582-10-15 are proleptic Gregorian, not Julian.
func ToDate(jd float64) (year int, month time.Month, day int) {
	return ToTime(jd).Date()
}

// YearBounds returns the first and the last second of year in UTC.
func YearBounds(year int) (start, end time.Time) {
	start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	return start, end
}
