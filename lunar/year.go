package lunar

import (
	"sort"
	"time"
)

// YearLunations is the number of lunations scanned for a calendar year.
// A year holds about 12.37 lunations and the scan starts with the lunation
// in progress at the start of the year, so 14 always cover it.
const YearLunations = 14

// EnumerateYear returns all phase events that occur strictly between start
// and end, sorted by time. jd is the Julian Day of start and determines the
// first lunation scanned.
func EnumerateYear(jd float64, start, end time.Time) []Event {
	return Enumerate(jd, start, end, YearLunations)
}

// Enumerate is like EnumerateYear but scans the given number of lunations.
func Enumerate(jd float64, start, end time.Time, lunations int) []Event {
	var events []Event
	for l := 0; l < lunations; l++ {
		for _, p := range Phases {
			e := Compute(jd, l, p)
			if e.Time.After(start) && e.Time.Before(end) {
				events = append(events, e)
			}
		}
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})
	return events
}
