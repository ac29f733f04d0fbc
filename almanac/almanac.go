// Package almanac lists the lunar phases of calendar years.
package almanac

import (
	"context"
	"fmt"
	"time"

	"cloudeng.io/sync/errgroup"

	"github.com/ngrash/go-moon/internal/julian"
	"github.com/ngrash/go-moon/lunar"
)

// Years outside this range are rejected. The series loses accuracy far
// from J2000.0.
const (
	MinYear = 1600
	MaxYear = 2399
)

// RangeError reports a year outside of [MinYear, MaxYear].
type RangeError struct {
	Year int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("year %d out of range: must be between %d and %d", e.Year, MinYear, MaxYear)
}

// CheckYear returns a *RangeError if year cannot be listed.
func CheckYear(year int) error {
	if year < MinYear || year > MaxYear {
		return &RangeError{Year: year}
	}
	return nil
}

// Labeler names the phases for display.
type Labeler interface {
	Label(p lunar.Phase) string
}

// Almanac holds the phase events of one calendar year in UTC.
type Almanac struct {
	Year   int
	Events []lunar.Event
}

// Summary returns a one line description of a.
func (a Almanac) Summary() string {
	return fmt.Sprintf("calculated %d moon phases for the year %d.", len(a.Events), a.Year)
}

// Bounds returns the first and last second of the almanac's year.
func (a Almanac) Bounds() (start, end time.Time) {
	return julian.YearBounds(a.Year)
}

// ForYear computes the almanac of year. If l is nil, the English names of
// package lunar are kept.
func ForYear(year int, l Labeler) (Almanac, error) {
	if err := CheckYear(year); err != nil {
		return Almanac{}, err
	}
	start, end := julian.YearBounds(year)
	events := lunar.EnumerateYear(julian.FromDate(year, time.January, 1), start, end)
	relabel(events, l)
	return Almanac{Year: year, Events: events}, nil
}

// EnumerateYears computes the almanacs of years concurrently. The result
// is in the order of years. All years are checked before any is computed.
func EnumerateYears(ctx context.Context, years []int, l Labeler) ([]Almanac, error) {
	for _, y := range years {
		if err := CheckYear(y); err != nil {
			return nil, err
		}
	}

	out := make([]Almanac, len(years))
	g, ctx := errgroup.WithContext(ctx)
	for i, y := range years {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, err := ForYear(y, l)
			if err != nil {
				return fmt.Errorf("year %d: %w", y, err)
			}
			out[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Upcoming returns the next n phase events strictly after now.
func Upcoming(now time.Time, n int, l Labeler) []lunar.Event {
	if n <= 0 {
		return nil
	}
	// Every lunation holds four events. One more covers the events of
	// the lunation in progress that already passed.
	lunations := n/4 + 2
	end := now.AddDate(0, 0, lunations*31)
	events := lunar.Enumerate(julian.FromTime(now), now, end, lunations)
	if len(events) > n {
		events = events[:n]
	}
	relabel(events, l)
	return events
}

func relabel(events []lunar.Event, l Labeler) {
	if l == nil {
		return
	}
	for i := range events {
		events[i].Label = l.Label(events[i].Phase)
	}
}
