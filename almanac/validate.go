package almanac

import (
	"errors"
	"fmt"
	"time"

	"github.com/ngrash/go-moon/internal/julian"
)

// Limits of the interval between two consecutive phases. The eccentric lunar
// orbit stretches a quarter lunation of 7.38 days to between 6.5 and 8.3 days.
const (
	MinQuarter = 6*24*time.Hour + 12*time.Hour
	MaxQuarter = 8*24*time.Hour + 8*time.Hour
)

// Validate checks that a lists a plausible sequence of phases for its year.
// All problems found are reported.
func Validate(a Almanac) error {
	var errs []error
	if err := CheckYear(a.Year); err != nil {
		errs = append(errs, err)
	}

	start, end := a.Bounds()
	for i, e := range a.Events {
		if !e.Phase.Valid() {
			errs = append(errs, fmt.Errorf("event %d: invalid phase %d", i, int(e.Phase)))
		}
		if !e.Time.After(start) || !e.Time.Before(end) {
			errs = append(errs, fmt.Errorf("event %d: %v at %v outside of year %d", i, e.Phase, e.Time, a.Year))
		}
		if t := julian.ToTime(e.JDE); t.Sub(e.Time).Abs() > time.Second {
			errs = append(errs, fmt.Errorf("event %d: time %v does not match Julian Day %v (%v)", i, e.Time, e.JDE, t))
		}
		if e.Label == "" {
			errs = append(errs, fmt.Errorf("event %d: missing label", i))
		}
		if i == 0 {
			continue
		}

		prev := a.Events[i-1]
		if e.Phase != prev.Phase.Next() {
			errs = append(errs, fmt.Errorf("event %d: %v follows %v", i, e.Phase, prev.Phase))
		}
		if d := e.Time.Sub(prev.Time); d < MinQuarter || d > MaxQuarter {
			errs = append(errs, fmt.Errorf("event %d: %v after previous event, must be between %v and %v", i, d, MinQuarter, MaxQuarter))
		}
	}

	// A year holds 12.37 lunations, i.e. 49 or 50 phases.
	if n := len(a.Events); n < 48 || n > 50 {
		errs = append(errs, fmt.Errorf("invalid number of events: %d, must be between 48 and 50", n))
	}

	return errors.Join(errs...)
}
