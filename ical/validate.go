package ical

import (
	"errors"
	"fmt"
)

// Validate checks the properties a consumer requires of c. All problems
// found are reported.
func Validate(c Calendar) error {
	var errs []error
	if c.Version != Version {
		errs = append(errs, fmt.Errorf("invalid version %q: must be %q", c.Version, Version))
	}
	if c.ProdID == "" {
		errs = append(errs, errors.New("missing product identifier"))
	}

	uids := make(map[string]int, len(c.Events))
	for i, e := range c.Events {
		if err := validateEvent(e); err != nil {
			errs = append(errs, fmt.Errorf("event %d: %w", i, err))
		}
		if e.UID == "" {
			continue
		}
		if j, ok := uids[e.UID]; ok {
			errs = append(errs, fmt.Errorf("event %d: duplicate uid %q of event %d", i, e.UID, j))
		}
		uids[e.UID] = i
	}

	return errors.Join(errs...)
}

func validateEvent(e Event) error {
	var errs []error
	if e.UID == "" {
		errs = append(errs, errors.New("missing uid"))
	}
	if e.Stamp.IsZero() {
		errs = append(errs, errors.New("missing timestamp"))
	}
	if e.Summary == "" {
		errs = append(errs, errors.New("missing summary"))
	}
	if !e.Start.Valid() {
		errs = append(errs, fmt.Errorf("invalid start date %v", e.Start))
	}
	if !e.End.IsZero() {
		if !e.End.Valid() {
			errs = append(errs, fmt.Errorf("invalid end date %v", e.End))
		} else if !e.Start.Before(e.End) {
			errs = append(errs, fmt.Errorf("end date %v not after start date %v", e.End, e.Start))
		}
	}
	if !e.Created.IsZero() && !e.LastModified.IsZero() && e.LastModified.Before(e.Created) {
		errs = append(errs, fmt.Errorf("last modified %v before creation %v", e.LastModified, e.Created))
	}
	return errors.Join(errs...)
}
