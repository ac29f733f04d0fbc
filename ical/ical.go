// Package ical models the subset of iCalendar (RFC 5545) needed to publish
// lunar phases as all-day events. The content-line syntax is handled by
// github.com/arran4/golang-ical.
// https://datatracker.ietf.org/doc/html/rfc5545
package ical

import (
	"fmt"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/ngrash/go-moon/almanac"
	"github.com/ngrash/go-moon/internal/julian"
)

// Version is the only iCalendar version defined by RFC 5545.
const Version = "2.0"

// MethodPublish marks a calendar that is posted without expecting replies.
const MethodPublish = string(ics.MethodPublish)

// Defaults used by FromAlmanac for unset Options.
const (
	DefaultName   = "Moon phases"
	DefaultProdID = "-//ngrash//go-moon//EN"
	DefaultDomain = "moonphase.local"
)

// Calendar is a VCALENDAR object.
type Calendar struct {
	Method  string // METHOD
	Version string // VERSION
	Name    string // X-WR-CALNAME
	ProdID  string // PRODID
	Events  []Event
}

// Event is a VEVENT component. Phases are published as all-day events, so
// Start and End are dates. End is exclusive.
type Event struct {
	UID          string    // UID
	Created      time.Time // CREATED
	Stamp        time.Time // DTSTAMP
	LastModified time.Time // LAST-MODIFIED
	Summary      string    // SUMMARY
	Description  string    // DESCRIPTION
	Start        Date      // DTSTART;VALUE=DATE
	End          Date      // DTEND;VALUE=DATE
	Transparent  bool      // TRANSP
}

// Date is a calendar day without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{y, m, d}
}

// Time returns midnight of d in UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is before o.
func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

// IsZero reports whether d is unset.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Valid reports whether d names an existing day.
func (d Date) Valid() bool {
	return d.Month >= time.January && d.Month <= time.December &&
		d.Day >= 1 && DateOf(d.Time()) == d
}

// String returns d in the iCalendar DATE form, e.g. 20161114.
func (d Date) String() string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

func parseDate(s string) (Date, error) {
	if len(s) != 8 {
		return Date{}, fmt.Errorf("invalid date %q: expected 8 digits", s)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Date{}, fmt.Errorf("invalid date %q: expected 8 digits", s)
	}
	d := Date{n / 10000, time.Month(n / 100 % 100), n % 100}
	if !d.Valid() {
		return Date{}, fmt.Errorf("invalid date %q: no such day", s)
	}
	return d, nil
}

// Options controls FromAlmanac.
type Options struct {
	// Name is the calendar name and the description of every event.
	Name string
	// Domain is the right-hand side of generated UIDs.
	Domain string
	ProdID string
	// Location selects the day an event falls on. Nil means UTC.
	Location *time.Location
	// Now is the creation timestamp shared by all events. Zero means
	// time.Now.
	Now time.Time
	// NewUUID generates the unique part of UIDs. Nil means uuid.New.
	NewUUID func() uuid.UUID
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.Domain == "" {
		o.Domain = DefaultDomain
	}
	if o.ProdID == "" {
		o.ProdID = DefaultProdID
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.NewUUID == nil {
		o.NewUUID = uuid.New
	}
	return o
}

// FromAlmanac returns a calendar with one all-day event per phase event of a.
// The event's day is the day of its Julian Day in opts.Location. DTEND is the
// following day rather than the start day, since RFC 5545 treats it as
// exclusive and a calendar would otherwise show an event of no length.
func FromAlmanac(a almanac.Almanac, opts Options) Calendar {
	opts = opts.withDefaults()
	stamp := opts.Now.UTC().Truncate(time.Second)

	c := Calendar{
		Method:  MethodPublish,
		Version: Version,
		Name:    opts.Name,
		ProdID:  opts.ProdID,
		Events:  make([]Event, len(a.Events)),
	}
	for i, e := range a.Events {
		_, offset := e.Time.In(opts.Location).Zone()
		y, m, d := julian.ToDate(e.JDE + float64(offset)/secondsPerDay)
		day := Date{y, m, d}
		c.Events[i] = Event{
			UID:          fmt.Sprintf("%s-%s@%s", stamp.Format(timestampLayout), opts.NewUUID(), opts.Domain),
			Created:      stamp,
			Stamp:        stamp,
			LastModified: stamp,
			Summary:      e.Label,
			Description:  opts.Name,
			Start:        day,
			End:          day.AddDays(1),
			Transparent:  true,
		}
	}
	return c
}

// FileName returns the conventional file name of a calendar for year, e.g.
// Moonphases-2016.ics. An empty prefix means "Moonphases".
func FileName(prefix string, year int) string {
	if prefix == "" {
		prefix = "Moonphases"
	}
	return fmt.Sprintf("%s-%d.ics", prefix, year)
}
