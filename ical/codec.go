package ical

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

const timestampLayout = "20060102T150405Z"

const secondsPerDay = 24 * 60 * 60

// maxLineOctets is the limit of a content line, excluding the line break.
const maxLineOctets = 75

// Encode writes c to w in iCalendar text form. Lines end with CRLF and are
// folded at 75 octets.
func (c Calendar) Encode(w io.Writer) error {
	err := c.toICS().SerializeTo(w, ics.WithLineLength(maxLineOctets), ics.WithNewLineWindows)
	if err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}

func (c Calendar) toICS() *ics.Calendar {
	cal := &ics.Calendar{}
	if c.Method != "" {
		cal.SetMethod(ics.Method(c.Method))
	}
	cal.SetVersion(c.Version)
	if c.Name != "" {
		cal.SetXWRCalName(text(c.Name))
	}
	cal.SetProductId(c.ProdID)
	for _, e := range c.Events {
		cal.AddVEvent(e.toICS())
	}
	return cal
}

func (e Event) toICS() *ics.VEvent {
	ve := ics.NewEvent(e.UID)
	if !e.Created.IsZero() {
		ve.SetCreatedTime(e.Created)
	}
	ve.SetDtStampTime(e.Stamp)
	if !e.LastModified.IsZero() {
		ve.SetLastModifiedAt(e.LastModified)
	}
	ve.SetSummary(text(e.Summary))
	if e.Description != "" {
		ve.SetDescription(text(e.Description))
	}
	ve.SetAllDayStartAt(e.Start.Time())
	if !e.End.IsZero() {
		ve.SetAllDayEndAt(e.End.Time())
	}
	if e.Transparent {
		ve.SetTimeTransparency(ics.TransparencyTransparent)
	} else {
		ve.SetTimeTransparency(ics.TransparencyOpaque)
	}
	return ve
}

// text normalises line breaks so that TEXT escaping turns each into \n.
func text(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// ParseError is an error in a decoded calendar. Errors of the content line
// syntax have no Property.
type ParseError struct {
	Event    int    // index of the event, -1 for the calendar itself
	Property string // name of the offending property
	Value    string
	Err      error
}

func (e *ParseError) Error() string {
	switch {
	case e.Property == "":
		return fmt.Sprintf("parse calendar: %v", e.Err)
	case e.Event < 0:
		return fmt.Sprintf("calendar: %s %q: %v", e.Property, e.Value, e.Err)
	default:
		return fmt.Sprintf("event %d: %s %q: %v", e.Event, e.Property, e.Value, e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Decode reads a calendar from r. Properties and components it does not
// know are skipped.
func Decode(r io.Reader) (Calendar, error) {
	var c Calendar
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return c, &ParseError{Event: -1, Err: err}
	}
	if len(cal.CalendarProperties) == 0 && len(cal.Components) == 0 {
		return c, &ParseError{Event: -1, Err: errors.New("empty calendar")}
	}

	for _, p := range cal.CalendarProperties {
		switch ics.Property(strings.ToUpper(p.IANAToken)) {
		case ics.PropertyMethod:
			c.Method = p.Value
		case ics.PropertyVersion:
			c.Version = p.Value
		case ics.PropertyProductId:
			c.ProdID = p.Value
		case ics.PropertyXWRCalName:
			c.Name = p.Value
		}
	}
	for _, ve := range cal.Events() {
		e, err := decodeEvent(ve, len(c.Events))
		if err != nil {
			return c, err
		}
		c.Events = append(c.Events, e)
	}
	return c, nil
}

// decodeEvent maps the properties of ve onto an Event. TEXT values arrive
// unescaped.
func decodeEvent(ve *ics.VEvent, index int) (Event, error) {
	var e Event
	for _, p := range ve.Properties {
		name := strings.ToUpper(p.IANAToken)
		var err error
		switch ics.Property(name) {
		case ics.PropertyUid:
			e.UID = p.Value
		case ics.PropertyCreated:
			e.Created, err = parseTimestamp(p.Value)
		case ics.PropertyDtstamp:
			e.Stamp, err = parseTimestamp(p.Value)
		case ics.PropertyLastModified:
			e.LastModified, err = parseTimestamp(p.Value)
		case ics.PropertySummary:
			e.Summary = p.Value
		case ics.PropertyDescription:
			e.Description = p.Value
		case ics.PropertyDtstart:
			e.Start, err = parseDateProperty(p.BaseProperty)
		case ics.PropertyDtend:
			e.End, err = parseDateProperty(p.BaseProperty)
		case ics.PropertyTransp:
			switch ics.TimeTransparency(strings.ToUpper(p.Value)) {
			case ics.TransparencyTransparent:
				e.Transparent = true
			case ics.TransparencyOpaque:
				e.Transparent = false
			default:
				err = errors.New("must be TRANSPARENT or OPAQUE")
			}
		}
		if err != nil {
			return e, &ParseError{Event: index, Property: name, Value: p.Value, Err: err}
		}
	}
	return e, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp: expected form %s", timestampLayout)
	}
	return t, nil
}

// parseDateProperty accepts DATE values and, for interoperability, UTC
// DATE-TIME values whose date is used.
func parseDateProperty(p ics.BaseProperty) (Date, error) {
	if p.GetValueType() == ics.ValueDataTypeDate || len(p.Value) == 8 {
		return parseDate(p.Value)
	}
	t, err := parseTimestamp(p.Value)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}
