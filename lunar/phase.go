package lunar

import (
	"fmt"
	"math"
	"time"
)

// Phase is one of the four principal phases of the Moon.
// Phases are cyclic: the LastQuarter of lunation n precedes the NewMoon of
// lunation n+1.
type Phase int

const (
	NewMoon Phase = iota
	FirstQuarter
	FullMoon
	LastQuarter
)

// Phases lists all phases in the order they occur within a lunation.
var Phases = [...]Phase{NewMoon, FirstQuarter, FullMoon, LastQuarter}

func (p Phase) String() string {
	switch p {
	case NewMoon:
		return "New Moon"
	case FirstQuarter:
		return "First Quarter"
	case FullMoon:
		return "Full Moon"
	case LastQuarter:
		return "Last Quarter"
	default:
		return fmt.Sprintf("<undefined phase (%d)>", int(p))
	}
}

// Valid reports whether p is one of the four defined phases.
func (p Phase) Valid() bool {
	return p >= NewMoon && p <= LastQuarter
}

// Next returns the phase following p.
func (p Phase) Next() Phase {
	return (p + 1) % 4
}

// correction returns the periodic correction of p in days.
func (p Phase) correction(a Angles) float64 {
	switch p {
	case NewMoon:
		return periodicCorrection(NewColumn, a)
	case FullMoon:
		return periodicCorrection(FullColumn, a)
	case FirstQuarter:
		return periodicCorrection(QuarterColumn, a) + wCorrection(a)
	case LastQuarter:
		return periodicCorrection(QuarterColumn, a) - wCorrection(a)
	}
	panic(fmt.Errorf("invalid Phase: %d", int(p)))
}

const (
	// ReferenceJD is the Julian Day of 2001-01-01 00:00:00 UTC. Event
	// instants are counted in seconds from this day.
	ReferenceJD = 2451910.5

	secondsPerDay = 86400
	// referenceUnix is the Unix time of ReferenceJD.
	referenceUnix = 978307200
)

// Reference is the instant of ReferenceJD.
var Reference = time.Unix(referenceUnix, 0).UTC()

// Event is a single occurrence of a lunar phase.
type Event struct {
	// Lunation is the lunation index relative to the reference day the
	// event was computed for.
	Lunation int
	Phase    Phase
	// K is the lunation number counted from the new moon of 2000 January 6,
	// including the phase fraction.
	K float64
	// JDE is the instant of the event in Julian Ephemeris Days.
	JDE float64
	// Time is the instant of the event in UTC.
	Time time.Time
	// Label is the display name of the phase.
	Label string
}

// Seconds returns the instant of e in seconds since Reference.
func (e Event) Seconds() float64 {
	return (e.JDE - ReferenceJD) * secondsPerDay
}

// lunationNumber returns the fractional number of lunations between the
// new moon of 2000 January 6 and jd.
func lunationNumber(jd float64) float64 {
	return (jd - lunationEpoch) / synodicMonth
}

// instant converts a Julian Ephemeris Day to a time.Time in UTC.
// time.Duration only covers ±292 years, so the seconds are passed to
// time.Unix instead.
func instant(jde float64) time.Time {
	sec := (jde - ReferenceJD) * secondsPerDay
	whole := math.Floor(sec)
	return time.Unix(referenceUnix+int64(whole), int64((sec-whole)*1e9)).UTC()
}

// Compute returns the event of phase p in the lunation that is lunation
// lunations after the one in progress at Julian Day jd.
// Compute panics if p is not a valid Phase.
func Compute(jd float64, lunation int, p Phase) Event {
	if !p.Valid() {
		panic(fmt.Errorf("invalid Phase: %d", int(p)))
	}
	k := math.Floor(lunationNumber(jd)) + float64(lunation) + float64(p)*0.25
	a := evalAngles(k)
	jde := a.JDE0 + p.correction(a) + planetaryCorrection(a.K, a.T)
	return Event{
		Lunation: lunation,
		Phase:    p,
		K:        k,
		JDE:      jde,
		Time:     instant(jde),
		Label:    p.String(),
	}
}
