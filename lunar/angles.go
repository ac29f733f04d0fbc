// Package lunar computes the instants of the four principal phases of the Moon.
//
// The algorithm is the one given by Jean Meeus in Astronomical Algorithms,
// chapter 49. It is derived from Chapront's lunar theory ELP-2000/82 and from
// Bretagnon and Francou's VSOP87 for the Sun. The stated accuracy is a few
// seconds for dates within a few centuries of J2000.0. Results are Julian
// Ephemeris Days; no correction for ΔT is applied.
package lunar

import "math"

const (
	// lunationEpoch is the Julian Day of the new moon of 2000 January 6,
	// which starts lunation 0.
	lunationEpoch = 2451550.09765
	// synodicMonth is the mean length of a lunation in days.
	synodicMonth = 29.530588853
	// centuryLunations is the number of lunations per Julian century.
	centuryLunations = 1236.85

	rad = math.Pi / 180
)

// Angles holds the fundamental arguments of a single phase evaluation.
// All angles are in radians.
type Angles struct {
	K     float64 // lunation number including the phase fraction
	T     float64 // Julian centuries since J2000.0
	E     float64 // eccentricity correction of the Earth's orbit
	JDE0  float64 // mean phase in Julian Ephemeris Days
	M     float64 // mean anomaly of the Sun
	Mp    float64 // mean anomaly of the Moon
	F     float64 // argument of latitude of the Moon
	Omega float64 // longitude of the ascending node of the lunar orbit
}

// series is a polynomial in k and T: a0 + k·a1 + T²·(a2 + T·(a3 + T·a4)).
type series [5]float64

func (s series) eval(k, t float64) float64 {
	return s[0] + k*s[1] + t*t*(s[2]+t*(s[3]+t*s[4]))
}

var (
	jde0Series  = series{2451550.09766, 29.530588861, 0.00015437, -0.00000015, 0.00000000073}
	mSeries     = series{2.5534, 29.10535669, -0.0000014, -0.00000011, 0}
	mpSeries    = series{201.5643, 385.81693528, 0.0107582, 0.00001238, -0.000000058}
	fSeries     = series{160.7108, 390.67050284, -0.0016118, -0.00000227, 0.000000011}
	omegaSeries = series{124.7746, -1.56375588, 0.0020672, 0.00000215, 0}
)

// eccentricity returns the factor E for time t in Julian centuries.
func eccentricity(t float64) float64 {
	return 1 - t*(0.002516+t*0.0000074)
}

// evalAngles evaluates the fundamental arguments for lunation number k.
func evalAngles(k float64) Angles {
	t := k / centuryLunations
	return Angles{
		K:     k,
		T:     t,
		E:     eccentricity(t),
		JDE0:  jde0Series.eval(k, t),
		M:     mSeries.eval(k, t) * rad,
		Mp:    mpSeries.eval(k, t) * rad,
		F:     fSeries.eval(k, t) * rad,
		Omega: omegaSeries.eval(k, t) * rad,
	}
}
