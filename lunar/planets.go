package lunar

import "math"

// planetTerm is one of the additional corrections A1..A14 for the
// perturbations by the planets. The argument is base + k·rate in degrees.
type planetTerm struct {
	base, rate, amp float64
}

var planetTerms = [...]planetTerm{
	{299.77, 0.107408, 0.000325},
	{251.88, 0.016321, 0.000165},
	{251.83, 26.651886, 0.000164},
	{349.42, 36.412478, 0.000126},
	{84.66, 18.206239, 0.000110},
	{141.74, 53.303771, 0.000062},
	{207.14, 2.153732, 0.000060},
	{154.84, 7.306860, 0.000056},
	{34.52, 27.261239, 0.000047},
	{207.19, 0.121824, 0.000042},
	{291.34, 1.844379, 0.000040},
	{161.72, 24.198154, 0.000037},
	{239.56, 25.513099, 0.000035},
	{331.55, 3.592518, 0.000023},
}

// planetaryCorrection sums the planetary terms for lunation number k at
// time t in Julian centuries. The result is in days.
func planetaryCorrection(k, t float64) float64 {
	var sum float64
	for i, p := range planetTerms {
		a := (p.base + k*p.rate) * rad
		if i == 0 {
			a -= 0.009173 * t * t * rad
		}
		sum += p.amp * math.Sin(a)
	}
	return sum
}
