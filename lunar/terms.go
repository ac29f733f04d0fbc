package lunar

import "math"

// Column selects one of the coefficient sets of the periodic terms.
type Column int

const (
	NewColumn Column = iota
	FullColumn
	QuarterColumn
)

// term is one row of a periodic term table. The argument of the term is
// m·M + mp·M′ + f·F; the term is scaled by E raised to the power e.
type term struct {
	m, mp, f int
	e        int
}

func (t term) arg(a Angles) float64 {
	return float64(t.m)*a.M + float64(t.mp)*a.Mp + float64(t.f)*a.F
}

func (t term) ecc(a Angles) float64 {
	switch t.e {
	case 1:
		return a.E
	case 2:
		return a.E * a.E
	}
	return 1
}

type mainTerm struct {
	term
	coef [3]float64 // indexed by Column
}

// mainTerms are the periodic corrections of the Sun and the Moon,
// Meeus table 49.A and the quarter list that follows it.
var mainTerms = [...]mainTerm{
	{term{0, 1, 0, 0}, [3]float64{-0.40720, -0.40614, -0.62801}},
	{term{1, 0, 0, 1}, [3]float64{0.17241, 0.17302, 0.17172}},
	{term{0, 2, 0, 0}, [3]float64{0.01608, 0.01614, 0.00862}},
	{term{0, 0, 2, 0}, [3]float64{0.01039, 0.01043, 0.00804}},
	{term{-1, 1, 0, 1}, [3]float64{0.00739, 0.00734, 0.00454}},
	{term{1, 1, 0, 1}, [3]float64{-0.00514, -0.00515, -0.01183}},
	{term{2, 0, 0, 2}, [3]float64{0.00208, 0.00209, 0.00204}},
	{term{0, 1, -2, 0}, [3]float64{-0.00111, -0.00111, -0.00180}},
	{term{0, 1, 2, 0}, [3]float64{-0.00057, -0.00057, -0.00070}},
	{term{1, 2, 0, 1}, [3]float64{0.00056, 0.00056, 0.00027}},
	{term{0, 3, 0, 0}, [3]float64{-0.00042, -0.00042, -0.00040}},
	{term{1, 0, 2, 1}, [3]float64{0.00042, 0.00042, 0.00032}},
	{term{1, 0, -2, 1}, [3]float64{0.00038, 0.00038, 0.00032}},
	{term{-1, 2, 0, 1}, [3]float64{-0.00024, -0.00024, -0.00034}},
	{term{2, 1, 0, 0}, [3]float64{-0.00007, -0.00007, -0.00028}},
	{term{0, 2, -2, 0}, [3]float64{0.00004, 0.00004, 0.00002}},
	{term{3, 0, 0, 0}, [3]float64{0.00004, 0.00004, 0.00003}},
	{term{1, 1, -2, 0}, [3]float64{0.00003, 0.00003, 0.00003}},
	{term{0, 2, 2, 0}, [3]float64{0.00003, 0.00003, 0.00004}},
	{term{1, 1, 2, 0}, [3]float64{-0.00003, -0.00003, -0.00004}},
	{term{-1, 1, 2, 0}, [3]float64{0.00003, 0.00003, 0.00002}},
	{term{-1, 1, -2, 0}, [3]float64{-0.00002, -0.00002, -0.00005}},
	{term{1, 3, 0, 0}, [3]float64{-0.00002, -0.00002, -0.00002}},
	{term{0, 4, 0, 0}, [3]float64{0.00002, 0.00002, 0}},
	{term{-2, 1, 0, 0}, [3]float64{0, 0, 0.00004}},
}

type wTerm struct {
	term
	coef float64
}

// wConst and wTerms make up the additional correction W of the quarters.
const wConst = 0.00306

var wTerms = [...]wTerm{
	{term{1, 0, 0, 1}, -0.00038},
	{term{0, 1, 0, 0}, 0.00026},
	{term{-1, 1, 0, 0}, -0.00002},
	{term{1, 1, 0, 0}, 0.00002},
	{term{0, 0, 2, 0}, 0.00002},
}

// periodicCorrection sums the periodic terms of column col in days.
func periodicCorrection(col Column, a Angles) float64 {
	sum := -0.00017 * math.Sin(a.Omega)
	for _, t := range mainTerms {
		sum += t.coef[col] * (math.Sin(t.arg(a)) * t.ecc(a))
	}
	return sum
}

// wCorrection returns the W correction in days. It is added to the first
// quarter and subtracted from the last quarter.
func wCorrection(a Angles) float64 {
	w := wConst
	for _, t := range wTerms {
		w += t.coef * (math.Cos(t.arg(a)) * t.ecc(a))
	}
	return w
}
