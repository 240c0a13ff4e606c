package chart

import "math"

// ticTolerance keeps a tic that lands on the upper bound despite rounding
// in lower + k*interval.
const ticTolerance = 1e-9

// AxisRange is the value interval mapped onto the chart's vertical extent.
type AxisRange struct {
	Lower float64
	Upper float64
}

// Digits counts how many times v can be divided by ten before it drops
// below ten. Negative input yields -1.
func Digits(v float64) int {
	if v < 0 {
		return -1
	}
	d := 0
	for v >= 10 {
		v /= 10
		d++
	}
	return d
}

// ComputeRange rounds max up to a readable axis bound: the next multiple of
// its leading decimal magnitude (42 -> 50, 150 -> 200, 999 -> 1000). Values
// below ten snap to 10, values up to one snap to 1, and the bound is never
// zero.
func ComputeRange(max float64) AxisRange {
	upper := roundUpper(max)
	if upper <= 0 {
		upper = 1
	}
	return AxisRange{Lower: 0, Upper: upper}
}

func roundUpper(v float64) float64 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v <= 1:
		return 1
	case v < 10:
		// single digits snap to 10 (7 -> 10), not to the next integer.
		return 10
	}
	mag := math.Pow(10, float64(Digits(v)))
	return math.Ceil(v/mag) * mag
}

// Span is Upper - Lower.
func (r AxisRange) Span() float64 { return r.Upper - r.Lower }

// Interval splits the range into n equal tic steps.
func (r AxisRange) Interval(n int) float64 {
	if n <= 0 {
		return 0
	}
	return r.Span() / float64(n)
}

// TicValue is the value at tic k for the given interval.
func (r AxisRange) TicValue(k int, interval float64) float64 {
	return r.Lower + float64(k)*interval
}

// TicCount is the number of tic lines for the given interval: every k with
// lower + k*interval <= upper, so a tic exactly on the upper bound is kept.
func (r AxisRange) TicCount(interval float64) int {
	if interval <= 0 || r.Span() < 0 {
		return 0
	}
	limit := r.Span() + ticTolerance*math.Max(1, math.Abs(r.Upper))
	n := 0
	for float64(n)*interval <= limit {
		n++
	}
	return n
}
