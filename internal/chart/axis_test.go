package chart

import (
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestDigits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want int
	}{
		{in: 0, want: 0},
		{in: 9.99, want: 0},
		{in: 10, want: 1},
		{in: 999, want: 2},
		{in: 1000, want: 3},
		{in: -4, want: -1},
	}
	for _, tc := range tests {
		if got := Digits(tc.in); got != tc.want {
			t.Fatalf("Digits(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestComputeRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		max  float64
		want float64
	}{
		{max: 0, want: 1},
		{max: 0.4, want: 1},
		{max: 1, want: 1},
		{max: 1.5, want: 10},
		{max: 7, want: 10},
		{max: 10, want: 10},
		{max: 30, want: 30},
		{max: 42, want: 50},
		{max: 150, want: 200},
		{max: 999, want: 1000},
		{max: 1234, want: 2000},
		{max: -5, want: 1},
	}
	for _, tc := range tests {
		got := ComputeRange(tc.max)
		if got.Lower != 0 || got.Upper != tc.want {
			t.Fatalf("ComputeRange(%v) = %+v, want [0,%v]", tc.max, got, tc.want)
		}
	}
}

func TestComputeRangeMonotonicAndCovering(t *testing.T) {
	t.Parallel()

	prev := 0.0
	for v := 0.0; v <= 5000; v += 0.25 {
		upper := ComputeRange(v).Upper
		if upper < v {
			t.Fatalf("ComputeRange(%v).Upper = %v, below max", v, upper)
		}
		if upper < prev {
			t.Fatalf("ComputeRange(%v).Upper = %v, smaller than %v for a smaller max", v, upper, prev)
		}
		if upper <= 0 {
			t.Fatalf("ComputeRange(%v).Upper = %v, want > 0", v, upper)
		}
		prev = upper
	}
}

func TestTicCountIncludesUpperBound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		r        AxisRange
		interval float64
		want     int
	}{
		{name: "quarters", r: AxisRange{Upper: 30}, interval: 7.5, want: 5},
		{name: "uneven", r: AxisRange{Upper: 30}, interval: 7, want: 5},
		{name: "float drift", r: AxisRange{Upper: 0.3}, interval: 0.1, want: 4},
		{name: "no interval", r: AxisRange{Upper: 10}, interval: 0, want: 0},
	}
	for _, tc := range tests {
		if got := tc.r.TicCount(tc.interval); got != tc.want {
			t.Fatalf("%s: TicCount(%v) = %d, want %d", tc.name, tc.interval, got, tc.want)
		}
	}
}

func TestIntervalAndTicValue(t *testing.T) {
	t.Parallel()

	r := AxisRange{Upper: 50}
	interval := r.Interval(4)
	if interval != 12.5 {
		t.Fatalf("Interval(4) = %v, want 12.5", interval)
	}
	if got := r.TicValue(3, interval); got != 37.5 {
		t.Fatalf("TicValue(3) = %v, want 37.5", got)
	}
	if got := r.Interval(0); got != 0 {
		t.Fatalf("Interval(0) = %v, want 0", got)
	}
}
