package chart

import (
	"math"
	"time"
)

// Easing maps linear progress in [0,1] onto eased progress.
type Easing func(t float64) float64

func Linear(t float64) float64 { return clamp01(t) }

// EaseInOut is the standard ease-in-ease-out curve.
var EaseInOut = CubicBezier(0.42, 0, 0.58, 1)

// CubicBezier builds a timing curve through (0,0), (x1,y1), (x2,y2), (1,1).
func CubicBezier(x1, y1, x2, y2 float64) Easing {
	cx := 3 * x1
	bx := 3*(x2-x1) - cx
	ax := 1 - cx - bx
	cy := 3 * y1
	by := 3*(y2-y1) - cy
	ay := 1 - cy - by

	sampleX := func(s float64) float64 { return ((ax*s+bx)*s + cx) * s }
	sampleY := func(s float64) float64 { return ((ay*s+by)*s + cy) * s }
	slopeX := func(s float64) float64 { return (3*ax*s+2*bx)*s + cx }

	solve := func(x float64) float64 {
		s := x
		for range 8 {
			dx := sampleX(s) - x
			if math.Abs(dx) < 1e-7 {
				return s
			}
			d := slopeX(s)
			if math.Abs(d) < 1e-6 {
				break
			}
			s -= dx / d
		}
		lo, hi := 0.0, 1.0
		s = x
		for range 32 {
			v := sampleX(s)
			if math.Abs(v-x) < 1e-7 {
				break
			}
			if v < x {
				lo = s
			} else {
				hi = s
			}
			s = (lo + hi) / 2
		}
		return s
	}

	return func(t float64) float64 {
		t = clamp01(t)
		if t == 0 || t == 1 {
			return t
		}
		return sampleY(solve(t))
	}
}

func clamp01(t float64) float64 {
	switch {
	case math.IsNaN(t) || t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}

type Timing struct {
	Duration time.Duration
	Easing   Easing
}

var DefaultTiming = Timing{Duration: 250 * time.Millisecond, Easing: EaseInOut}

// Progress is the linear fraction of the transition elapsed, clamped.
func (t Timing) Progress(elapsed time.Duration) float64 {
	if t.Duration <= 0 {
		return 1
	}
	return clamp01(float64(elapsed) / float64(t.Duration))
}

func (t Timing) Done(elapsed time.Duration) bool {
	return t.Progress(elapsed) >= 1
}

func (t Timing) ease(p float64) float64 {
	if t.Easing == nil {
		return Linear(p)
	}
	return t.Easing(p)
}

// BarTransition morphs one bar from its start shape to its end shape.
type BarTransition struct {
	From       Rect
	To         Rect
	FromRadius float64
	ToRadius   float64
	Timing     Timing
}

// At returns the shape at linear progress p.
func (b BarTransition) At(p float64) (Rect, float64) {
	e := b.Timing.ease(p)
	return b.From.lerp(b.To, e), lerp(b.FromRadius, b.ToRadius, e)
}

type ArcTransition struct {
	From   Arc
	To     Arc
	Timing Timing
}

func (a ArcTransition) At(p float64) Arc {
	return a.From.lerp(a.To, a.Timing.ease(p))
}

// Continuous reports whether cur should morph out of prev. Only the
// cluster count is compared, so relabelled clusters still animate.
func Continuous(prev, cur *BarGeometry) bool {
	return prev != nil && cur != nil && prev.NumClusters() == cur.NumClusters()
}

// ContinuousCircle reports whether both layouts have the same arcs.
func ContinuousCircle(prev, cur *CircleGeometry) bool {
	return prev != nil && cur != nil && prev.NumArcs() == cur.NumArcs()
}

// BarAnimator computes per-bar transitions from prev to cur. A nil or
// discontinuous prev makes every bar grow from its baseline.
type BarAnimator struct {
	prev   *BarGeometry
	cur    *BarGeometry
	timing Timing
}

func NewBarAnimator(prev, cur *BarGeometry, timing Timing) *BarAnimator {
	if !Continuous(prev, cur) {
		prev = nil
	}
	return &BarAnimator{prev: prev, cur: cur, timing: timing}
}

func (a *BarAnimator) Continuous() bool { return a.prev != nil }

func (a *BarAnimator) Transition(series, cluster int) BarTransition {
	to := a.cur.BarRect(series, cluster)
	t := BarTransition{
		To:       to,
		ToRadius: a.cur.CornerRadiusFor(to.Height),
		Timing:   a.timing,
	}
	// A series the previous layout did not have grows from its baseline.
	if a.prev != nil && series < a.prev.GroupSize() {
		t.From = a.prev.BarRect(series, cluster)
		t.FromRadius = a.prev.CornerRadiusFor(t.From.Height)
		return t
	}
	t.From = Rect{X: to.X, Y: to.Y, Width: to.Width}
	return t
}

// Transitions covers every bar in the order Bars uses.
func (a *BarAnimator) Transitions() []BarTransition {
	out := make([]BarTransition, 0, a.cur.GroupSize()*a.cur.NumClusters())
	for s := 0; s < a.cur.GroupSize(); s++ {
		for c := 0; c < a.cur.NumClusters(); c++ {
			out = append(out, a.Transition(s, c))
		}
	}
	return out
}

type CircleAnimator struct {
	prev   *CircleGeometry
	cur    *CircleGeometry
	timing Timing
}

func NewCircleAnimator(prev, cur *CircleGeometry, timing Timing) *CircleAnimator {
	if !ContinuousCircle(prev, cur) {
		prev = nil
	}
	return &CircleAnimator{prev: prev, cur: cur, timing: timing}
}

func (a *CircleAnimator) Continuous() bool { return a.prev != nil }

func (a *CircleAnimator) Transition(i int) ArcTransition {
	to := a.cur.Arc(i)
	t := ArcTransition{To: to, Timing: a.timing}
	if a.prev != nil {
		t.From = a.prev.Arc(i)
		return t
	}
	t.From = to
	t.From.End = to.Start
	return t
}

func (a *CircleAnimator) Transitions() []ArcTransition {
	out := make([]ArcTransition, a.cur.NumArcs())
	for i := range out {
		out[i] = a.Transition(i)
	}
	return out
}
