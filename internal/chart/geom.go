package chart

// Coordinates are in the chart's local frame: origin at the axis origin,
// x to the right, y up. Renderers flip y for their own target.

type Size struct {
	Width  float64
	Height float64
}

type Point struct {
	X float64
	Y float64
}

type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) MaxX() float64 { return r.X + r.Width }
func (r Rect) MaxY() float64 { return r.Y + r.Height }

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func (r Rect) lerp(to Rect, t float64) Rect {
	return Rect{
		X:      lerp(r.X, to.X, t),
		Y:      lerp(r.Y, to.Y, t),
		Width:  lerp(r.Width, to.Width, t),
		Height: lerp(r.Height, to.Height, t),
	}
}

func (p Point) lerp(to Point, t float64) Point {
	return Point{X: lerp(p.X, to.X, t), Y: lerp(p.Y, to.Y, t)}
}
