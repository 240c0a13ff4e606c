package chart

import (
	"fmt"
	"math"
	"strings"
)

type Align int

const (
	AlignRight Align = iota
	AlignCenter
	AlignLeft
)

func ParseAlign(raw string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "right":
		return AlignRight, nil
	case "center", "centre":
		return AlignCenter, nil
	case "left":
		return AlignLeft, nil
	default:
		return AlignRight, fmt.Errorf("parse align %q: %w", raw, ErrInvalidStyle)
	}
}

const (
	DefaultRingWidth = 20
	DefaultMargin    = 15

	// StartAngle points straight up; slices sweep clockwise from it.
	StartAngle = math.Pi / 2
	fullTurn   = 2 * math.Pi
)

type CircleStyle struct {
	Size      Size
	RingWidth float64
	Margin    float64
	Align     Align
}

func DefaultCircleStyle(size Size) CircleStyle {
	return CircleStyle{
		Size:      size,
		RingWidth: DefaultRingWidth,
		Margin:    DefaultMargin,
	}
}

// Arc is a stroked ring segment. Angles are radians in the y-up frame;
// End is below Start because the sweep runs clockwise.
type Arc struct {
	Center Point
	Radius float64
	Width  float64
	Start  float64
	End    float64
}

// Sweep is the clockwise angle covered by the arc.
func (a Arc) Sweep() float64 { return a.Start - a.End }

func (a Arc) lerp(to Arc, t float64) Arc {
	return Arc{
		Center: a.Center.lerp(to.Center, t),
		Radius: lerp(a.Radius, to.Radius, t),
		Width:  lerp(a.Width, to.Width, t),
		Start:  lerp(a.Start, to.Start, t),
		End:    lerp(a.End, to.End, t),
	}
}

// Ring is the background track under the slices.
type Ring struct {
	Center Point
	Inner  float64
	Outer  float64
}

type CircleGeometry struct {
	data   *CircleDataset
	style  CircleStyle
	radius float64
	center Point
	arcs   []Arc
}

func NewCircleGeometry(data *CircleDataset, style CircleStyle) (*CircleGeometry, error) {
	if data == nil {
		return nil, fmt.Errorf("new circle geometry: %w", ErrEmptyDataset)
	}
	if style.Size.Width < 0 || style.Size.Height < 0 || style.RingWidth < 0 || style.Margin < 0 {
		return nil, fmt.Errorf("new circle geometry: %w", ErrInvalidStyle)
	}

	w, h := style.Size.Width, style.Size.Height
	radius := max(0, 0.5*min(w, h)-style.RingWidth-style.Margin)
	var cx float64
	switch style.Align {
	case AlignCenter:
		cx = w / 2
	case AlignLeft:
		cx = radius + style.RingWidth + style.Margin
	default:
		cx = w - radius - style.RingWidth - style.Margin
	}

	g := &CircleGeometry{
		data:   data,
		style:  style,
		radius: radius,
		center: Point{X: cx, Y: h / 2},
	}
	if data.Len() == 0 || data.Total() <= 0 {
		return g, nil
	}

	g.arcs = make([]Arc, data.Len())
	start := StartAngle
	for i := range g.arcs {
		end := start - fullTurn*data.Percentage(i)
		g.arcs[i] = Arc{
			Center: g.center,
			Radius: radius,
			Width:  style.RingWidth,
			Start:  start,
			End:    end,
		}
		start = end
	}
	return g, nil
}

func (g *CircleGeometry) Data() *CircleDataset { return g.data }
func (g *CircleGeometry) Style() CircleStyle   { return g.style }
func (g *CircleGeometry) Size() Size           { return g.style.Size }
func (g *CircleGeometry) Radius() float64      { return g.radius }
func (g *CircleGeometry) Center() Point        { return g.center }

// NumArcs is zero when there are no slices or nothing to share out.
func (g *CircleGeometry) NumArcs() int { return len(g.arcs) }

func (g *CircleGeometry) Arcs() []Arc {
	out := make([]Arc, len(g.arcs))
	copy(out, g.arcs)
	return out
}

func (g *CircleGeometry) Arc(i int) Arc {
	checkIndex("arc", i, len(g.arcs))
	return g.arcs[i]
}

func (g *CircleGeometry) Track() Ring {
	half := 0.5 * g.style.RingWidth
	return Ring{
		Center: g.center,
		Inner:  max(0, g.radius-half),
		Outer:  g.radius + half,
	}
}

// TrackArc is the track drawn as one full-turn stroke.
func (g *CircleGeometry) TrackArc() Arc {
	return Arc{
		Center: g.center,
		Radius: g.radius,
		Width:  g.style.RingWidth,
		Start:  StartAngle,
		End:    StartAngle - fullTurn,
	}
}
