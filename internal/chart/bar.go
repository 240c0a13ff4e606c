package chart

import (
	"fmt"
	"strings"
)

type ChartType int

const (
	// Standard and Grouped both place a cluster's series side by side.
	Standard ChartType = iota
	Grouped
	// Stacked piles a cluster's series on top of each other in one slot.
	Stacked
)

func (t ChartType) String() string {
	switch t {
	case Grouped:
		return "grouped"
	case Stacked:
		return "stacked"
	default:
		return "standard"
	}
}

func ParseChartType(raw string) (ChartType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "standard":
		return Standard, nil
	case "grouped":
		return Grouped, nil
	case "stacked":
		return Stacked, nil
	default:
		return Standard, fmt.Errorf("parse chart type %q: %w", raw, ErrInvalidStyle)
	}
}

const (
	DefaultBarWidth     = 20
	DefaultCornerRadius = 3
	DefaultTics         = 4
)

type BarStyle struct {
	Size         Size
	BarWidth     float64
	CornerRadius float64
	Tics         int
	Type         ChartType
	// Range fixes the axis instead of deriving it from the data.
	Range *AxisRange
	// TicInterval overrides Range.Span()/Tics when positive.
	TicInterval float64
}

func DefaultBarStyle(size Size) BarStyle {
	return BarStyle{
		Size:         size,
		BarWidth:     DefaultBarWidth,
		CornerRadius: DefaultCornerRadius,
		Tics:         DefaultTics,
	}
}

func (s BarStyle) validate() error {
	switch {
	case s.Size.Width < 0 || s.Size.Height < 0:
		return fmt.Errorf("canvas %gx%g: %w", s.Size.Width, s.Size.Height, ErrInvalidStyle)
	case s.BarWidth < 0:
		return fmt.Errorf("bar width %g: %w", s.BarWidth, ErrInvalidStyle)
	case s.CornerRadius < 0:
		return fmt.Errorf("corner radius %g: %w", s.CornerRadius, ErrInvalidStyle)
	case s.Tics <= 0:
		return fmt.Errorf("tic count %d: %w", s.Tics, ErrInvalidStyle)
	case s.Range != nil && s.Range.Upper <= s.Range.Lower:
		return fmt.Errorf("fixed range [%g,%g]: %w", s.Range.Lower, s.Range.Upper, ErrInvalidStyle)
	}
	return nil
}

// FitWidth narrows BarWidth so a cluster's bars use at most fill of the
// cluster interval. It never widens bars.
func (s BarStyle) FitWidth(data *BarDataset, fill float64) BarStyle {
	if data == nil || data.Empty() {
		return s
	}
	perCluster := 1
	if s.Type != Stacked {
		perCluster = data.GroupSize()
	}
	fit := s.Size.Width / float64(data.NumClusters()) * fill / float64(perCluster)
	s.BarWidth = max(0, min(s.BarWidth, fit))
	return s
}

// Bar is one laid out bar.
type Bar struct {
	Series  int
	Cluster int
	Value   float64
	Rect    Rect
	Radius  float64
}

// BarGeometry is an immutable bar chart layout. The dataset, its axis range
// and the pixel layout are always computed together.
type BarGeometry struct {
	data        *BarDataset
	style       BarStyle
	axis        AxisRange
	ticInterval float64
	ticCount    int
}

func NewBarGeometry(data *BarDataset, style BarStyle) (*BarGeometry, error) {
	if data == nil || data.Empty() {
		return nil, fmt.Errorf("new bar geometry: %w", ErrEmptyDataset)
	}
	if err := style.validate(); err != nil {
		return nil, fmt.Errorf("new bar geometry: %w", err)
	}

	var axis AxisRange
	if style.Range != nil {
		axis = *style.Range
	} else {
		maxFn := data.Max
		if style.Type == Stacked {
			maxFn = data.MaxClusterSum
		}
		m, err := maxFn()
		if err != nil {
			return nil, fmt.Errorf("new bar geometry: %w", err)
		}
		axis = ComputeRange(m)
	}

	interval := style.TicInterval
	if interval <= 0 {
		interval = axis.Interval(style.Tics)
	}
	return &BarGeometry{
		data:        data,
		style:       style,
		axis:        axis,
		ticInterval: interval,
		ticCount:    axis.TicCount(interval),
	}, nil
}

func (g *BarGeometry) Data() *BarDataset { return g.data }
func (g *BarGeometry) Style() BarStyle   { return g.style }
func (g *BarGeometry) Range() AxisRange  { return g.axis }
func (g *BarGeometry) Size() Size        { return g.style.Size }
func (g *BarGeometry) NumClusters() int  { return g.data.NumClusters() }
func (g *BarGeometry) GroupSize() int    { return g.data.GroupSize() }

// ClusterInterval is the horizontal space given to each cluster.
func (g *BarGeometry) ClusterInterval() float64 {
	return g.style.Size.Width / float64(g.NumClusters())
}

func (g *BarGeometry) ClusterCenter(cluster int) float64 {
	checkIndex("cluster", cluster, g.NumClusters())
	return g.ClusterInterval() * (float64(cluster) + 0.5)
}

// ClusterWidth is the width taken by one cluster's bars.
func (g *BarGeometry) ClusterWidth() float64 {
	if g.style.Type == Stacked {
		return g.style.BarWidth
	}
	return g.style.BarWidth * float64(g.GroupSize())
}

// BarLeading is the left edge of a bar.
func (g *BarGeometry) BarLeading(series, cluster int) float64 {
	checkIndex("series", series, g.GroupSize())
	left := g.ClusterCenter(cluster) - 0.5*g.ClusterWidth()
	if g.style.Type == Stacked {
		return left
	}
	return left + g.style.BarWidth*float64(series)
}

// Scale maps a value to a vertical pixel extent.
func (g *BarGeometry) Scale(v float64) float64 {
	span := g.axis.Span()
	if g.axis.Upper == 0 || span == 0 {
		return 0
	}
	return g.style.Size.Height / span * v
}

// BarBase is the bottom edge of a bar: zero unless stacked.
func (g *BarGeometry) BarBase(series, cluster int) float64 {
	checkIndex("series", series, g.GroupSize())
	checkIndex("cluster", cluster, g.NumClusters())
	if g.style.Type != Stacked {
		return 0
	}
	var below float64
	for s := 0; s < series; s++ {
		below += g.data.table[s][cluster]
	}
	return g.Scale(below)
}

func (g *BarGeometry) BarRect(series, cluster int) Rect {
	return Rect{
		X:      g.BarLeading(series, cluster),
		Y:      g.BarBase(series, cluster),
		Width:  g.style.BarWidth,
		Height: g.Scale(g.data.Value(series, cluster)),
	}
}

// CornerRadiusFor shrinks the configured radius on bars too short to hold
// two full corners.
func (g *BarGeometry) CornerRadiusFor(height float64) float64 {
	r := g.style.CornerRadius
	switch {
	case height >= 2*r:
		return r
	case height <= 0:
		return 0
	default:
		return 0.5 * height
	}
}

func (g *BarGeometry) Bar(series, cluster int) Bar {
	rect := g.BarRect(series, cluster)
	return Bar{
		Series:  series,
		Cluster: cluster,
		Value:   g.data.Value(series, cluster),
		Rect:    rect,
		Radius:  g.CornerRadiusFor(rect.Height),
	}
}

// Bars lays out every bar, series by series.
func (g *BarGeometry) Bars() []Bar {
	out := make([]Bar, 0, g.GroupSize()*g.NumClusters())
	for s := 0; s < g.GroupSize(); s++ {
		for c := 0; c < g.NumClusters(); c++ {
			out = append(out, g.Bar(s, c))
		}
	}
	return out
}

func (g *BarGeometry) TicInterval() float64 { return g.ticInterval }

// TicCount is the number of tic lines, including the one at the origin.
func (g *BarGeometry) TicCount() int { return g.ticCount }

func (g *BarGeometry) TicValue(k int) float64 {
	checkIndex("tic", k, g.ticCount)
	return g.axis.TicValue(k, g.ticInterval)
}

// YCenter is the height of tic line k above the axis origin.
func (g *BarGeometry) YCenter(k int) float64 {
	checkIndex("tic", k, g.ticCount)
	if g.style.TicInterval > 0 {
		return g.Scale(g.TicValue(k) - g.axis.Lower)
	}
	return g.style.Size.Height / float64(g.style.Tics) * float64(k)
}
