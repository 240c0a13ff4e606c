package chart

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Ink holds the non-series colors of a chart.
type Ink struct {
	Axis  colorful.Color
	Grid  colorful.Color
	Text  colorful.Color
	Track colorful.Color
}

func DefaultInk() Ink {
	return Ink{
		Axis:  MustHex("#9CA3AF"),
		Grid:  MustHex("#4B5563"),
		Text:  MustHex("#9CA3AF"),
		Track: MustHex("#374151"),
	}
}

type BarOptions struct {
	Palette   Palette
	Ink       Ink
	Timing    Timing
	Formatter Formatter
	ShowTics  bool
	ShowGrid  bool
	TicLength float64
	// LabelGap is the distance between the axes and their labels.
	LabelGap float64
	// CharWidth is the advance of one legend character.
	CharWidth float64
}

func DefaultBarOptions() BarOptions {
	return BarOptions{
		Palette:   DefaultPalette(),
		Ink:       DefaultInk(),
		Timing:    DefaultTiming,
		Formatter: defaultFormatter,
		ShowTics:  true,
		ShowGrid:  true,
		TicLength: 5,
		LabelGap:  8,
		CharWidth: 7,
	}
}

// ComposeBar emits cur as primitives back to front: grid, axes, tics, bars
// (each carrying its transition out of prev), then labels.
func ComposeBar(prev, cur *BarGeometry, opts BarOptions) ([]Primitive, error) {
	if cur == nil {
		return nil, fmt.Errorf("compose bar chart: %w", ErrEmptyDataset)
	}
	if len(opts.Palette) == 0 {
		return nil, fmt.Errorf("compose bar chart: %w", ErrEmptyPalette)
	}
	f := opts.Formatter
	if f == nil {
		f = defaultFormatter
	}
	w, h := cur.Size().Width, cur.Size().Height
	out := make([]Primitive, 0, 2+3*cur.TicCount()+cur.GroupSize()*cur.NumClusters()+cur.NumClusters())

	if opts.ShowGrid {
		for k := 1; k < cur.TicCount(); k++ {
			y := cur.YCenter(k)
			out = append(out, Segment{
				Role: RoleGrid, From: Point{0, y}, To: Point{w, y},
				Stroke: opts.Ink.Grid, Width: 1, Dashed: true,
			})
		}
	}
	out = append(out,
		Segment{Role: RoleAxis, From: Point{0, 0}, To: Point{w, 0}, Stroke: opts.Ink.Axis, Width: 1},
		Segment{Role: RoleAxis, From: Point{0, 0}, To: Point{0, h}, Stroke: opts.Ink.Axis, Width: 1},
	)
	if opts.ShowTics {
		for k := 0; k < cur.TicCount(); k++ {
			y := cur.YCenter(k)
			out = append(out, Segment{
				Role: RoleTic, From: Point{-opts.TicLength, y}, To: Point{0, y},
				Stroke: opts.Ink.Axis, Width: 1,
			})
		}
	}

	anim := NewBarAnimator(prev, cur, opts.Timing)
	for _, b := range cur.Bars() {
		t := anim.Transition(b.Series, b.Cluster)
		out = append(out, RoundedRect{
			Role:       RoleBar,
			Rect:       b.Rect,
			Radius:     b.Radius,
			Fill:       opts.Palette.At(b.Series),
			Transition: &t,
		})
	}

	data := cur.Data()
	for c := 0; c < cur.NumClusters(); c++ {
		out = append(out, Label{
			Role: RoleXLabel, Pos: Point{cur.ClusterCenter(c), -opts.LabelGap - opts.TicLength},
			Text: data.ClusterLabel(c), Anchor: AnchorMiddle, Color: opts.Ink.Text,
		})
	}
	for k := 0; k < cur.TicCount(); k++ {
		out = append(out, Label{
			Role: RoleYLabel, Pos: Point{-opts.TicLength - opts.LabelGap, cur.YCenter(k)},
			Text: f.Value(cur.TicValue(k)), Anchor: AnchorEnd, Color: opts.Ink.Text,
		})
	}
	if cur.GroupSize() > 1 {
		out = append(out, seriesLegend(cur, opts)...)
	}
	return out, nil
}

// seriesLegend lays series names out right to left above the plot.
func seriesLegend(g *BarGeometry, opts BarOptions) []Primitive {
	spacing := opts.CharWidth
	if spacing <= 0 {
		spacing = 7
	}
	labels := g.Data().SeriesLabels()
	out := make([]Primitive, 0, len(labels))
	x := g.Size().Width
	y := g.Size().Height + opts.LabelGap
	for s := len(labels) - 1; s >= 0; s-- {
		out = append(out, Label{
			Role: RoleLegend, Pos: Point{x, y}, Text: "■ " + labels[s],
			Anchor: AnchorEnd, Color: opts.Palette.At(s),
		})
		x -= float64(len([]rune(labels[s]))+2) * spacing
	}
	return out
}

type CircleOptions struct {
	Palette   Palette
	Ink       Ink
	Timing    Timing
	Formatter Formatter
	Title     string
	// LegendLine is the vertical distance between legend rows.
	LegendLine float64
}

func DefaultCircleOptions() CircleOptions {
	return CircleOptions{
		Palette:    DefaultPalette(),
		Ink:        DefaultInk(),
		Timing:     DefaultTiming,
		Formatter:  defaultFormatter,
		LegendLine: 18,
	}
}

// LegendEntry describes one slice next to the ring.
type LegendEntry struct {
	Title  string
	Color  colorful.Color
	Detail string
}

// Legend returns one entry per slice: its title, its color and
// "<percent> | <value>".
func Legend(g *CircleGeometry, palette Palette, f Formatter) ([]LegendEntry, error) {
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}
	if f == nil {
		f = defaultFormatter
	}
	data := g.Data()
	out := make([]LegendEntry, data.Len())
	for i := range out {
		s := data.Slice(i)
		out[i] = LegendEntry{
			Title:  s.Title,
			Color:  palette.At(i),
			Detail: f.Percent(data.Percentage(i)) + " | " + f.Value(s.Value),
		}
	}
	return out, nil
}

// ComposeCircle emits the track, the slice arcs with transitions out of
// prev, then the title and legend.
func ComposeCircle(prev, cur *CircleGeometry, opts CircleOptions) ([]Primitive, error) {
	if cur == nil {
		return nil, fmt.Errorf("compose circle chart: %w", ErrEmptyDataset)
	}
	legend, err := Legend(cur, opts.Palette, opts.Formatter)
	if err != nil {
		return nil, fmt.Errorf("compose circle chart: %w", err)
	}
	out := make([]Primitive, 0, 2+cur.NumArcs()+len(legend))
	out = append(out, ArcStroke{Role: RoleTrack, Arc: cur.TrackArc(), Stroke: opts.Ink.Track})

	anim := NewCircleAnimator(prev, cur, opts.Timing)
	for i, a := range cur.Arcs() {
		t := anim.Transition(i)
		out = append(out, ArcStroke{
			Role:       RoleArc,
			Arc:        a,
			Stroke:     opts.Palette.At(i),
			Transition: &t,
		})
	}

	line := opts.LegendLine
	if line <= 0 {
		line = 18
	}
	x := cur.Style().Margin
	if cur.Style().Align == AlignLeft {
		x = cur.Center().X + cur.Radius() + cur.Style().RingWidth + cur.Style().Margin
	}
	y := cur.Size().Height - cur.Style().Margin
	if opts.Title != "" {
		out = append(out, Label{Role: RoleTitle, Pos: Point{x, y}, Text: opts.Title, Anchor: AnchorStart, Color: opts.Ink.Text})
		y -= line * 1.5
	}
	for _, e := range legend {
		out = append(out, Label{
			Role: RoleLegend, Pos: Point{x, y},
			Text: "● " + e.Title + "  " + e.Detail, Anchor: AnchorStart, Color: e.Color,
		})
		y -= line
	}
	return out, nil
}
