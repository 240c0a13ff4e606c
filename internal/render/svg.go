// Package render paints chart primitives onto concrete targets. It never
// lays anything out: positions come from internal/chart.
package render

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/lachiem1/budgetcharts/internal/chart"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	svgFontStyle = "font-family:Helvetica,Arial,sans-serif;font-size:%dpx"
	fullSweepEps = 1e-6
)

// Insets reserve room around the plot for axis labels.
type Insets struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// BarInsets leaves room for y labels on the left and x labels below.
func BarInsets() Insets {
	return Insets{Left: 60, Right: 20, Top: 20, Bottom: 50}
}

type SVGOptions struct {
	Size       chart.Size
	Insets     Insets
	Background colorful.Color
	FontSize   int
	Title      string
}

// svgFrame maps the y-up chart frame onto SVG's y-down page.
type svgFrame struct {
	insets Insets
	height float64
}

func (f svgFrame) x(x float64) int { return iround(f.insets.Left + x) }
func (f svgFrame) y(y float64) int { return iround(f.insets.Top + f.height - y) }

func iround(v float64) int { return int(math.Round(v)) }

// SVG writes prims as a standalone SVG document, with every transition
// evaluated at linear progress p.
func SVG(w io.Writer, prims []chart.Primitive, opts SVGOptions, p float64) error {
	if opts.FontSize <= 0 {
		opts.FontSize = 12
	}
	width := iround(opts.Size.Width + opts.Insets.Left + opts.Insets.Right)
	height := iround(opts.Size.Height + opts.Insets.Top + opts.Insets.Bottom)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("render svg: canvas %dx%d: %w", width, height, chart.ErrInvalidStyle)
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(width, height)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}
	canvas.Rect(0, 0, width, height, "fill:"+opts.Background.Hex())
	canvas.Gstyle(fmt.Sprintf(svgFontStyle, opts.FontSize))

	f := svgFrame{insets: opts.Insets, height: opts.Size.Height}
	for _, prim := range prims {
		switch v := prim.(type) {
		case chart.Segment:
			drawSVGSegment(canvas, f, v)
		case chart.RoundedRect:
			drawSVGRect(canvas, f, v, p)
		case chart.ArcStroke:
			drawSVGArc(canvas, f, v, p)
		case chart.Label:
			drawSVGLabel(canvas, f, v, opts.FontSize)
		}
	}

	canvas.Gend()
	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("render svg: %w", ew.err)
	}
	return nil
}

func drawSVGSegment(canvas *svg.SVG, f svgFrame, s chart.Segment) {
	style := fmt.Sprintf("stroke:%s;stroke-width:%g", s.Stroke.Hex(), max(1, s.Width))
	if s.Dashed {
		style += ";stroke-dasharray:4,4"
	}
	canvas.Line(f.x(s.From.X), f.y(s.From.Y), f.x(s.To.X), f.y(s.To.Y), style)
}

func drawSVGRect(canvas *svg.SVG, f svgFrame, r chart.RoundedRect, p float64) {
	rect, radius := r.Shape(p)
	if rect.Height <= 0 || rect.Width <= 0 {
		return
	}
	rad := iround(radius)
	canvas.Roundrect(
		f.x(rect.X), f.y(rect.MaxY()),
		iround(rect.Width), iround(rect.Height),
		rad, rad,
		"fill:"+r.Fill.Hex(),
	)
}

func drawSVGArc(canvas *svg.SVG, f svgFrame, a chart.ArcStroke, p float64) {
	arc := a.Shape(p)
	sweep := arc.Sweep()
	if sweep <= 0 || arc.Radius <= 0 {
		return
	}
	style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g", a.Stroke.Hex(), arc.Width)
	r := iround(arc.Radius)
	if sweep >= 2*math.Pi-fullSweepEps {
		canvas.Circle(f.x(arc.Center.X), f.y(arc.Center.Y), r, style)
		return
	}
	sx, sy := polar(arc.Center, arc.Radius, arc.Start)
	ex, ey := polar(arc.Center, arc.Radius, arc.End)
	// Clockwise on screen is SVG's positive sweep direction.
	canvas.Arc(f.x(sx), f.y(sy), r, r, 0, sweep > math.Pi, true, f.x(ex), f.y(ey), style)
}

func polar(c chart.Point, r, angle float64) (float64, float64) {
	return c.X + r*math.Cos(angle), c.Y + r*math.Sin(angle)
}

func drawSVGLabel(canvas *svg.SVG, f svgFrame, l chart.Label, fontSize int) {
	anchor := "middle"
	switch l.Anchor {
	case chart.AnchorStart:
		anchor = "start"
	case chart.AnchorEnd:
		anchor = "end"
	}
	style := fmt.Sprintf("fill:%s;text-anchor:%s", l.Color.Hex(), anchor)
	y := f.y(l.Pos.Y)
	switch l.Role {
	case chart.RoleXLabel:
		y += fontSize / 2
	case chart.RoleYLabel:
		y += fontSize / 3
	case chart.RoleTitle:
		style += ";font-weight:bold"
	}
	canvas.Text(f.x(l.Pos.X), y, l.Text, style)
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return len(b), nil
	}
	n, err := e.w.Write(b)
	if err != nil {
		e.err = err
	}
	return n, err
}
