package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/budgetcharts/internal/chart"
	"github.com/lucasb-eyer/go-colorful"
)

// CellAspect is how many chart units tall one terminal cell is. Cells are
// one unit wide, so a layout built with Height = rows*CellAspect keeps
// circles round.
const CellAspect = 2

const (
	cellEmpty = iota
	cellGrid
	cellTrack
	cellAxis
	cellTic
	cellMark
	cellText
)

type TextOptions struct {
	Size chart.Size
	// Margins in cells around the plot area.
	Left, Right, Top, Bottom int
	Background               colorful.Color
}

type textCell struct {
	r     rune
	code  int
	color colorful.Color
}

type textGrid struct {
	cells  [][]textCell
	left   int
	top    int
	rows   int // plot rows
	height float64
}

func newTextGrid(opts TextOptions) *textGrid {
	plotCols := int(math.Ceil(opts.Size.Width))
	plotRows := int(math.Ceil(opts.Size.Height / CellAspect))
	cols := max(0, opts.Left+plotCols+opts.Right)
	rows := max(0, opts.Top+plotRows+opts.Bottom)
	g := &textGrid{
		cells:  make([][]textCell, rows),
		left:   opts.Left,
		top:    opts.Top,
		rows:   plotRows,
		height: opts.Size.Height,
	}
	for i := range g.cells {
		g.cells[i] = make([]textCell, cols)
		for j := range g.cells[i] {
			g.cells[i][j].r = ' '
		}
	}
	return g
}

func (g *textGrid) col(x float64) int { return g.left + int(math.Floor(x)) }
func (g *textGrid) row(y float64) int {
	return g.top + g.rows - 1 - int(math.Floor(y/CellAspect))
}

// cellOrigin is the chart-frame bottom left corner of a cell.
func (g *textGrid) cellOrigin(col, row int) (float64, float64) {
	return float64(col - g.left), float64(g.top+g.rows-1-row) * CellAspect
}

func (g *textGrid) set(col, row int, r rune, code int, c colorful.Color) {
	if row < 0 || row >= len(g.cells) || col < 0 || col >= len(g.cells[row]) {
		return
	}
	cell := &g.cells[row][col]
	if code < cell.code {
		return
	}
	if code == cellAxis && cell.code == cellAxis && crosses(cell.r, r) {
		r = '┼'
	}
	cell.r, cell.code, cell.color = r, code, c
}

func crosses(a, b rune) bool {
	return (a == '─' && b == '│') || (a == '│' && b == '─')
}

// Text rasterizes prims into styled terminal lines, evaluating every
// transition at linear progress p.
func Text(prims []chart.Primitive, opts TextOptions, p float64) []string {
	g := newTextGrid(opts)
	for _, prim := range prims {
		switch v := prim.(type) {
		case chart.Segment:
			g.segment(v, opts.Background)
		case chart.RoundedRect:
			g.rect(v, p)
		case chart.ArcStroke:
			g.arc(v, p)
		case chart.Label:
			g.label(v)
		}
	}
	return g.lines()
}

func (g *textGrid) segment(s chart.Segment, bg colorful.Color) {
	horizontal := math.Abs(s.To.X-s.From.X) >= math.Abs(s.To.Y-s.From.Y)
	r, code, c := '│', cellAxis, s.Stroke
	if horizontal {
		r = '─'
	}
	switch s.Role {
	case chart.RoleGrid:
		code = cellGrid
		c = s.Stroke.BlendLab(bg, 0.4).Clamped()
	case chart.RoleTic:
		code = cellTic
	}
	if s.Dashed {
		r = '╌'
		if !horizontal {
			r = '╎'
		}
	}

	if horizontal {
		lo, hi := math.Min(s.From.X, s.To.X), math.Max(s.From.X, s.To.X)
		first, last := int(math.Floor(lo)), max(int(math.Floor(lo)), int(math.Ceil(hi))-1)
		for x := first; x <= last; x++ {
			t := 0.0
			if hi > lo {
				t = (float64(x) + 0.5 - s.From.X) / (s.To.X - s.From.X)
			}
			y := s.From.Y + (s.To.Y-s.From.Y)*math.Max(0, math.Min(1, t))
			g.set(g.left+x, g.lineRow(y), r, code, c)
		}
		return
	}
	lo, hi := math.Min(s.From.Y, s.To.Y), math.Max(s.From.Y, s.To.Y)
	for row := g.lineRow(hi); row <= g.lineRow(lo); row++ {
		g.set(g.col(s.From.X), row, r, code, c)
	}
}

// lineRow places lines on the plot edges inside the plot instead of
// one row past it.
func (g *textGrid) lineRow(y float64) int {
	if y >= 0 && y <= g.height {
		return min(g.top+g.rows-1, max(g.top, g.row(y)))
	}
	return g.row(y)
}

func (g *textGrid) rect(rr chart.RoundedRect, p float64) {
	rect, _ := rr.Shape(p)
	if rect.Width <= 0 || rect.Height <= 0 {
		return
	}
	for row := range g.cells {
		for col := range g.cells[row] {
			x, y := g.cellOrigin(col, row)
			cx := x + 0.5
			if cx < rect.X || cx >= rect.MaxX() {
				continue
			}
			overlap := math.Min(rect.MaxY(), y+CellAspect) - math.Max(rect.Y, y)
			frac := overlap / CellAspect
			switch {
			case frac >= 0.75:
				g.set(col, row, '█', cellMark, rr.Fill)
			case frac >= 0.25 && rect.Y > y:
				g.set(col, row, '▀', cellMark, rr.Fill)
			case frac >= 0.25:
				g.set(col, row, '▄', cellMark, rr.Fill)
			}
		}
	}
}

func (g *textGrid) arc(as chart.ArcStroke, p float64) {
	a := as.Shape(p)
	sweep := a.Sweep()
	if sweep <= 0 || a.Radius <= 0 {
		return
	}
	r, code := '█', cellMark
	if as.Role == chart.RoleTrack {
		r, code = '░', cellTrack
	}
	half := math.Max(0.5, a.Width/2)
	for row := range g.cells {
		for col := range g.cells[row] {
			x, y := g.cellOrigin(col, row)
			dx, dy := x+0.5-a.Center.X, y+CellAspect/2-a.Center.Y
			if math.Abs(math.Hypot(dx, dy)-a.Radius) > half {
				continue
			}
			if sweep < 2*math.Pi && !withinSweep(math.Atan2(dy, dx), a.Start, sweep) {
				continue
			}
			g.set(col, row, r, code, as.Stroke)
		}
	}
}

// withinSweep reports whether angle lies on the clockwise path of length
// sweep starting at start.
func withinSweep(angle, start, sweep float64) bool {
	delta := math.Mod(start-angle, 2*math.Pi)
	if delta < 0 {
		delta += 2 * math.Pi
	}
	return delta < sweep
}

func (g *textGrid) label(l chart.Label) {
	text := []rune(l.Text)
	col, row := g.col(l.Pos.X), g.row(l.Pos.Y)
	if l.Role == chart.RoleYLabel {
		row = g.lineRow(l.Pos.Y)
	}
	switch l.Anchor {
	case chart.AnchorMiddle:
		col -= len(text) / 2
	case chart.AnchorEnd:
		col -= len(text) - 1
	}
	for i, r := range text {
		g.set(col+i, row, r, cellText, l.Color)
	}
}

func (g *textGrid) lines() []string {
	out := make([]string, len(g.cells))
	for i, row := range g.cells {
		var b strings.Builder
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && sameInk(row[j], row[start]) {
				continue
			}
			b.WriteString(renderRun(row[start:j]))
			start = j
		}
		out[i] = b.String()
	}
	return out
}

func sameInk(a, b textCell) bool {
	if a.code == cellEmpty || b.code == cellEmpty {
		return a.code == b.code
	}
	return a.color == b.color && (a.code == cellText) == (b.code == cellText)
}

func renderRun(cells []textCell) string {
	if len(cells) == 0 {
		return ""
	}
	runes := make([]rune, len(cells))
	for i, c := range cells {
		runes[i] = c.r
	}
	if cells[0].code == cellEmpty {
		return string(runes)
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(cells[0].color.Hex()))
	return style.Render(string(runes))
}
