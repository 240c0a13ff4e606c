package tui

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lachiem1/budgetcharts/internal/chart"
	"github.com/lachiem1/budgetcharts/internal/render"
	"github.com/lachiem1/budgetcharts/internal/usage"
)

var errNoLedger = errors.New("no ledger configured")

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	periodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	upStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5CCB76"))
	downStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F47A60")).Bold(true)

	background = colorful.Color{}
)

const (
	// rows used above and below the chart: banner, header, summary, help,
	// status.
	chromeRows       = 6
	bannerRows       = 3
	bannerMinHeight  = 28
	yLabelCols       = 10
	minTermRingWidth = 2
)

type chartArea struct {
	text render.TextOptions
	plot chart.Size
}

func (m model) showBanner() bool { return m.height >= bannerMinHeight }

// chartArea splits the window into margins and a plot measured in chart
// units: one unit per column, render.CellAspect units per row.
func (m model) chartArea() chartArea {
	rows := m.height - chromeRows
	if m.showBanner() {
		rows -= bannerRows
	}
	rows = max(rows, 4)
	cols := max(m.width, 10)

	var opts render.TextOptions
	if m.kind == chartTrend {
		opts = render.TextOptions{Left: yLabelCols, Right: 2, Top: 1, Bottom: 1}
	} else {
		opts = render.TextOptions{Left: 1, Right: 1}
	}
	plotCols := max(1, cols-opts.Left-opts.Right)
	plotRows := max(1, rows-opts.Top-opts.Bottom)
	opts.Size = chart.Size{Width: float64(plotCols), Height: float64(plotRows * render.CellAspect)}
	opts.Background = background
	return chartArea{text: opts, plot: opts.Size}
}

// barStyle shrinks bars to whole cells so every cluster fits the terminal.
func (m model) barStyle(area chartArea) chart.BarStyle {
	s := m.cfg.BarStyle(area.plot).FitWidth(m.trend, 0.8)
	s.BarWidth = math.Max(1, math.Floor(s.BarWidth))
	s.CornerRadius = 0
	return s
}

func (m model) circleStyle(area chartArea) chart.CircleStyle {
	s := m.cfg.CircleStyle(area.plot)
	s.Margin = 1
	s.RingWidth = math.Max(minTermRingWidth, math.Round(s.RingWidth/4))
	return s
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.width <= 0 || m.height <= 0 {
		return "loading..."
	}

	var lines []string
	if m.showBanner() {
		lines = append(lines, renderBanner("BUDGET CHARTS"))
	}
	lines = append(lines, m.header(), m.summary(), m.renderChart(), m.help.View(m.keys), m.status())
	return strings.Join(lines, "\n")
}

func (m model) header() string {
	period := m.cursor.Period()
	return titleStyle.Render(m.kind.String()) +
		mutedStyle.Render("  ·  ") +
		periodStyle.Render(period.Label()) +
		mutedStyle.Render(" ("+period.Unit.String()+")")
}

func (m model) summary() string {
	if m.comparison == nil {
		return mutedStyle.Render("no totals yet")
	}
	f := m.cfg.Formatter()
	c := m.comparison
	return strings.Join([]string{
		"Income " + f.Value(usage.Dollars(c.Income.Current)) + " " + change(c.Income, true),
		"Outlay " + f.Value(usage.Dollars(c.Outlay.Current)) + " " + change(c.Outlay, false),
		"Net " + f.Value(usage.Dollars(c.Net())),
	}, mutedStyle.Render("   "))
}

// change renders the move against the previous period. A rise is good news
// for income and bad news for outlay.
func change(d usage.Delta, riseIsGood bool) string {
	ratio := d.Ratio()
	if math.IsNaN(ratio) {
		return mutedStyle.Render("(new)")
	}
	pct := (ratio - 1) * 100
	arrow, good := "▲", riseIsGood
	if pct < 0 {
		arrow, good = "▼", !riseIsGood
	}
	if pct == 0 {
		return mutedStyle.Render("(=)")
	}
	style := downStyle
	if good {
		style = upStyle
	}
	return style.Render(fmt.Sprintf("%s%.1f%%", arrow, math.Abs(pct)))
}

func (m model) renderChart() string {
	area := m.chartArea()
	prims, err := m.primitives()
	if err != nil {
		return errStyle.Render(err.Error())
	}
	if prims == nil {
		msg := "no transactions in this period"
		if m.loading {
			msg = "loading..."
		}
		pad := max(0, area.text.Top+int(area.plot.Height)/render.CellAspect/2)
		return strings.Repeat("\n", pad) + mutedStyle.Render(msg)
	}
	return strings.Join(render.Text(prims, area.text, m.progress), "\n")
}

func (m model) primitives() ([]chart.Primitive, error) {
	switch m.kind {
	case chartTrend:
		cur := m.bars.Current()
		if cur == nil {
			return nil, nil
		}
		opts := m.cfg.BarOptions()
		opts.TicLength = 1
		opts.LabelGap = 1
		opts.CharWidth = 1
		return chart.ComposeBar(m.bars.Previous(), cur, opts)
	default:
		cur := m.circles.Current()
		if cur == nil || cur.NumArcs() == 0 {
			return nil, nil
		}
		opts := m.cfg.CircleOptions()
		opts.LegendLine = render.CellAspect
		return chart.ComposeCircle(m.circles.Previous(), cur, opts)
	}
}

func (m model) status() string {
	if m.err != "" {
		return errStyle.Render(m.err)
	}
	if m.loading {
		return mutedStyle.Render("loading...")
	}
	return ""
}
