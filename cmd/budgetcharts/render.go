package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/lachiem1/budgetcharts/internal/chart"
	"github.com/lachiem1/budgetcharts/internal/config"
	"github.com/lachiem1/budgetcharts/internal/logging"
	"github.com/lachiem1/budgetcharts/internal/render"
	"github.com/lachiem1/budgetcharts/internal/storage"
	"github.com/lachiem1/budgetcharts/internal/usage"
)

var svgBackground = chart.MustHex("#111827")

const (
	defaultSVGWidth  = 640
	defaultSVGHeight = 360
	textYLabelCols   = 10
)

type renderFlags struct {
	period string
	date   string
	format string
	kind   string
	output string
	width  int
	height int
}

type renderRequest struct {
	chart  string
	period usage.Period
	kind   storage.Kind
	format string
	width  int
	height int
}

func (a *app) renderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart as SVG or terminal text",
	}
	cmd.PersistentFlags().StringVarP(&f.period, "period", "p", "month", "day, week, month or year")
	cmd.PersistentFlags().StringVar(&f.date, "date", "", "any date inside the period, YYYY-MM-DD (default: today)")
	cmd.PersistentFlags().StringVarP(&f.format, "format", "f", "text", "svg or text")
	cmd.PersistentFlags().StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	cmd.PersistentFlags().IntVar(&f.width, "width", 0, "canvas width in pixels (svg) or columns (text)")
	cmd.PersistentFlags().IntVar(&f.height, "height", 0, "canvas height in pixels (svg) or rows (text)")

	trend := &cobra.Command{
		Use:   "trend",
		Short: "Income against outlay across the period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRender(cmd, "trend", f)
		},
	}
	breakdown := &cobra.Command{
		Use:   "breakdown",
		Short: "Share of each category in the period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRender(cmd, "breakdown", f)
		},
	}
	breakdown.Flags().StringVarP(&f.kind, "kind", "k", "outlay", "income or outlay")

	cmd.AddCommand(trend, breakdown)
	return cmd
}

func (a *app) runRender(cmd *cobra.Command, name string, f renderFlags) (err error) {
	req, err := parseRenderRequest(name, f, time.Now())
	if err != nil {
		return err
	}

	db, err := a.openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	var w io.Writer = cmd.OutOrStdout()
	if f.output != "" {
		file, err := os.Create(f.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
		w = file
	}

	start := time.Now()
	if err := renderChart(cmd.Context(), storage.NewTransactionsRepo(db), a.cfg, req, w); err != nil {
		return err
	}
	logging.With(a.log.Info(),
		logging.Chart(name),
		logging.Period(req.period.Unit.String(), req.period.Start),
		logging.Duration(time.Since(start)),
	).Msg("chart rendered")
	return nil
}

func parseRenderRequest(name string, f renderFlags, now time.Time) (renderRequest, error) {
	unit, err := usage.ParsePeriodUnit(f.period)
	if err != nil {
		return renderRequest{}, err
	}
	ref := now
	if strings.TrimSpace(f.date) != "" {
		ref, err = time.ParseInLocation("2006-01-02", strings.TrimSpace(f.date), time.Local)
		if err != nil {
			return renderRequest{}, fmt.Errorf("parse --date: %w", err)
		}
	}
	format := strings.ToLower(strings.TrimSpace(f.format))
	if format != "svg" && format != "text" {
		return renderRequest{}, fmt.Errorf("unknown format %q: want svg or text", f.format)
	}
	req := renderRequest{
		chart:  name,
		period: usage.TargetPeriod(unit, ref),
		format: format,
		width:  f.width,
		height: f.height,
	}
	if name == "breakdown" {
		if req.kind, err = storage.ParseKind(f.kind); err != nil {
			return renderRequest{}, err
		}
	}
	return req, nil
}

// renderChart draws the settled end state of one chart.
func renderChart(ctx context.Context, ledger usage.Ledger, cfg config.Config, req renderRequest, w io.Writer) error {
	svgOpts, textOpts := req.canvas()
	size := svgOpts.Size
	if req.format == "text" {
		size = textOpts.Size
	}

	var prims []chart.Primitive
	switch req.chart {
	case "trend":
		ds, err := usage.Trend(ctx, ledger, req.period, nil)
		if err != nil {
			return err
		}
		style := cfg.BarStyle(size).FitWidth(ds, 0.8)
		opts := cfg.BarOptions()
		charWidth := 7.0
		if req.format == "text" {
			style.BarWidth = max(1, float64(int(style.BarWidth)))
			opts.TicLength, opts.LabelGap, opts.CharWidth = 1, 1, 1
			charWidth = 1
		}
		g, err := chart.NewBarGeometry(ds.ThinLabels(size.Width, charWidth), style)
		if err != nil {
			return fmt.Errorf("lay out trend: %w", err)
		}
		if prims, err = chart.ComposeBar(nil, g, opts); err != nil {
			return err
		}
	case "breakdown":
		ds, err := usage.Breakdown(ctx, ledger, req.period, req.kind)
		if err != nil {
			return err
		}
		style := cfg.CircleStyle(size)
		opts := cfg.CircleOptions()
		opts.Title = usage.ComponentLabel(req.kind) + " · " + req.period.Label()
		if req.format == "text" {
			style.Margin = 1
			style.RingWidth = max(2, float64(int(style.RingWidth/4)))
			opts.LegendLine = render.CellAspect
		}
		g, err := chart.NewCircleGeometry(ds, style)
		if err != nil {
			return fmt.Errorf("lay out breakdown: %w", err)
		}
		if prims, err = chart.ComposeCircle(nil, g, opts); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown chart %q", req.chart)
	}

	if req.format == "svg" {
		svgOpts.Title = req.chart + " " + req.period.Label()
		return render.SVG(w, prims, svgOpts, 1)
	}
	_, err := fmt.Fprintln(w, strings.Join(render.Text(prims, textOpts, 1), "\n"))
	return err
}

// canvas sizes both targets; only the one matching req.format is used.
func (r renderRequest) canvas() (render.SVGOptions, render.TextOptions) {
	svgOpts := render.SVGOptions{Background: svgBackground}
	if r.chart == "trend" {
		svgOpts.Insets = render.BarInsets()
	}
	w, h := r.width, r.height
	if w <= 0 {
		w = defaultSVGWidth
	}
	if h <= 0 {
		h = defaultSVGHeight
	}
	svgOpts.Size = chart.Size{
		Width:  max(1, float64(w)-svgOpts.Insets.Left-svgOpts.Insets.Right),
		Height: max(1, float64(h)-svgOpts.Insets.Top-svgOpts.Insets.Bottom),
	}

	cols, rows := r.width, r.height
	if cols <= 0 || rows <= 0 {
		tc, tr := terminalSize(80, 24)
		if cols <= 0 {
			cols = tc
		}
		if rows <= 0 {
			rows = min(tr, 24)
		}
	}
	textOpts := render.TextOptions{Left: 1, Right: 1}
	if r.chart == "trend" {
		textOpts = render.TextOptions{Left: textYLabelCols, Right: 2, Top: 1, Bottom: 1}
	}
	textOpts.Size = chart.Size{
		Width:  float64(max(1, cols-textOpts.Left-textOpts.Right)),
		Height: float64(max(1, rows-textOpts.Top-textOpts.Bottom) * render.CellAspect),
	}
	return svgOpts, textOpts
}
