package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lachiem1/budgetcharts/internal/chart"
	"github.com/lachiem1/budgetcharts/internal/config"
	"github.com/lachiem1/budgetcharts/internal/storage"
	"github.com/lachiem1/budgetcharts/internal/usage"
)

const (
	frameInterval = 16 * time.Millisecond
	loadTimeout   = 5 * time.Second
)

type chartKind int

const (
	chartTrend chartKind = iota
	chartOutlay
	chartIncome
	chartKindCount
)

func (k chartKind) String() string {
	switch k {
	case chartOutlay:
		return "Outlay by category"
	case chartIncome:
		return "Income by category"
	default:
		return "Income vs outlay"
	}
}

type loadedMsg struct {
	id         int
	period     usage.Period
	trend      *chart.BarDataset
	outlay     *chart.CircleDataset
	income     *chart.CircleDataset
	comparison usage.Comparison
	err        error
}

type frameMsg struct {
	id int
	at time.Time
}

type configMsg struct {
	cfg config.Config
	err error
}

// ConfigChanged wraps a reloaded config for delivery through Program.Send.
func ConfigChanged(cfg config.Config, err error) tea.Msg {
	return configMsg{cfg: cfg, err: err}
}

type Options struct {
	Ledger usage.Ledger
	Config config.Config
	Unit   usage.PeriodUnit
	Now    func() time.Time
}

type model struct {
	ledger usage.Ledger
	cfg    config.Config
	now    func() time.Time
	keys   keyMap
	help   help.Model

	width  int
	height int

	cursor     usage.Cursor
	kind       chartKind
	period     usage.Period
	trend      *chart.BarDataset
	outlay     *chart.CircleDataset
	income     *chart.CircleDataset
	comparison *usage.Comparison

	bars    chart.Stage[chart.BarGeometry]
	circles chart.Stage[chart.CircleGeometry]

	loadID    int
	loading   bool
	frameID   int
	animStart time.Time
	progress  float64

	err      string
	quitting bool
}

func New(opts Options) tea.Model {
	return newModel(opts)
}

func newModel(opts Options) model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	h := help.New()
	return model{
		ledger:   opts.Ledger,
		cfg:      opts.Config,
		now:      now,
		keys:     defaultKeyMap(),
		help:     h,
		cursor:   usage.Cursor{Unit: opts.Unit, Ref: now()},
		progress: 1,
	}
}

func (m model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		cmd := m.commit()
		return m, cmd

	case loadedMsg:
		if msg.id != m.loadID {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.period = msg.period
		m.trend = msg.trend
		m.outlay = msg.outlay
		m.income = msg.income
		m.comparison = &msg.comparison
		cmd := m.commit()
		return m, cmd

	case frameMsg:
		if msg.id != m.frameID {
			return m, nil
		}
		timing := m.timing()
		elapsed := msg.at.Sub(m.animStart)
		m.progress = timing.Progress(elapsed)
		if timing.Done(elapsed) {
			m.bars.Settle()
			m.circles.Settle()
			return m, nil
		}
		return m, frameCmd(m.frameID)

	case configMsg:
		if msg.err != nil {
			m.err = "config: " + msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.cfg = msg.cfg
		cmd := m.commit()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		return m.navigate(m.cursor.Shift(-1))
	case key.Matches(msg, m.keys.Next):
		return m.navigate(m.cursor.Shift(1))
	case key.Matches(msg, m.keys.Today):
		return m.navigate(usage.Cursor{Unit: m.cursor.Unit, Ref: m.now()})
	case key.Matches(msg, m.keys.Day):
		return m.navigate(m.cursor.WithUnit(usage.Day))
	case key.Matches(msg, m.keys.Week):
		return m.navigate(m.cursor.WithUnit(usage.Week))
	case key.Matches(msg, m.keys.Month):
		return m.navigate(m.cursor.WithUnit(usage.Month))
	case key.Matches(msg, m.keys.Year):
		return m.navigate(m.cursor.WithUnit(usage.Year))
	case key.Matches(msg, m.keys.Reload):
		return m.navigate(m.cursor)
	case key.Matches(msg, m.keys.Switch):
		m.kind = (m.kind + 1) % chartKindCount
		cmd := m.commit()
		return m, cmd
	case key.Matches(msg, m.keys.Layout):
		next := chart.Stacked
		if current, _ := chart.ParseChartType(m.cfg.Bar.Type); current == chart.Stacked {
			next = chart.Grouped
		}
		m.cfg.Bar.Type = next.String()
		cmd := m.commit()
		return m, cmd
	}
	return m, nil
}

func (m model) navigate(c usage.Cursor) (tea.Model, tea.Cmd) {
	m.cursor = c
	m.loadID++
	m.loading = true
	return m, m.loadCmd()
}

func (m model) loadCmd() tea.Cmd {
	ledger, cursor, id := m.ledger, m.cursor, m.loadID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return load(ctx, ledger, cursor, id)
	}
}

func load(ctx context.Context, ledger usage.Ledger, cursor usage.Cursor, id int) loadedMsg {
	msg := loadedMsg{id: id, period: cursor.Period()}
	if ledger == nil {
		msg.err = errNoLedger
		return msg
	}
	if msg.trend, msg.err = usage.Trend(ctx, ledger, msg.period, nil); msg.err != nil {
		return msg
	}
	if msg.outlay, msg.err = usage.Breakdown(ctx, ledger, msg.period, storage.KindOutlay); msg.err != nil {
		return msg
	}
	if msg.income, msg.err = usage.Breakdown(ctx, ledger, msg.period, storage.KindIncome); msg.err != nil {
		return msg
	}
	msg.comparison, msg.err = usage.Compare(ctx, ledger, msg.period)
	return msg
}

func frameCmd(id int) tea.Cmd {
	return tea.Tick(frameInterval, func(at time.Time) tea.Msg {
		return frameMsg{id: id, at: at}
	})
}

func (m model) timing() chart.Timing {
	return m.cfg.Timing()
}

// commit lays the visible chart out for the current window and starts a
// transition from whatever was on screen.
func (m *model) commit() tea.Cmd {
	if m.width <= 0 || m.height <= 0 {
		return nil
	}
	area := m.chartArea()
	switch m.kind {
	case chartTrend:
		if m.trend == nil || m.trend.Empty() {
			m.bars.Clear()
			return nil
		}
		g, err := chart.NewBarGeometry(m.trend.ThinLabels(area.plot.Width, 1), m.barStyle(area))
		if err != nil {
			m.err = err.Error()
			return nil
		}
		m.bars.Commit(g)
	default:
		ds := m.breakdown()
		if ds == nil {
			m.circles.Clear()
			return nil
		}
		g, err := chart.NewCircleGeometry(ds, m.circleStyle(area))
		if err != nil {
			m.err = err.Error()
			return nil
		}
		m.circles.Commit(g)
	}

	m.frameID++
	m.animStart = m.now()
	if m.timing().Duration <= 0 {
		m.progress = 1
		m.bars.Settle()
		m.circles.Settle()
		return nil
	}
	m.progress = 0
	return frameCmd(m.frameID)
}

func (m model) breakdown() *chart.CircleDataset {
	if m.kind == chartIncome {
		return m.income
	}
	return m.outlay
}
