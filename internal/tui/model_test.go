package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lachiem1/budgetcharts/internal/chart"
	"github.com/lachiem1/budgetcharts/internal/config"
	"github.com/lachiem1/budgetcharts/internal/storage"
	"github.com/lachiem1/budgetcharts/internal/usage"
)

var testNow = time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

type stubLedger struct {
	err error
}

func (s stubLedger) BucketTotals(_ context.Context, kind storage.Kind, start, _ time.Time, bucket storage.Bucket) ([]storage.BucketTotal, error) {
	if s.err != nil {
		return nil, s.err
	}
	layout := "2006-01-02"
	if bucket == storage.BucketMonth {
		layout = "2006-01"
	}
	cents := int64(10000)
	if kind == storage.KindIncome {
		cents = 50000
	}
	return []storage.BucketTotal{{Key: start.Format(layout), Cents: cents}}, nil
}

func (s stubLedger) CategoryTotals(_ context.Context, kind storage.Kind, _, _ time.Time) ([]storage.CategoryTotal, error) {
	if s.err != nil {
		return nil, s.err
	}
	if kind == storage.KindIncome {
		return []storage.CategoryTotal{{Category: "Pay", Cents: 50000}}, nil
	}
	return []storage.CategoryTotal{{Category: "Rent", Cents: 7500}, {Category: "Food", Cents: 2500}}, nil
}

func loadedModel(t *testing.T, ledger usage.Ledger) model {
	t.Helper()
	m := newModel(Options{Ledger: ledger, Config: config.Default(), Unit: usage.Month, Now: func() time.Time { return testNow }})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(t, m, runCmd(t, m.Init()))
	return m
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(model)
	if !ok {
		t.Fatalf("Update() returned %T, want model", next)
	}
	return got
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("command = nil, want non-nil")
	}
	return cmd()
}

func TestLoadCommitsTrendAndAnimates(t *testing.T) {
	t.Parallel()

	m := loadedModel(t, stubLedger{})
	if m.err != "" {
		t.Fatalf("err = %q, want none", m.err)
	}
	g := m.bars.Current()
	if g == nil {
		t.Fatal("bars.Current() = nil after load")
	}
	if g.NumClusters() != 31 || g.GroupSize() != 2 {
		t.Fatalf("trend shape = %dx%d, want 31x2", g.NumClusters(), g.GroupSize())
	}
	if m.progress != 0 {
		t.Fatalf("progress = %v, want 0 at transition start", m.progress)
	}

	mid := update(t, m, frameMsg{id: m.frameID, at: testNow.Add(125 * time.Millisecond)})
	if mid.progress <= 0 || mid.progress >= 1 {
		t.Fatalf("mid-transition progress = %v", mid.progress)
	}

	done := update(t, m, frameMsg{id: m.frameID, at: testNow.Add(time.Second)})
	if done.progress != 1 || done.bars.Previous() != nil {
		t.Fatalf("after transition progress = %v previous = %v, want settled", done.progress, done.bars.Previous())
	}

	stale := update(t, m, frameMsg{id: m.frameID - 1, at: testNow.Add(time.Second)})
	if stale.progress != m.progress {
		t.Fatal("stale frame changed progress")
	}
}

func TestResizeCommitsNewSnapshot(t *testing.T) {
	t.Parallel()

	m := loadedModel(t, stubLedger{})
	first := m.bars.Current()
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.bars.Previous() != first {
		t.Fatal("resize did not keep the prior layout as the transition source")
	}
	if got := m.bars.Current().Size().Width; got != float64(120-yLabelCols-2) {
		t.Fatalf("plot width = %v, want %d", got, 120-yLabelCols-2)
	}
}

func TestNavigationReloadsPeriod(t *testing.T) {
	t.Parallel()

	m := loadedModel(t, stubLedger{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = next.(model)
	if m.cursor.Unit != usage.Year || !m.loading {
		t.Fatalf("after y: unit = %s loading = %v", m.cursor.Unit, m.loading)
	}
	m = update(t, m, runCmd(t, cmd))
	if got := m.bars.Current().NumClusters(); got != 12 {
		t.Fatalf("year trend clusters = %d, want 12", got)
	}

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(model)
	m = update(t, m, runCmd(t, cmd))
	if got := m.period.Label(); got != "2023" {
		t.Fatalf("period after left = %q, want 2023", got)
	}
}

func TestMonthNavigationFromMonthEnd(t *testing.T) {
	t.Parallel()

	monthEnd := time.Date(2025, time.January, 31, 9, 0, 0, 0, time.UTC)
	m := newModel(Options{Ledger: stubLedger{}, Config: config.Default(), Unit: usage.Month, Now: func() time.Time { return monthEnd }})
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	for _, step := range []struct {
		key  tea.KeyType
		want string
	}{
		{key: tea.KeyRight, want: "February 2025"},
		{key: tea.KeyRight, want: "March 2025"},
		{key: tea.KeyLeft, want: "February 2025"},
	} {
		next, cmd := m.Update(tea.KeyMsg{Type: step.key})
		m = update(t, next.(model), runCmd(t, cmd))
		if got := m.period.Label(); got != step.want {
			t.Fatalf("period = %q, want %q", got, step.want)
		}
	}
}

func TestStaleLoadIgnored(t *testing.T) {
	t.Parallel()

	m := loadedModel(t, stubLedger{})
	before := m.bars.Current()
	m = update(t, m, loadedMsg{id: m.loadID - 1, err: errors.New("late")})
	if m.err != "" || m.bars.Current() != before {
		t.Fatal("stale load changed the model")
	}
}

func TestLoadErrorShown(t *testing.T) {
	t.Parallel()

	m := loadedModel(t, stubLedger{err: errors.New("database is locked")})
	if !strings.Contains(m.err, "database is locked") {
		t.Fatalf("err = %q, want ledger error", m.err)
	}
	if !strings.Contains(m.View(), "database is locked") {
		t.Fatal("View() does not show the load error")
	}
}

func TestSwitchToBreakdown(t *testing.T) {
	t.Parallel()

	m := loadedModel(t, stubLedger{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.kind != chartOutlay {
		t.Fatalf("kind = %v, want outlay", m.kind)
	}
	g := m.circles.Current()
	if g == nil || g.NumArcs() != 2 {
		t.Fatalf("circle geometry = %v, want 2 arcs", g)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.kind != chartIncome || m.circles.Previous() != g {
		t.Fatal("income chart did not transition from the outlay layout")
	}
	m = update(t, m, frameMsg{id: m.frameID, at: testNow.Add(time.Second)})
	view := m.View()
	if !strings.Contains(view, "Pay") || !strings.Contains(view, "Income by category") {
		t.Fatalf("View() missing income legend:\n%s", view)
	}
}

func TestLayoutToggleAndConfigReload(t *testing.T) {
	t.Parallel()

	m := loadedModel(t, stubLedger{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if m.bars.Current().Style().Type != chart.Stacked {
		t.Fatalf("layout = %s, want stacked", m.bars.Current().Style().Type)
	}

	cfg := config.Default()
	zero := 0
	cfg.Animate.DurationMS = &zero
	m = update(t, m, ConfigChanged(cfg, nil))
	if m.progress != 1 || m.bars.Previous() != nil {
		t.Fatal("instant timing did not settle immediately")
	}
	if m.bars.Current().Style().Type != chart.Standard {
		t.Fatal("reloaded config did not replace the layout")
	}

	m = update(t, m, ConfigChanged(config.Config{}, errors.New("bad yaml")))
	if !strings.Contains(m.err, "bad yaml") {
		t.Fatalf("err = %q, want config error", m.err)
	}
}

func TestViewShowsSummary(t *testing.T) {
	t.Parallel()

	m := loadedModel(t, stubLedger{})
	m = update(t, m, frameMsg{id: m.frameID, at: testNow.Add(time.Second)})
	view := m.View()
	for _, want := range []string{"May 2024", "Income $500", "Outlay $100", "Net $400", "Income", "Outlay"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestQuit(t *testing.T) {
	t.Parallel()

	m := loadedModel(t, stubLedger{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil || !next.(model).quitting {
		t.Fatal("q did not quit")
	}
	if got := next.View(); got != "" {
		t.Fatalf("View() after quit = %q, want empty", got)
	}
}
