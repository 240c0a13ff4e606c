package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lachiem1/budgetcharts/internal/chart"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	t.Setenv("BUDGETCHARTS_DB_PATH", "")
	t.Setenv("BUDGETCHARTS_DB_MODE", "")
	t.Setenv("BUDGETCHARTS_LOG_LEVEL", "")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile() unexpected error: %v", err)
	}
	if cfg.Currency != "$" || cfg.Log.Level != "warn" {
		t.Fatalf("LoadFile() = %+v, want defaults", cfg)
	}
	style := cfg.BarStyle(chart.Size{Width: 100, Height: 50})
	if style.BarWidth != chart.DefaultBarWidth || style.Tics != chart.DefaultTics || style.Type != chart.Standard {
		t.Fatalf("BarStyle() = %+v, want chart defaults", style)
	}
	if got := cfg.Timing(); got.Duration != chart.DefaultTiming.Duration {
		t.Fatalf("Timing().Duration = %v, want %v", got.Duration, chart.DefaultTiming.Duration)
	}
}

func TestDecodeAppliesFileAndEnv(t *testing.T) {
	t.Setenv("BUDGETCHARTS_DB_PATH", "/tmp/override.db")
	t.Setenv("BUDGETCHARTS_DB_MODE", "")
	t.Setenv("BUDGETCHARTS_LOG_LEVEL", "debug")

	cfg, err := Decode(strings.NewReader(`
palette: ["#112233", "#445566"]
currency: "€"
decimals: 0
bar:
  width: 12
  corner_radius: 0
  tics: 5
  type: stacked
  show_grid: false
circle:
  ring_width: 8
  align: left
animation:
  duration_ms: 0
  easing: linear
storage:
  path: /data/ledger.db
  mode: secure
`))
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if cfg.Storage.Path != "/tmp/override.db" || cfg.Storage.Mode != "secure" {
		t.Fatalf("Storage = %+v, want env path and file mode", cfg.Storage)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q, want debug", cfg.Log.Level)
	}

	bar := cfg.BarStyle(chart.Size{Width: 200, Height: 100})
	if bar.BarWidth != 12 || bar.CornerRadius != 0 || bar.Tics != 5 || bar.Type != chart.Stacked {
		t.Fatalf("BarStyle() = %+v", bar)
	}
	opts := cfg.BarOptions()
	if opts.ShowGrid || !opts.ShowTics || len(opts.Palette) != 2 {
		t.Fatalf("BarOptions() grid=%v tics=%v palette=%d", opts.ShowGrid, opts.ShowTics, len(opts.Palette))
	}
	if opts.Timing.Duration != 0 || opts.Timing.Easing(0.25) != 0.25 {
		t.Fatalf("Timing = %+v, want instant linear", opts.Timing)
	}
	if got := opts.Formatter.Value(1234.5); got != "€1,235" && got != "€1,234" {
		t.Fatalf("Formatter.Value() = %q", got)
	}

	circle := cfg.CircleStyle(chart.Size{Width: 200, Height: 100})
	if circle.RingWidth != 8 || circle.Align != chart.AlignLeft || circle.Margin != chart.DefaultMargin {
		t.Fatalf("CircleStyle() = %+v", circle)
	}
}

func TestDecodeRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"bad palette":  `palette: ["nope"]`,
		"bad type":     "bar:\n  type: pie",
		"bad align":    "circle:\n  align: up",
		"bad easing":   "animation:\n  easing: bounce",
		"negative":     "bar:\n  width: -1",
		"unknown key":  "colour: red",
		"bad decimals": "decimals: 9",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := Decode(strings.NewReader(raw)); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Decode(%q) error = %v, want ErrInvalidConfig", raw, err)
			}
		})
	}
}

func TestPathPrefersEnv(t *testing.T) {
	t.Setenv("BUDGETCHARTS_CONFIG", "/etc/budgetcharts.yaml")

	got, err := Path()
	if err != nil {
		t.Fatalf("Path() unexpected error: %v", err)
	}
	if got != "/etc/budgetcharts.yaml" {
		t.Fatalf("Path() = %q, want env value", got)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	t.Setenv("BUDGETCHARTS_DB_PATH", "")
	t.Setenv("BUDGETCHARTS_DB_MODE", "")
	t.Setenv("BUDGETCHARTS_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got := make(chan Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg Config, err error) {
			if err == nil {
				got <- cfg
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("bar:\n  tics: 7\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	select {
	case cfg := <-got:
		if cfg.Bar.Tics != 7 {
			t.Fatalf("reloaded Bar.Tics = %d, want 7", cfg.Bar.Tics)
		}
	case <-ctx.Done():
		t.Fatal("Watch() never reported the change")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch() returned %v", err)
	}
}
