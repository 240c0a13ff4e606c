// Package config loads the YAML settings file that styles charts and points
// at the ledger database.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lachiem1/budgetcharts/internal/chart"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Palette  []string      `yaml:"palette"`
	Currency string        `yaml:"currency"`
	Decimals *int          `yaml:"decimals"`
	Bar      BarConfig     `yaml:"bar"`
	Circle   CircleConfig  `yaml:"circle"`
	Animate  AnimateConfig `yaml:"animation"`
	Storage  StorageConfig `yaml:"storage"`
	Log      LogConfig     `yaml:"log"`
}

type BarConfig struct {
	Width        float64  `yaml:"width"`
	CornerRadius *float64 `yaml:"corner_radius"`
	Tics         int      `yaml:"tics"`
	Type         string   `yaml:"type"`
	ShowGrid     *bool    `yaml:"show_grid"`
	ShowTics     *bool    `yaml:"show_tics"`
}

type CircleConfig struct {
	RingWidth float64  `yaml:"ring_width"`
	Margin    *float64 `yaml:"margin"`
	Align     string   `yaml:"align"`
}

type AnimateConfig struct {
	DurationMS *int   `yaml:"duration_ms"`
	Easing     string `yaml:"easing"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
	Mode string `yaml:"mode"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Currency: "$",
		Log:      LogConfig{Level: "warn", Format: "console"},
	}
}

// Path is where the config file lives: BUDGETCHARTS_CONFIG, else
// <user config dir>/budgetcharts/config.yaml.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv("BUDGETCHARTS_CONFIG")); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "budgetcharts", "config.yaml"), nil
}

// Load reads the config file at Path. A missing file yields defaults.
// Environment overrides apply either way.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(path)
}

func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.applyEnv()
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses YAML over the defaults, applies environment overrides and
// validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Storage.Path = envOrDefault("BUDGETCHARTS_DB_PATH", c.Storage.Path)
	c.Storage.Mode = envOrDefault("BUDGETCHARTS_DB_MODE", c.Storage.Mode)
	c.Log.Level = envOrDefault("BUDGETCHARTS_LOG_LEVEL", c.Log.Level)
}

func (c Config) Validate() error {
	if _, err := c.ChartPalette(); err != nil {
		return fmt.Errorf("%w: palette: %v", ErrInvalidConfig, err)
	}
	if _, err := chart.ParseChartType(c.Bar.Type); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := chart.ParseAlign(c.Circle.Align); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := parseEasing(c.Animate.Easing); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch {
	case c.Bar.Width < 0, c.Bar.Tics < 0, c.Circle.RingWidth < 0:
		return fmt.Errorf("%w: sizes must not be negative", ErrInvalidConfig)
	case c.Bar.CornerRadius != nil && *c.Bar.CornerRadius < 0:
		return fmt.Errorf("%w: corner_radius must not be negative", ErrInvalidConfig)
	case c.Animate.DurationMS != nil && *c.Animate.DurationMS < 0:
		return fmt.Errorf("%w: duration_ms must not be negative", ErrInvalidConfig)
	case c.Decimals != nil && (*c.Decimals < 0 || *c.Decimals > 6):
		return fmt.Errorf("%w: decimals must be between 0 and 6", ErrInvalidConfig)
	}
	return nil
}

func (c Config) ChartPalette() (chart.Palette, error) {
	if len(c.Palette) == 0 {
		return chart.DefaultPalette(), nil
	}
	return chart.NewPalette(c.Palette...)
}

func (c Config) Formatter() chart.HumanFormatter {
	f := chart.HumanFormatter{Prefix: c.Currency, Decimals: 2}
	if c.Decimals != nil {
		f.Decimals = *c.Decimals
	}
	return f
}

func (c Config) Timing() chart.Timing {
	t := chart.DefaultTiming
	if c.Animate.DurationMS != nil {
		t.Duration = time.Duration(*c.Animate.DurationMS) * time.Millisecond
	}
	if e, err := parseEasing(c.Animate.Easing); err == nil && e != nil {
		t.Easing = e
	}
	return t
}

// BarStyle sizes a bar chart for a canvas. Unset fields keep the chart
// defaults.
func (c Config) BarStyle(size chart.Size) chart.BarStyle {
	s := chart.DefaultBarStyle(size)
	if c.Bar.Width > 0 {
		s.BarWidth = c.Bar.Width
	}
	if c.Bar.CornerRadius != nil {
		s.CornerRadius = *c.Bar.CornerRadius
	}
	if c.Bar.Tics > 0 {
		s.Tics = c.Bar.Tics
	}
	s.Type, _ = chart.ParseChartType(c.Bar.Type)
	return s
}

func (c Config) CircleStyle(size chart.Size) chart.CircleStyle {
	s := chart.DefaultCircleStyle(size)
	if c.Circle.RingWidth > 0 {
		s.RingWidth = c.Circle.RingWidth
	}
	if c.Circle.Margin != nil {
		s.Margin = *c.Circle.Margin
	}
	s.Align, _ = chart.ParseAlign(c.Circle.Align)
	return s
}

func (c Config) BarOptions() chart.BarOptions {
	o := chart.DefaultBarOptions()
	if p, err := c.ChartPalette(); err == nil {
		o.Palette = p
	}
	o.Timing = c.Timing()
	o.Formatter = c.Formatter()
	if c.Bar.ShowGrid != nil {
		o.ShowGrid = *c.Bar.ShowGrid
	}
	if c.Bar.ShowTics != nil {
		o.ShowTics = *c.Bar.ShowTics
	}
	return o
}

func (c Config) CircleOptions() chart.CircleOptions {
	o := chart.DefaultCircleOptions()
	if p, err := c.ChartPalette(); err == nil {
		o.Palette = p
	}
	o.Timing = c.Timing()
	o.Formatter = c.Formatter()
	return o
}

func parseEasing(raw string) (chart.Easing, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return nil, nil
	case "ease-in-out", "easeinout":
		return chart.EaseInOut, nil
	case "linear":
		return chart.Linear, nil
	default:
		return nil, fmt.Errorf("unknown easing %q", raw)
	}
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
