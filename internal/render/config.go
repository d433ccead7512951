// Package render turns reports into pages, charts and CSV downloads.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Default presentation values applied when fields are absent from the file.
const (
	DefaultTitle    = "Shoreline Change Analysis"
	DefaultCaption  = "Tide-normalized shoreline position, linear trend and early warning per beach."
	DefaultDecimals = 3
	DefaultWidthCM  = 16.0
	DefaultHeightCM = 8.0
)

// Config controls how reports look. It never changes the numbers.
type Config struct {
	Title   string `yaml:"title"`
	Caption string `yaml:"caption"`

	// Decimals is the number of decimal places shown for metrics.
	Decimals int `yaml:"decimals"`

	// ShowReference toggles the classification reference table.
	ShowReference bool `yaml:"show_reference"`

	Theme Theme       `yaml:"theme"`
	Chart ChartConfig `yaml:"chart"`
}

// Theme holds hex colours (#rrggbb) for the chart series and page accents.
type Theme struct {
	Observed string `yaml:"observed"`
	Fitted   string `yaml:"fitted"`
	Band     string `yaml:"band"`
	Seasonal string `yaml:"seasonal"`
	Warning  string `yaml:"warning"`
}

// ChartConfig sizes the SVG charts.
type ChartConfig struct {
	WidthCM  float64 `yaml:"width_cm"`
	HeightCM float64 `yaml:"height_cm"`
}

// Default returns the built-in presentation config.
func Default() *Config {
	return &Config{
		Title:         DefaultTitle,
		Caption:       DefaultCaption,
		Decimals:      DefaultDecimals,
		ShowReference: true,
		Theme: Theme{
			Observed: "#1f77b4",
			Fitted:   "#d62728",
			Band:     "#ff9896",
			Seasonal: "#2ca02c",
			Warning:  "#b91c1c",
		},
		Chart: ChartConfig{
			WidthCM:  DefaultWidthCM,
			HeightCM: DefaultHeightCM,
		},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("render config: read file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("render config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("render config: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	var errs []error
	if cfg.Decimals < 0 || cfg.Decimals > 6 {
		errs = append(errs, fmt.Errorf("decimals must be between 0 and 6, got %d", cfg.Decimals))
	}
	if cfg.Chart.WidthCM <= 0 || cfg.Chart.HeightCM <= 0 {
		errs = append(errs, errors.New("chart width_cm and height_cm must be positive"))
	}
	for name, hex := range map[string]string{
		"observed": cfg.Theme.Observed,
		"fitted":   cfg.Theme.Fitted,
		"band":     cfg.Theme.Band,
		"seasonal": cfg.Theme.Seasonal,
		"warning":  cfg.Theme.Warning,
	} {
		if _, err := parseHex(hex); err != nil {
			errs = append(errs, fmt.Errorf("theme.%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// parseHex parses #rrggbb.
func parseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Holder shares the active Config between the watcher and request handlers.
type Holder struct {
	cfg atomic.Pointer[Config]
}

// NewHolder returns a Holder seeded with cfg, or the defaults when cfg is nil.
func NewHolder(cfg *Config) *Holder {
	if cfg == nil {
		cfg = Default()
	}
	h := &Holder{}
	h.cfg.Store(cfg)
	return h
}

func (h *Holder) Get() *Config { return h.cfg.Load() }

func (h *Holder) Set(cfg *Config) { h.cfg.Store(cfg) }
