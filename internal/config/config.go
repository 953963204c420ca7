// Package config loads and saves the viewer configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/renderer"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/viewport"
)

// FileName is the config file name inside the config directory
const FileName = "config.toml"

// Config is the whole configuration file
type Config struct {
	Viewer Viewer        `toml:"viewer"`
	Render Render        `toml:"render"`
	Themes []ThemeConfig `toml:"themes,omitempty"`
}

// Viewer tunes interaction and the initial window
type Viewer struct {
	Width        int        `toml:"width"`
	Height       int        `toml:"height"`
	ZoomStep     float64    `toml:"zoom_step"`
	ZoomOutStep  float64    `toml:"zoom_out_step"`
	ScrollFactor float64    `toml:"scroll_factor"`
	FitMargin    float64    `toml:"fit_margin"`
	SideOffset   [2]float64 `toml:"side_offset"`
	PanButton    int        `toml:"pan_button"`
	SampleBoard  bool       `toml:"sample_board"`
}

// Render holds the initial render settings
type Render struct {
	Theme            string   `toml:"theme"`
	ShowParts        bool     `toml:"show_parts"`
	ShowPins         bool     `toml:"show_pins"`
	ShowOutline      bool     `toml:"show_outline"`
	ShowPartOutlines bool     `toml:"show_part_outlines"`
	ShowPartNames    bool     `toml:"show_part_names"`
	ShowPinLabels    bool     `toml:"show_pin_labels"`
	ShowNets         bool     `toml:"show_nets"`
	DiodeReadings    bool     `toml:"diode_readings"`
	Ratsnest         bool     `toml:"ratsnest"`
	HiddenLayers     []string `toml:"hidden_layers,omitempty"`
}

// ThemeConfig is a user theme: a built-in base plus overrides
type ThemeConfig struct {
	Name              string             `toml:"name"`
	Base              string             `toml:"base"`
	Colors            map[string]string  `toml:"colors,omitempty"`
	Alphas            map[string]float32 `toml:"alphas,omitempty"`
	OverridePinColors *bool              `toml:"override_pin_colors,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	s := renderer.DefaultSettings()
	return &Config{
		Viewer: Viewer{
			Width:        1280,
			Height:       800,
			ZoomStep:     viewport.DefaultZoomStep,
			ZoomOutStep:  viewport.DefaultZoomOutStep,
			ScrollFactor: viewport.DefaultScrollFactor,
			FitMargin:    renderer.DefaultFitMargin,
			PanButton:    viewport.ButtonPan,
			SampleBoard:  true,
		},
		Render: Render{
			Theme:            renderer.ThemeDefault.String(),
			ShowParts:        s.ShowParts,
			ShowPins:         s.ShowPins,
			ShowOutline:      s.ShowOutline,
			ShowPartOutlines: s.ShowPartOutlines,
			ShowPartNames:    s.ShowPartNames,
			ShowPinLabels:    s.ShowPinLabels,
			ShowNets:         s.ShowNets,
			DiodeReadings:    s.ShowDiodeReadings,
			Ratsnest:         s.ShowRatsnest,
		},
	}
}

// DefaultPath returns %APPDATA%\OpenTraceBoard\config.toml on Windows and
// ~/.config/opentraceboard/config.toml elsewhere.
func DefaultPath() (string, error) {
	if dir := os.Getenv("APPDATA"); dir != "" {
		return filepath.Join(dir, "OpenTraceBoard", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".config", "opentraceboard", FileName), nil
}

// Load reads path over the defaults. A missing file yields the defaults.
// Unknown keys are an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to path, creating the directory if needed
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks ranges and theme references
func (c *Config) Validate() error {
	v := &c.Viewer
	switch {
	case v.ZoomStep <= 1:
		return fmt.Errorf("viewer.zoom_step must be greater than 1, got %v", v.ZoomStep)
	case v.ZoomOutStep <= 0 || v.ZoomOutStep >= 1:
		return fmt.Errorf("viewer.zoom_out_step must be between 0 and 1, got %v", v.ZoomOutStep)
	case v.ScrollFactor <= 0 || v.ScrollFactor >= 1:
		return fmt.Errorf("viewer.scroll_factor must be between 0 and 1, got %v", v.ScrollFactor)
	case v.FitMargin <= 0 || v.FitMargin > 1:
		return fmt.Errorf("viewer.fit_margin must be in (0, 1], got %v", v.FitMargin)
	case v.PanButton != viewport.ButtonSecondary && v.PanButton != viewport.ButtonMiddle:
		return fmt.Errorf("viewer.pan_button must be 1 (right) or 2 (middle), got %d", v.PanButton)
	case v.Width <= 0 || v.Height <= 0:
		return fmt.Errorf("viewer size must be positive, got %dx%d", v.Width, v.Height)
	}

	for _, name := range c.Render.HiddenLayers {
		if !validLayer(name) {
			return fmt.Errorf("render.hidden_layers: unknown layer %q", name)
		}
	}

	seen := make(map[string]bool)
	for _, t := range c.Themes {
		if t.Name == "" {
			return errors.New("themes: theme without a name")
		}
		if _, ok := renderer.ParseTheme(t.Name); ok || seen[strings.ToLower(t.Name)] {
			return fmt.Errorf("themes: duplicate theme name %q", t.Name)
		}
		seen[strings.ToLower(t.Name)] = true
		if _, err := t.Spec(); err != nil {
			return err
		}
	}
	if _, err := c.ThemeSpec(c.Render.Theme); err != nil {
		return fmt.Errorf("render.theme: %w", err)
	}
	return nil
}

func validLayer(name string) bool {
	for _, l := range renderer.LayerNames() {
		if l == name {
			return true
		}
	}
	return false
}

// Spec converts a user theme to a renderer theme spec
func (t ThemeConfig) Spec() (renderer.ThemeSpec, error) {
	spec := renderer.ThemeSpec{Name: t.Name, Alphas: t.Alphas, OverridePinColors: t.OverridePinColors}
	if t.Base != "" {
		base, ok := renderer.ParseTheme(t.Base)
		if !ok {
			return spec, fmt.Errorf("theme %q: unknown base theme %q", t.Name, t.Base)
		}
		spec.Base = base
	}
	if len(t.Colors) > 0 {
		spec.Colors = make(map[string]board.Color, len(t.Colors))
		for key, v := range t.Colors {
			c, err := renderer.ParseColor(v)
			if err != nil {
				return spec, fmt.Errorf("theme %q: color %q: %w", t.Name, key, err)
			}
			spec.Colors[key] = c
		}
	}
	// unknown keys are caught without touching real settings
	scratch := renderer.DefaultSettings()
	if err := scratch.ApplyThemeSpec(spec); err != nil {
		return spec, err
	}
	return spec, nil
}

// ThemeSpec resolves a theme name against the built-in themes and the
// user themes.
func (c *Config) ThemeSpec(name string) (renderer.ThemeSpec, error) {
	if name == "" {
		return renderer.ThemeSpec{Name: renderer.ThemeDefault.String()}, nil
	}
	if t, ok := renderer.ParseTheme(name); ok {
		return renderer.ThemeSpec{Name: t.String(), Base: t}, nil
	}
	for _, t := range c.Themes {
		if strings.EqualFold(t.Name, name) {
			return t.Spec()
		}
	}
	return renderer.ThemeSpec{}, fmt.Errorf("unknown theme %q", name)
}

// ThemeNames lists the built-in themes followed by the user themes
func (c *Config) ThemeNames() []string {
	names := []string{
		renderer.ThemeDefault.String(), renderer.ThemeLight.String(), renderer.ThemeHighContrast.String(),
	}
	for _, t := range c.Themes {
		names = append(names, t.Name)
	}
	return names
}

// ViewportOptions returns embedder options for the [viewer] section
func (c *Config) ViewportOptions(logger *log.Logger) viewport.Options {
	v := &c.Viewer
	return viewport.Options{
		Logger:       logger,
		ZoomStep:     v.ZoomStep,
		ZoomOutStep:  v.ZoomOutStep,
		ScrollFactor: v.ScrollFactor,
		PanButton:    v.PanButton,
		FitMargin:    v.FitMargin,
		SideOffset:   board.FPoint{X: v.SideOffset[0], Y: v.SideOffset[1]},
		SampleBoard:  v.SampleBoard,
	}
}

// Apply sets the [render] section on an embedder
func (c *Config) Apply(e *viewport.Embedder) error {
	r := &c.Render
	spec, err := c.ThemeSpec(r.Theme)
	if err != nil {
		return err
	}
	if err := e.ApplyThemeSpec(spec); err != nil {
		return err
	}
	s := e.Settings()
	s.ShowParts = r.ShowParts
	s.ShowPins = r.ShowPins
	s.ShowOutline = r.ShowOutline
	s.ShowPartOutlines = r.ShowPartOutlines
	s.ShowPartNames = r.ShowPartNames
	s.ShowPinLabels = r.ShowPinLabels
	s.ShowNets = r.ShowNets
	e.SetDiodeReadings(r.DiodeReadings)
	e.SetRatsnest(r.Ratsnest)
	e.ShowAllLayers()
	for _, name := range r.HiddenLayers {
		e.HideLayer(name)
	}
	return nil
}
