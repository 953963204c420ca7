package renderer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
)

// Theme is one of the built-in color schemes
type Theme int

const (
	ThemeDefault Theme = iota
	ThemeLight
	ThemeHighContrast
)

// ThemeNames maps theme enum to display name
var ThemeNames = map[Theme]string{
	ThemeDefault:      "default",
	ThemeLight:        "light",
	ThemeHighContrast: "high-contrast",
}

func (t Theme) String() string {
	if s, ok := ThemeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("theme(%d)", int(t))
}

// ParseTheme looks a built-in theme up by name
func ParseTheme(name string) (Theme, bool) {
	for t, s := range ThemeNames {
		if strings.EqualFold(s, name) {
			return t, true
		}
	}
	return ThemeDefault, false
}

// ApplyTheme overwrites the colors of s with those of a built-in theme.
// Visibility toggles and alphas are left alone.
func (s *Settings) ApplyTheme(t Theme) {
	d := DefaultSettings()
	switch t {
	case ThemeLight:
		d.BackgroundColor = board.RGB(0.96, 0.96, 0.96)
		d.OutlineColor = board.RGB(0.2, 0.2, 0.2)
		d.PartOutlineColor = board.RGB(0.3, 0.3, 0.3)
		d.PartColor = board.RGB(0.1, 0.5, 0.1)
		d.PinColor = board.RGB(0.8, 0.4, 0)
		d.SameNetColor = board.RGB(0.9, 0.6, 0)
		d.NCColor = board.RGB(0, 0.45, 0.45)
		d.GroundColor = board.RGB(0.55, 0.55, 0.55)
		d.RatsnestColor = board.RGB(0, 0.5, 0.8)
		d.PartHighlightBorder = board.RGB(0.9, 0.5, 0)
		d.PartHighlightFill = board.RGB(0.9, 0.5, 0)
		d.PinTextColor = board.RGB(0.25, 0.25, 0.25)
		d.NetTextColor = board.RGB(0.25, 0.25, 0.25)
		d.DiodeTextColor = board.RGB(0, 0.4, 0.6)
		d.PartNameColor = board.RGB(0, 0, 0)
		d.PartNameBackground = board.RGB(1, 1, 1).WithAlpha(0.5)
	case ThemeHighContrast:
		d.PartColor = board.RGB(0, 1, 0)
		d.SameNetColor = board.RGB(1, 0, 1)
		d.NCColor = board.RGB(0, 1, 1)
		d.GroundColor = board.RGB(0.6, 0.6, 0.6)
		d.PartHighlightBorder = board.RGB(1, 0, 1)
		d.PartHighlightFill = board.RGB(1, 0, 1)
		d.PinTextColor = board.RGB(1, 1, 1)
		d.NetTextColor = board.RGB(1, 1, 1)
		d.PartNameBackground = board.RGB(0, 0, 0).WithAlpha(0.8)
	}
	s.copyColors(&d)
}

func (s *Settings) copyColors(d *Settings) {
	for _, key := range ColorKeys() {
		*s.color(key) = *d.color(key)
	}
}

// color returns the field a theme color key refers to
func (s *Settings) color(key string) *board.Color {
	switch key {
	case "background":
		return &s.BackgroundColor
	case "outline":
		return &s.OutlineColor
	case "part":
		return &s.PartColor
	case "part_outline":
		return &s.PartOutlineColor
	case "pin":
		return &s.PinColor
	case "same_net":
		return &s.SameNetColor
	case "nc":
		return &s.NCColor
	case "ground":
		return &s.GroundColor
	case "ratsnest":
		return &s.RatsnestColor
	case "highlight_border":
		return &s.PartHighlightBorder
	case "highlight_fill":
		return &s.PartHighlightFill
	case "pin_text":
		return &s.PinTextColor
	case "net_text":
		return &s.NetTextColor
	case "diode_text":
		return &s.DiodeTextColor
	case "part_name":
		return &s.PartNameColor
	case "part_name_bg":
		return &s.PartNameBackground
	}
	return nil
}

func (s *Settings) alpha(key string) *float32 {
	switch key {
	case "part":
		return &s.PartAlpha
	case "pin":
		return &s.PinAlpha
	case "outline":
		return &s.OutlineAlpha
	case "part_outline":
		return &s.PartOutlineAlpha
	}
	return nil
}

var colorKeys = []string{
	"background", "outline", "part", "part_outline", "pin", "same_net", "nc",
	"ground", "ratsnest", "highlight_border", "highlight_fill", "pin_text",
	"net_text", "diode_text", "part_name", "part_name_bg",
}

// ColorKeys lists the color names a ThemeSpec may set
func ColorKeys() []string {
	return append([]string(nil), colorKeys...)
}

// ThemeSpec is a user theme: a built-in base plus overrides
type ThemeSpec struct {
	Name              string
	Base              Theme
	Colors            map[string]board.Color
	Alphas            map[string]float32
	OverridePinColors *bool
}

// ApplyThemeSpec applies spec's base theme and then its overrides. Unknown
// keys are rejected before anything is changed.
func (s *Settings) ApplyThemeSpec(spec ThemeSpec) error {
	for _, key := range sortedKeys(spec.Colors) {
		if s.color(key) == nil {
			return fmt.Errorf("theme %q: unknown color %q", spec.Name, key)
		}
	}
	for _, key := range sortedKeys(spec.Alphas) {
		if s.alpha(key) == nil {
			return fmt.Errorf("theme %q: unknown alpha %q", spec.Name, key)
		}
		if a := spec.Alphas[key]; a < 0 || a > 1 {
			return fmt.Errorf("theme %q: alpha %q out of range: %v", spec.Name, key, a)
		}
	}

	s.ApplyTheme(spec.Base)
	for key, c := range spec.Colors {
		*s.color(key) = c
	}
	for key, a := range spec.Alphas {
		*s.alpha(key) = a
	}
	if spec.OverridePinColors != nil {
		s.OverridePinColors = *spec.OverridePinColors
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseColor reads "#rrggbb" or "#rrggbbaa"
func ParseColor(s string) (board.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return board.Color{}, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return board.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return board.Color{
		R: float32(v>>24&0xff) / 255,
		G: float32(v>>16&0xff) / 255,
		B: float32(v>>8&0xff) / 255,
		A: float32(v&0xff) / 255,
	}, nil
}
