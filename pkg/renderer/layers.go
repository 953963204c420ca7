package renderer

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/board"

const (
	LayerTop     = "Top Layer"
	LayerBottom  = "Bottom Layer"
	LayerOutline = "Outline"
)

var layerNames = []string{LayerTop, LayerBottom, LayerOutline}

// LayerNames returns the names accepted by SetLayerVisible
func LayerNames() []string {
	return append([]string(nil), layerNames...)
}

// LayerConfig controls which layers are visible during rendering
type LayerConfig struct {
	hidden map[string]bool
}

// NewLayerConfig creates a configuration with all layers visible
func NewLayerConfig() *LayerConfig {
	return &LayerConfig{hidden: make(map[string]bool)}
}

// SetVisible sets the visibility of a layer. It reports false for names
// that are not layers.
func (lc *LayerConfig) SetVisible(layer string, visible bool) bool {
	for _, name := range layerNames {
		if name == layer {
			lc.hidden[layer] = !visible
			return true
		}
	}
	return false
}

// IsVisible returns whether a layer is visible
func (lc *LayerConfig) IsVisible(layer string) bool {
	return !lc.hidden[layer]
}

func (lc *LayerConfig) ShowAll() {
	lc.hidden = make(map[string]bool)
}

func (lc *LayerConfig) HideAll() {
	for _, name := range layerNames {
		lc.hidden[name] = true
	}
}

// SideVisible reports whether elements on a side are drawn. Elements on
// both sides stay visible while either copper layer is shown.
func (lc *LayerConfig) SideVisible(side board.Side) bool {
	switch side {
	case board.SideTop:
		return lc.IsVisible(LayerTop)
	case board.SideBottom:
		return lc.IsVisible(LayerBottom)
	default:
		return lc.IsVisible(LayerTop) || lc.IsVisible(LayerBottom)
	}
}
