package viewport

import (
	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/renderer"
)

const (
	tooltipOffset = 14.0
	overlayText   = 12.0
	panelMargin   = 16.0
)

// Overlay is the per-embedder immediate-mode UI state: the hover tooltip
// and the selected-pin panel. Each embedder owns exactly one, and it is
// only drawn while bound to the subsystem.
type Overlay struct {
	ID uuid.UUID

	tooltip    string
	tipX, tipY float64
	panel      string
	frames     int
}

func newOverlay(id uuid.UUID) *Overlay {
	return &Overlay{ID: id}
}

// SetTooltip shows text next to the cursor; "" hides it
func (o *Overlay) SetTooltip(text string, x, y float64) {
	o.tooltip, o.tipX, o.tipY = text, x, y
}

// SetPanel sets the info panel text; "" hides it
func (o *Overlay) SetPanel(text string) {
	o.panel = text
}

func (o *Overlay) Tooltip() string { return o.tooltip }
func (o *Overlay) Panel() string   { return o.panel }

// Frames counts the frames this overlay has drawn
func (o *Overlay) Frames() int { return o.frames }

// Draw appends the overlay to a frame
func (o *Overlay) Draw(dl *renderer.DrawList, s *renderer.Settings) {
	o.frames++
	if o.panel != "" {
		dl.Add(renderer.Command{
			Kind: renderer.KindText, Pass: renderer.PassTextOverlay, Color: s.PartNameColor,
			X0: float64(dl.Width) / 2, Y0: panelMargin,
			Text: o.panel, Size: overlayText, Background: s.PartNameBackground,
		})
	}
	if o.tooltip != "" {
		dl.Add(renderer.Command{
			Kind: renderer.KindText, Pass: renderer.PassTextOverlay, Color: s.PartNameColor,
			X0: o.tipX + tooltipOffset, Y0: o.tipY - tooltipOffset,
			Text: o.tooltip, Size: overlayText, Background: s.PartNameBackground,
		})
	}
}
