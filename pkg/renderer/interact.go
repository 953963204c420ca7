package renderer

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
)

// minFocusSize pads the box fitted by ZoomToNet and ZoomToPart, in board
// units, so a single pin does not fill the screen.
const minFocusSize = 200.0

// HitTestPin returns the pin under screen position (sx, sy), or -1. Pins
// on hidden layers are ignored. Rect and oval pads are hit inside their
// box. When pins overlap the closest centre wins,
// and on an exact tie the lower index.
func (r *Renderer) HitTestPin(sx, sy float64) int {
	if !r.board.Valid() {
		return -1
	}
	w := r.cam.ScreenToWorld(sx, sy)
	best, bestD := -1, math.Inf(1)
	for i := range r.pins {
		if !r.layers.SideVisible(r.board.Pins[i].Side) {
			continue
		}
		p := &r.pins[i]
		dx, dy := w.X-p.center.X, w.Y-p.center.Y
		d := dx*dx + dy*dy
		if p.contains(dx, dy, d) && d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// contains tests an offset (dx, dy) from the pin centre, with d its
// squared length. Rect and oval pads use their box, round pins the radius.
func (p *pinInfo) contains(dx, dy, d float64) bool {
	if p.half.X > 0 && p.half.Y > 0 {
		return math.Abs(dx) <= p.half.X && math.Abs(dy) <= p.half.Y
	}
	return d <= p.radius*p.radius
}

// HitTestPart returns the 0-based index of the smallest part box under
// screen position (sx, sy), or -1. Probe parts are never hit.
func (r *Renderer) HitTestPart(sx, sy float64) int {
	if !r.board.Valid() {
		return -1
	}
	w := r.cam.ScreenToWorld(sx, sy)
	best, bestArea := -1, math.Inf(1)
	for i := range r.board.Parts {
		if !r.partVisible(i) {
			continue
		}
		box := r.board.Geometry.PartBoxes[i]
		if !box.Contains(w) {
			continue
		}
		if area := box.Width() * box.Height(); area < bestArea {
			best, bestArea = i, area
		}
	}
	return best
}

// HandleMouseClick selects the pin under the cursor. A click on empty
// board clears the selection and returns false.
func (r *Renderer) HandleMouseClick(sx, sy float64) bool {
	i := r.HitTestPin(sx, sy)
	if i < 0 {
		r.ClearSelection()
		return false
	}
	r.SelectPin(i)
	return true
}

// GetHoveredPin updates and returns the pin under the cursor, or -1
func (r *Renderer) GetHoveredPin(sx, sy float64) int {
	r.hovered = r.HitTestPin(sx, sy)
	return r.hovered
}

func (r *Renderer) HoveredPin() int {
	return r.hovered
}

// SelectPin selects pin i and clears net and part highlights. Out of range
// indices clear the selection.
func (r *Renderer) SelectPin(i int) {
	if r.board == nil || i < 0 || i >= len(r.board.Pins) {
		r.selected = -1
		return
	}
	r.selected = i
	r.highlightNet = ""
	r.highlightPart = -1
}

func (r *Renderer) ClearSelection() {
	r.selected = -1
}

// SelectedPin returns the selected pin index, or -1
func (r *Renderer) SelectedPin() int {
	return r.selected
}

// SetHighlightedNet highlights every pin on net; "" clears it
func (r *Renderer) SetHighlightedNet(net string) {
	r.highlightNet = net
}

func (r *Renderer) HighlightedNet() string {
	return r.highlightNet
}

// SetHighlightedPart highlights the part at 0-based index i; -1 clears it
func (r *Renderer) SetHighlightedPart(i int) {
	if r.board == nil || i < 0 || i >= len(r.board.Parts) {
		i = -1
	}
	r.highlightPart = i
}

func (r *Renderer) HighlightedPart() int {
	return r.highlightPart
}

// ClearHighlights drops net and part highlights, keeping the selection
func (r *Renderer) ClearHighlights() {
	r.highlightNet = ""
	r.highlightPart = -1
}

// ZoomToNet centres and zooms on every pin of a net and highlights it. It
// reports false when no pin is on the net.
func (r *Renderer) ZoomToNet(net string) bool {
	if r.board == nil {
		return false
	}
	pins := r.board.PinsOnNet(net)
	if len(pins) == 0 {
		return false
	}
	box := board.NewBoundingBox()
	for _, i := range pins {
		box.Expand(r.pins[i].center)
	}
	r.focus(box)
	r.SetHighlightedNet(net)
	return true
}

// ZoomToPart centres and zooms on a part by name and highlights it
func (r *Renderer) ZoomToPart(name string) bool {
	if r.board == nil {
		return false
	}
	idx := r.board.PartIndex(name)
	if idx == 0 || r.board.Parts[idx-1].Probe {
		return false
	}
	box := board.NewBoundingBox()
	if idx-1 < len(r.board.Geometry.PartBoxes) {
		box.ExpandBox(r.board.Geometry.PartBoxes[idx-1])
	}
	for _, i := range r.board.PinsOfPart(idx) {
		box.Expand(r.pins[i].center)
	}
	if box.IsEmpty() {
		return false
	}
	r.focus(box)
	r.SetHighlightedPart(idx - 1)
	return true
}

// focus centres the camera on a world box and zooms so it fills the fit
// margin, padded to at least minFocusSize.
func (r *Renderer) focus(box board.Box) {
	r.cam.CenterOn(box.Center())
	w, h := float64(r.cam.Width), float64(r.cam.Height)
	if w <= 0 || h <= 0 {
		return
	}
	vb := r.cam.viewBox(box)
	bw := math.Max(vb.Width(), minFocusSize)
	bh := math.Max(vb.Height(), minFocusSize)
	r.cam.Zoom = clampZoom(math.Min(w*r.FitMargin/bw, h*r.FitMargin/bh))
}

// SetLayerVisible shows or hides a named layer. It reports false for
// unknown names.
func (r *Renderer) SetLayerVisible(layer string, visible bool) bool {
	return r.layers.SetVisible(layer, visible)
}

func (r *Renderer) LayerVisible(layer string) bool {
	return r.layers.IsVisible(layer)
}

func (r *Renderer) LayerNames() []string {
	return LayerNames()
}

func (r *Renderer) ShowAllLayers() {
	r.layers.ShowAll()
}

func (r *Renderer) HideAllLayers() {
	r.layers.HideAll()
}
