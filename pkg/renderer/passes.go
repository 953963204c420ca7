package renderer

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
)

const (
	outlineWidth     = 2.0
	partOutlineWidth = 1.0
	ratsnestWidth    = 1.0
	highlightWidth   = 2.0
	selectionRing    = 2.0

	partFillShare      = 0.2
	highlightFillAlpha = 0.25

	minPinPixels = 1.0
)

// Render draws one frame for a w x h viewport. Passes are emitted in
// order: background, outline, part outlines, pins, ratsnest, part
// highlight and text overlay. An empty renderer draws the background only.
func (r *Renderer) Render(w, h int) *DrawList {
	r.cam.Width, r.cam.Height = w, h
	dl := &DrawList{Width: w, Height: h}
	dl.Add(Command{Kind: KindClear, Pass: PassBackground, Color: r.settings.BackgroundColor})
	if !r.board.Valid() {
		return dl
	}

	r.drawOutline(dl)
	r.drawParts(dl)
	r.drawPins(dl)
	r.drawRatsnest(dl)
	r.drawPartHighlight(dl)
	r.drawText(dl)
	return dl
}

func (r *Renderer) line(dl *DrawList, pass Pass, a, b board.FPoint, col board.Color, width float64) {
	x0, y0 := r.cam.WorldToScreen(a)
	x1, y1 := r.cam.WorldToScreen(b)
	if !r.boxVisible(x0, y0, x1, y1) {
		dl.Stats.Culled++
		return
	}
	dl.Add(Command{Kind: KindLine, Pass: pass, Color: col, X0: x0, Y0: y0, X1: x1, Y1: y1, Width: width})
}

func (r *Renderer) drawOutline(dl *DrawList) {
	s := &r.settings
	if !s.ShowOutline || !r.layers.IsVisible(LayerOutline) {
		return
	}
	col := s.OutlineColor.WithAlpha(s.OutlineColor.A * s.OutlineAlpha)
	for _, seg := range r.board.Geometry.Outline {
		r.line(dl, PassOutline, seg.A, seg.B, col, outlineWidth)
	}
}

// partVisible reports whether part i has a drawable box on a shown side
func (r *Renderer) partVisible(i int) bool {
	part := &r.board.Parts[i]
	if part.Probe || i >= len(r.board.Geometry.PartBoxes) {
		return false
	}
	return !r.board.Geometry.PartBoxes[i].IsEmpty() && r.layers.SideVisible(part.Side)
}

func (r *Renderer) drawParts(dl *DrawList) {
	s := &r.settings
	if !s.ShowParts {
		return
	}
	fill := s.PartColor.WithAlpha(s.PartColor.A * s.PartAlpha * partFillShare)
	stroke := s.PartOutlineColor.WithAlpha(s.PartOutlineColor.A * s.PartOutlineAlpha * s.PartAlpha)

	for i := range r.board.Parts {
		if !r.partVisible(i) {
			continue
		}
		x0, y0, x1, y1 := r.screenBox(r.board.Geometry.PartBoxes[i])
		if !r.boxVisible(x0, y0, x1, y1) {
			dl.Stats.Culled++
			continue
		}
		dl.Add(Command{Kind: KindRect, Pass: PassPartOutline, Color: fill, X0: x0, Y0: y0, X1: x1, Y1: y1, Fill: true})
		if s.ShowPartOutlines {
			dl.Add(Command{Kind: KindRect, Pass: PassPartOutline, Color: stroke, X0: x0, Y0: y0, X1: x1, Y1: y1, Width: partOutlineWidth})
		}
	}
}

func (r *Renderer) drawPins(dl *DrawList) {
	if !r.settings.ShowPins {
		return
	}
	g := &r.board.Geometry
	z := r.cam.Zoom

	for _, c := range g.Circles {
		if !r.layers.SideVisible(r.board.Pins[c.Pin].Side) {
			continue
		}
		sx, sy := r.cam.WorldToScreen(c.Center)
		rad := math.Max(c.Radius*z, minPinPixels)
		if !r.IsElementVisible(sx, sy, rad) {
			dl.Stats.Culled++
			continue
		}
		dl.Add(Command{Kind: KindCircle, Pass: PassPins, Color: r.PinColor(c.Pin), X0: sx, Y0: sy, R: rad, Fill: true})
		r.selectionRing(dl, c.Pin, sx, sy, rad)
	}

	pads := []struct {
		kind Kind
		pads []board.Pad
	}{{KindRect, g.Rects}, {KindOval, g.Ovals}}
	for _, set := range pads {
		for _, p := range set.pads {
			if !r.layers.SideVisible(r.board.Pins[p.Pin].Side) {
				continue
			}
			sx, sy := r.cam.WorldToScreen(p.Center)
			hw, hh := math.Max(p.Size.W*z/2, minPinPixels), math.Max(p.Size.H*z/2, minPinPixels)
			if r.cam.steps()%2 == 1 {
				hw, hh = hh, hw
			}
			if !r.boxVisible(sx-hw, sy-hh, sx+hw, sy+hh) {
				dl.Stats.Culled++
				continue
			}
			dl.Add(Command{
				Kind: set.kind, Pass: PassPins, Color: r.PinColor(p.Pin),
				X0: sx - hw, Y0: sy - hh, X1: sx + hw, Y1: sy + hh, Fill: true,
			})
			r.selectionRing(dl, p.Pin, sx, sy, math.Max(hw, hh))
		}
	}
}

func (r *Renderer) selectionRing(dl *DrawList, pin int, sx, sy, rad float64) {
	if pin != r.selected {
		return
	}
	dl.Add(Command{
		Kind: KindCircle, Pass: PassPins, Color: r.settings.OutlineColor,
		X0: sx, Y0: sy, R: rad + selectionRing, Width: selectionRing,
	})
}

func (r *Renderer) drawRatsnest(dl *DrawList) {
	s := &r.settings
	if !s.ShowRatsnest {
		return
	}
	for _, w := range r.Airwires() {
		pa, pb := &r.board.Pins[w.A], &r.board.Pins[w.B]
		if !r.layers.SideVisible(pa.Side) || !r.layers.SideVisible(pb.Side) {
			continue
		}
		r.line(dl, PassRatsnest, r.pins[w.A].center, r.pins[w.B].center, s.RatsnestColor, ratsnestWidth)
	}
}

// Airwires returns the ratsnest of the current board, computing it on
// first use.
func (r *Renderer) Airwires() []Airwire {
	if r.board == nil {
		return nil
	}
	if !r.wiresBuilt {
		centers := make([]board.FPoint, len(r.pins))
		for i := range r.pins {
			centers[i] = r.pins[i].center
		}
		r.wires = Ratsnest(r.board, centers)
		r.wiresBuilt = true
	}
	return r.wires
}

func (r *Renderer) drawPartHighlight(dl *DrawList) {
	i := r.highlightPart
	if i < 0 || i >= len(r.board.Parts) || !r.partVisible(i) {
		return
	}
	s := &r.settings
	x0, y0, x1, y1 := r.screenBox(r.board.Geometry.PartBoxes[i])
	if !r.boxVisible(x0, y0, x1, y1) {
		dl.Stats.Culled++
		return
	}
	dl.Add(Command{
		Kind: KindRect, Pass: PassPartHighlight, Color: s.PartHighlightFill.WithAlpha(highlightFillAlpha),
		X0: x0, Y0: y0, X1: x1, Y1: y1, Fill: true,
	})
	dl.Add(Command{
		Kind: KindRect, Pass: PassPartHighlight, Color: s.PartHighlightBorder,
		X0: x0, Y0: y0, X1: x1, Y1: y1, Width: highlightWidth,
	})
}
