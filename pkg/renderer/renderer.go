// Package renderer turns a board into frames of screen-space draw commands.
//
// A Renderer owns the camera, the render settings and the selection state
// for one view. Backends (Gio, raster) replay the DrawList it produces.
package renderer

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
)

// DefaultFitMargin is the share of the viewport a fitted board fills
const DefaultFitMargin = 0.9

type pinInfo struct {
	center board.FPoint
	radius float64
	// half extents of rect and oval pads; zero for round pins
	half   board.FPoint
	color  board.Color
	ground bool
	nc     bool
}

// Renderer draws one board through one camera
type Renderer struct {
	FitMargin float64

	settings Settings
	theme    Theme
	policy   Policy
	cam      Camera
	layers   *LayerConfig

	board      *board.Board
	pins       []pinInfo
	wires      []Airwire
	wiresBuilt bool

	selected      int
	hovered       int
	highlightNet  string
	highlightPart int
}

// New creates a renderer with default settings and no board
func New() *Renderer {
	return &Renderer{
		FitMargin:     DefaultFitMargin,
		settings:      DefaultSettings(),
		policy:        PolicyFor(""),
		cam:           NewCamera(0, 0),
		layers:        NewLayerConfig(),
		selected:      -1,
		hovered:       -1,
		highlightPart: -1,
	}
}

// SetBoard replaces the board and resets selection and highlights. The
// camera is not fitted; call ZoomToFit once the viewport size is known.
func (r *Renderer) SetBoard(b *board.Board) {
	r.board = b
	r.selected, r.hovered, r.highlightPart = -1, -1, -1
	r.highlightNet = ""
	r.wires, r.wiresBuilt = nil, false
	r.pins = nil
	if b == nil {
		return
	}

	r.policy = PolicyFor(b.Dialect)
	r.settings.PinAlpha = r.policy.PinAlpha
	r.settings.PartAlpha = r.policy.PartAlpha
	if b.Geometry.IsEmpty() && b.Valid() {
		b.Geometry = board.BuildGeometry(b, r.policy.Geometry)
	}
	r.buildCache()
}

// Board returns the current board, or nil
func (r *Renderer) Board() *board.Board {
	return r.board
}

func (r *Renderer) buildCache() {
	b := r.board
	r.pins = make([]pinInfo, len(b.Pins))
	for i := range b.Pins {
		r.pins[i] = pinInfo{
			center: b.Pins[i].Pos.F(),
			radius: r.policy.Geometry.PinRadius,
			ground: IsGroundNet(b.Pins[i].Net),
			nc:     IsNCNet(b.Pins[i].Net),
		}
	}
	g := &b.Geometry
	for _, c := range g.Circles {
		p := &r.pins[c.Pin]
		p.center, p.radius, p.color = c.Center, c.Radius, c.Color
	}
	for _, pads := range [][]board.Pad{g.Rects, g.Ovals} {
		for _, pad := range pads {
			p := &r.pins[pad.Pin]
			p.center, p.radius, p.color = pad.Center, math.Max(pad.Size.W, pad.Size.H)/2, pad.Color
			p.half = board.FPoint{X: pad.Size.W / 2, Y: pad.Size.H / 2}
		}
	}

	c := b.RenderingBoundingBox().Center()
	r.cam.PivotX, r.cam.PivotY = c.X, c.Y
}

// SetSideOffset moves the mirrored bottom face of boards whose dialect
// mirrors it. It has no effect on other boards.
func (r *Renderer) SetSideOffset(off board.FPoint) {
	r.policy.Geometry.SideOffset = off
	if r.board == nil || !r.policy.Geometry.MirrorBottom {
		return
	}
	r.board.Geometry = board.BuildGeometry(r.board, r.policy.Geometry)
	r.wires, r.wiresBuilt = nil, false
	r.buildCache()
}

// Settings returns the live settings of the renderer
func (r *Renderer) Settings() *Settings {
	return &r.settings
}

// SetTheme applies a built-in theme
func (r *Renderer) SetTheme(t Theme) {
	r.theme = t
	r.settings.ApplyTheme(t)
}

// Theme returns the built-in theme last applied
func (r *Renderer) Theme() Theme {
	return r.theme
}

// ApplyThemeSpec applies a user theme
func (r *Renderer) ApplyThemeSpec(spec ThemeSpec) error {
	if err := r.settings.ApplyThemeSpec(spec); err != nil {
		return err
	}
	r.theme = spec.Base
	return nil
}

// Camera returns a copy of the camera
func (r *Renderer) Camera() Camera {
	return r.cam
}

// SetCamera sets the view centre and zoom
func (r *Renderer) SetCamera(x, y, zoom float64) {
	r.cam.X, r.cam.Y = x, y
	r.cam.Zoom = clampZoom(zoom)
}

// SetViewport records the screen size without moving the camera
func (r *Renderer) SetViewport(w, h int) {
	r.cam.Width, r.cam.Height = w, h
}

// ComputeFitZoom returns the zoom at which the whole board, in its current
// rotation, fills FitMargin of a w x h viewport. It does not change state.
func (r *Renderer) ComputeFitZoom(w, h int) float64 {
	if !r.board.Valid() || w <= 0 || h <= 0 {
		return r.cam.Zoom
	}
	bb := r.board.RenderingBoundingBox()
	bw, bh := bb.Width(), bb.Height()
	if r.cam.steps()%2 == 1 {
		bw, bh = bh, bw
	}
	zx, zy := math.Inf(1), math.Inf(1)
	if bw > 0 {
		zx = float64(w) * r.FitMargin / bw
	}
	if bh > 0 {
		zy = float64(h) * r.FitMargin / bh
	}
	z := math.Min(zx, zy)
	if math.IsInf(z, 1) {
		return r.cam.Zoom
	}
	return clampZoom(z)
}

// ZoomToFit fits the whole board and centres it
func (r *Renderer) ZoomToFit(w, h int) {
	r.cam.Width, r.cam.Height = w, h
	if !r.board.Valid() {
		return
	}
	r.cam.Zoom = r.ComputeFitZoom(w, h)
	r.cam.CenterOn(r.board.RenderingBoundingBox().Center())
}

// RotateRight turns the view a quarter turn clockwise and re-fits
func (r *Renderer) RotateRight() {
	r.cam.RotationSteps = (r.cam.steps() + 1) % 4
	r.ZoomToFit(r.cam.Width, r.cam.Height)
}

// RotateLeft turns the view a quarter turn counter-clockwise and re-fits
func (r *Renderer) RotateLeft() {
	r.cam.RotationSteps = (r.cam.steps() + 3) % 4
	r.ZoomToFit(r.cam.Width, r.cam.Height)
}

func (r *Renderer) ToggleFlipHorizontal() {
	r.cam.FlipH = !r.cam.FlipH
	r.ZoomToFit(r.cam.Width, r.cam.Height)
}

func (r *Renderer) ToggleFlipVertical() {
	r.cam.FlipV = !r.cam.FlipV
	r.ZoomToFit(r.cam.Width, r.cam.Height)
}

// Pan drags the view by screen pixels
func (r *Renderer) Pan(dx, dy float64) {
	r.cam.Pan(dx, dy)
}

// Zoom scales the view by factor, keeping the board point under screen
// position (sx, sy) fixed.
func (r *Renderer) Zoom(factor, sx, sy float64) {
	r.cam.ZoomAbout(factor, r.cam.ScreenToWorld(sx, sy))
}

// ClampHorizontal keeps the board horizontally in view after a resize
// without re-fitting: a board narrower than the view is centred, a wider
// one is kept from exposing a gap at either edge.
func (r *Renderer) ClampHorizontal(w, h int) {
	r.cam.Width, r.cam.Height = w, h
	if !r.board.Valid() || w <= 0 {
		return
	}
	vb := r.cam.viewBox(r.board.RenderingBoundingBox())
	half := float64(w) / 2 / r.cam.Zoom
	if vb.Width() <= 2*half {
		r.cam.X = vb.Center().X
		return
	}
	r.cam.X = math.Max(vb.Min.X+half, math.Min(vb.Max.X-half, r.cam.X))
}

// IsElementVisible reports whether a screen-space circle overlaps the
// viewport.
func (r *Renderer) IsElementVisible(sx, sy, radius float64) bool {
	w, h := float64(r.cam.Width), float64(r.cam.Height)
	return sx+radius >= 0 && sx-radius <= w && sy+radius >= 0 && sy-radius <= h
}

func (r *Renderer) boxVisible(x0, y0, x1, y1 float64) bool {
	w, h := float64(r.cam.Width), float64(r.cam.Height)
	return math.Max(x0, x1) >= 0 && math.Min(x0, x1) <= w &&
		math.Max(y0, y1) >= 0 && math.Min(y0, y1) <= h
}

// screenBox maps a world box to screen min/max corners
func (r *Renderer) screenBox(b board.Box) (x0, y0, x1, y1 float64) {
	ax, ay := r.cam.WorldToScreen(b.Min)
	bx, by := r.cam.WorldToScreen(b.Max)
	return math.Min(ax, bx), math.Min(ay, by), math.Max(ax, bx), math.Max(ay, by)
}

// PinCenter returns where pin i is drawn, in world coordinates
func (r *Renderer) PinCenter(i int) board.FPoint {
	return r.pins[i].center
}

// PinColor returns the color pin i is drawn in, following the precedence
// selection, then net or part highlight, then ground and NC, then the
// override or geometry color.
func (r *Renderer) PinColor(i int) board.Color {
	s := &r.settings
	pin := &r.board.Pins[i]
	info := &r.pins[i]

	var c board.Color
	switch {
	case r.selected >= 0 && (i == r.selected || (!info.nc && pin.Net == r.board.Pins[r.selected].Net)):
		c = s.SameNetColor
	case r.highlightNet != "" && pin.Net == r.highlightNet:
		c = s.SameNetColor
	case r.highlightPart >= 0 && pin.Part == r.highlightPart+1:
		c = s.PartHighlightBorder
	case info.ground:
		c = s.GroundColor
	case info.nc:
		c = s.NCColor
	case s.OverridePinColors:
		c = s.PinColor
	default:
		c = info.color
	}
	return c.WithAlpha(c.A * s.PinAlpha)
}
