package renderer

import (
	"math"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
)

const (
	MinZoom = 1e-4
	MaxZoom = 1e3
)

// Camera maps board coordinates (Y up) onto a screen (Y down).
//
// A world point is first moved into view space: flipped and then rotated in
// quarter turns about the pivot. X and Y are the view-space point shown at
// the centre of the screen, and Zoom is pixels per board unit.
type Camera struct {
	X, Y float64
	Zoom float64

	// RotationSteps counts clockwise quarter turns, 0..3
	RotationSteps int
	FlipH, FlipV  bool

	// Rotation and flips pivot about this world point
	PivotX, PivotY float64

	Width, Height int
}

// NewCamera creates a camera with unit zoom
func NewCamera(width, height int) Camera {
	return Camera{Zoom: 1, Width: width, Height: height}
}

// ToView applies flip then rotation about the pivot
func (c *Camera) ToView(p board.FPoint) board.FPoint {
	x, y := p.X-c.PivotX, p.Y-c.PivotY
	if c.FlipH {
		x = -x
	}
	if c.FlipV {
		y = -y
	}
	for i := 0; i < c.steps(); i++ {
		x, y = y, -x
	}
	return board.FPoint{X: x + c.PivotX, Y: y + c.PivotY}
}

// FromView is the inverse of ToView
func (c *Camera) FromView(v board.FPoint) board.FPoint {
	x, y := v.X-c.PivotX, v.Y-c.PivotY
	for i := 0; i < c.steps(); i++ {
		x, y = -y, x
	}
	if c.FlipV {
		y = -y
	}
	if c.FlipH {
		x = -x
	}
	return board.FPoint{X: x + c.PivotX, Y: y + c.PivotY}
}

func (c *Camera) steps() int {
	return ((c.RotationSteps % 4) + 4) % 4
}

// WorldToScreen converts a board position to screen pixels
func (c *Camera) WorldToScreen(p board.FPoint) (float64, float64) {
	v := c.ToView(p)
	sx := float64(c.Width)/2 + (v.X-c.X)*c.Zoom
	sy := float64(c.Height)/2 - (v.Y-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen pixels to a board position
func (c *Camera) ScreenToWorld(sx, sy float64) board.FPoint {
	v := board.FPoint{
		X: (sx-float64(c.Width)/2)/c.Zoom + c.X,
		Y: (float64(c.Height)/2-sy)/c.Zoom + c.Y,
	}
	return c.FromView(v)
}

// Pan moves the view by a screen-pixel drag; content follows the pointer
func (c *Camera) Pan(dx, dy float64) {
	c.X -= dx / c.Zoom
	c.Y += dy / c.Zoom
}

// ZoomAbout scales the zoom by factor while keeping the given world point
// at the same screen position.
func (c *Camera) ZoomAbout(factor float64, world board.FPoint) {
	if factor <= 0 || math.IsNaN(factor) {
		return
	}
	next := clampZoom(c.Zoom * factor)
	a := c.ToView(world)
	ratio := c.Zoom / next
	c.X = a.X - (a.X-c.X)*ratio
	c.Y = a.Y - (a.Y-c.Y)*ratio
	c.Zoom = next
}

// CenterOn puts a world point at the centre of the screen
func (c *Camera) CenterOn(world board.FPoint) {
	v := c.ToView(world)
	c.X, c.Y = v.X, v.Y
}

// VisibleBounds returns the world-space box covering the screen
func (c *Camera) VisibleBounds() board.Box {
	box := board.NewBoundingBox()
	w, h := float64(c.Width), float64(c.Height)
	for _, s := range [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		box.Expand(c.ScreenToWorld(s[0], s[1]))
	}
	return box
}

// viewBox returns the view-space extent of a world box. Quarter turns and
// flips keep boxes axis aligned, so transforming two corners is enough.
func (c *Camera) viewBox(b board.Box) board.Box {
	out := board.NewBoundingBox()
	out.Expand(c.ToView(b.Min))
	out.Expand(c.ToView(b.Max))
	return out
}

func clampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}
