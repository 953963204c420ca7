package board

import "math"

// Box is an axis-aligned rectangle in board space
type Box struct {
	Min FPoint
	Max FPoint
}

// NewBoundingBox creates an empty bounding box
func NewBoundingBox() Box {
	return Box{
		Min: FPoint{X: math.Inf(1), Y: math.Inf(1)},
		Max: FPoint{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// IsEmpty checks if the bounding box is empty
func (bb Box) IsEmpty() bool {
	return bb.Min.X > bb.Max.X || bb.Min.Y > bb.Max.Y
}

// Expand expands the bounding box to include a position
func (bb *Box) Expand(p FPoint) {
	bb.Min.X = math.Min(bb.Min.X, p.X)
	bb.Min.Y = math.Min(bb.Min.Y, p.Y)
	bb.Max.X = math.Max(bb.Max.X, p.X)
	bb.Max.Y = math.Max(bb.Max.Y, p.Y)
}

// ExpandBox expands to include another bounding box
func (bb *Box) ExpandBox(other Box) {
	if !other.IsEmpty() {
		bb.Expand(other.Min)
		bb.Expand(other.Max)
	}
}

// expandRadius includes a square of half-size r around c
func (bb *Box) expandRadius(c FPoint, rx, ry float64) {
	bb.Expand(FPoint{X: c.X - rx, Y: c.Y - ry})
	bb.Expand(FPoint{X: c.X + rx, Y: c.Y + ry})
}

func (bb Box) Width() float64  { return bb.Max.X - bb.Min.X }
func (bb Box) Height() float64 { return bb.Max.Y - bb.Min.Y }

// Center returns the center point of the bounding box
func (bb Box) Center() FPoint {
	return FPoint{X: (bb.Min.X + bb.Max.X) / 2, Y: (bb.Min.Y + bb.Max.Y) / 2}
}

// Contains reports whether p lies inside the box, edges included
func (bb Box) Contains(p FPoint) bool {
	return p.X >= bb.Min.X && p.X <= bb.Max.X && p.Y >= bb.Min.Y && p.Y <= bb.Max.Y
}

// Intersects reports whether two boxes overlap
func (bb Box) Intersects(other Box) bool {
	return bb.Min.X <= other.Max.X && bb.Max.X >= other.Min.X &&
		bb.Min.Y <= other.Max.Y && bb.Max.Y >= other.Min.Y
}

// orZero turns an empty box into the (0,0)-(0,0) box
func (bb Box) orZero() Box {
	if bb.IsEmpty() {
		return Box{}
	}
	return bb
}

// BoundingBox covers every pin, part corner and outline point of the model.
// An empty model yields (0,0)-(0,0).
func (b *Board) BoundingBox() Box {
	bbox := NewBoundingBox()
	for i := range b.Pins {
		bbox.Expand(b.Pins[i].Pos.F())
	}
	for i := range b.Parts {
		if b.Parts[i].Probe {
			continue
		}
		bbox.Expand(b.Parts[i].P1.F())
		bbox.Expand(b.Parts[i].P2.F())
	}
	for _, p := range b.Format {
		bbox.Expand(p.F())
	}
	return bbox.orZero()
}

// RenderingBoundingBox covers the derived geometry, including pad extents,
// and everything BoundingBox covers. Without geometry it equals BoundingBox.
func (b *Board) RenderingBoundingBox() Box {
	g := &b.Geometry
	if g.IsEmpty() {
		return b.BoundingBox()
	}
	bbox := NewBoundingBox()
	for _, c := range g.Circles {
		bbox.expandRadius(c.Center, c.Radius, c.Radius)
	}
	for _, r := range g.Rects {
		bbox.expandRadius(r.Center, r.Size.W/2, r.Size.H/2)
	}
	for _, o := range g.Ovals {
		bbox.expandRadius(o.Center, o.Size.W/2, o.Size.H/2)
	}
	for _, s := range g.Outline {
		bbox.Expand(s.A)
		bbox.Expand(s.B)
	}
	for _, s := range g.PartOutlines {
		bbox.Expand(s.A)
		bbox.Expand(s.B)
	}
	if b.Valid() {
		bbox.ExpandBox(b.BoundingBox())
	}
	return bbox.orZero()
}

// Center returns the integer midpoint of BoundingBox
func (b *Board) Center() Point {
	bb := b.BoundingBox()
	return Point{
		X: int(math.Floor((bb.Min.X + bb.Max.X) / 2)),
		Y: int(math.Floor((bb.Min.Y + bb.Max.Y) / 2)),
	}
}
