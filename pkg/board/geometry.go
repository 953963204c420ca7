package board

import "image/color"

// Color is a straight-alpha RGBA color with components in 0..1
type Color struct {
	R, G, B, A float32
}

// RGB builds an opaque color
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// WithAlpha returns c with its alpha replaced
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

// NRGBA converts c to 8-bit components, clamping out of range values
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Circle is a round pad or test point
type Circle struct {
	Center FPoint
	Radius float64
	Color  Color
	Pin    int // index into Board.Pins
}

// Pad is a rectangular or oval pad centered on a pin
type Pad struct {
	Center FPoint
	Size   Size
	Color  Color
	Pin    int
}

// Segment is a straight outline edge
type Segment struct {
	A, B FPoint
}

// Geometry holds the primitives derived from a board for drawing.
// PartBoxes is indexed like Board.Parts and holds each part's drawn rectangle.
type Geometry struct {
	Circles      []Circle
	Rects        []Pad
	Ovals        []Pad
	Outline      []Segment
	PartOutlines []Segment
	PartBoxes    []Box
}

// IsEmpty reports whether no primitive has been built
func (g *Geometry) IsEmpty() bool {
	return len(g.Circles) == 0 && len(g.Rects) == 0 && len(g.Ovals) == 0 &&
		len(g.Outline) == 0 && len(g.PartOutlines) == 0
}

// GeometryOptions controls how a board is turned into geometry
type GeometryOptions struct {
	// MirrorBottom flips bottom-side geometry about the X axis (y -> -y)
	// and shifts it by SideOffset, so both faces can be seen at once.
	MirrorBottom bool
	SideOffset   FPoint

	PinRadius      float64
	NailRadius     float64
	DegenerateSize float64

	TopPin     Color
	BottomPin  Color
	TopNail    Color
	BottomNail Color
}

var (
	colorPinRed   = RGB(0.7, 0, 0)
	colorPinBlue  = RGB(0, 0, 0.7)
	colorNailTop  = RGB(0, 0.7, 0)
	colorNailBot  = RGB(0, 0.7, 0.7)
	defaultRadius = 6.5
)

// DefaultGeometryOptions draws both faces in place, red pins and green nails
func DefaultGeometryOptions() GeometryOptions {
	return GeometryOptions{
		PinRadius:      defaultRadius,
		NailRadius:     4,
		DegenerateSize: 10,
		TopPin:         colorPinRed,
		BottomPin:      colorPinRed,
		TopNail:        colorNailTop,
		BottomNail:     colorNailTop,
	}
}

// MirroredGeometryOptions mirrors the bottom face and colors it separately
func MirroredGeometryOptions() GeometryOptions {
	opts := DefaultGeometryOptions()
	opts.MirrorBottom = true
	opts.BottomPin = colorPinBlue
	opts.BottomNail = colorNailBot
	return opts
}

func (o *GeometryOptions) place(p FPoint, side Side) FPoint {
	if o.MirrorBottom && side == SideBottom {
		return FPoint{X: p.X + o.SideOffset.X, Y: -p.Y + o.SideOffset.Y}
	}
	return p
}

// BuildGeometry derives render primitives from a board. It does not modify
// b, and the same board and options always give the same result.
func BuildGeometry(b *Board, opts GeometryOptions) Geometry {
	var g Geometry

	if n := len(b.Format); n >= 2 {
		for i := 0; i < n; i++ {
			g.Outline = append(g.Outline, Segment{A: b.Format[i].F(), B: b.Format[(i+1)%n].F()})
		}
	}
	if opts.MirrorBottom {
		n := len(g.Outline)
		for i := 0; i < n; i++ {
			s := g.Outline[i]
			g.Outline = append(g.Outline, Segment{
				A: opts.place(s.A, SideBottom),
				B: opts.place(s.B, SideBottom),
			})
		}
	}

	g.PartBoxes = make([]Box, len(b.Parts))
	for i := range b.Parts {
		part := &b.Parts[i]
		if part.Probe {
			g.PartBoxes[i] = NewBoundingBox()
			continue
		}
		p1, p2 := part.P1.F(), part.P2.F()
		if part.P1 == part.P2 {
			h := opts.DegenerateSize / 2
			p1 = FPoint{X: p1.X - h, Y: p1.Y - h}
			p2 = FPoint{X: p2.X + h, Y: p2.Y + h}
		}
		corners := [4]FPoint{
			{X: p1.X, Y: p1.Y},
			{X: p2.X, Y: p1.Y},
			{X: p2.X, Y: p2.Y},
			{X: p1.X, Y: p2.Y},
		}
		box := NewBoundingBox()
		for k := range corners {
			corners[k] = opts.place(corners[k], part.Side)
			box.Expand(corners[k])
		}
		for k := 0; k < 4; k++ {
			g.PartOutlines = append(g.PartOutlines, Segment{A: corners[k], B: corners[(k+1)%4]})
		}
		g.PartBoxes[i] = box
	}

	for i := range b.Pins {
		pin := &b.Pins[i]
		center := opts.place(pin.Pos.F(), pin.Side)

		nail := false
		if part := b.PartOf(pin); part != nil && part.Probe {
			nail = true
		}

		var col Color
		radius := pin.Radius
		switch {
		case nail:
			radius = opts.NailRadius
			col = opts.TopNail
			if pin.Side == SideBottom {
				col = opts.BottomNail
			}
		default:
			if radius <= 0 {
				radius = opts.PinRadius
			}
			col = opts.TopPin
			if pin.Side == SideBottom {
				col = opts.BottomPin
			}
		}

		switch {
		case !nail && pin.Shape == PadRect && pin.Size.W > 0 && pin.Size.H > 0:
			g.Rects = append(g.Rects, Pad{Center: center, Size: pin.Size, Color: col, Pin: i})
		case !nail && pin.Shape == PadOval && pin.Size.W > 0 && pin.Size.H > 0:
			g.Ovals = append(g.Ovals, Pad{Center: center, Size: pin.Size, Color: col, Pin: i})
		default:
			g.Circles = append(g.Circles, Circle{Center: center, Radius: radius, Color: col, Pin: i})
		}
	}

	return g
}
