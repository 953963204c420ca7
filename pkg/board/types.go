// Package board holds the in-memory model of a parsed circuit board file:
// outline points, parts, pins and test points, plus the render geometry
// derived from them.
package board

import (
	"sort"
	"strconv"
)

// Side identifies which physical face of the board an element occupies
type Side int

const (
	SideBoth Side = iota
	SideTop
	SideBottom
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return "both"
	}
}

// PartType distinguishes surface mount parts from through-hole parts
type PartType int

const (
	SMD PartType = iota
	ThroughHole
)

func (t PartType) String() string {
	if t == ThroughHole {
		return "through-hole"
	}
	return "smd"
}

// PadShape is the drawn shape of a pin
type PadShape int

const (
	PadCircle PadShape = iota
	PadRect
	PadOval
)

// Unconnected is the net name given to pins whose net could not be resolved
const Unconnected = "UNCONNECTED"

// ProbePartName is the name of the synthetic parts that carry test points
const ProbePartName = "..."

// Point is an integer board-space coordinate
type Point struct {
	X, Y int
}

// FPoint is a floating point coordinate used by render geometry
type FPoint struct {
	X, Y float64
}

// F converts an integer point to a floating point one
func (p Point) F() FPoint {
	return FPoint{X: float64(p.X), Y: float64(p.Y)}
}

// Size is the width and height of a non-circular pad
type Size struct {
	W, H float64
}

// Pin is a single electrical contact
type Pin struct {
	Pos    Point
	Probe  int
	Part   int // 1-based index into Board.Parts, 0 when not attached
	Side   Side
	Net    string
	Radius float64 // 0 means use the geometry default
	Name   string  // pin number or label
	Serial string
	Diode  string // diode-mode reading, shown in the text overlay
	Shape  PadShape
	Size   Size
}

// Part is a component placed on the board
type Part struct {
	Name      string
	Side      Side
	Type      PartType
	P1, P2    Point
	EndOfPins int
	Probe     bool // synthetic part carrying test points
}

// Nail is a bed-of-nails test point
type Nail struct {
	Probe int
	Pos   Point
	Side  Side
	Net   string
}

// Board is a parsed board file. It is immutable once returned by a parser,
// except for Geometry which may be rebuilt with different options.
type Board struct {
	Dialect string

	Format []Point
	Parts  []Part
	Pins   []Pin
	Nails  []Nail

	Geometry Geometry

	// text is the decoded source buffer; every name and net of a board
	// parsed from a text dialect is a substring of it.
	text string
}

// New returns an empty board that keeps source as its backing text.
func New(dialect, source string) *Board {
	return &Board{Dialect: dialect, text: source}
}

// Source returns the decoded text the board was parsed from
func (b *Board) Source() string {
	return b.text
}

// Valid reports whether the board has anything to show
func (b *Board) Valid() bool {
	return b != nil && (len(b.Pins) > 0 || len(b.Parts) > 0 || len(b.Format) > 0)
}

// PartOf returns the part a pin belongs to, or nil for unattached pins.
func (b *Board) PartOf(pin *Pin) *Part {
	if pin.Part <= 0 || pin.Part > len(b.Parts) {
		return nil
	}
	return &b.Parts[pin.Part-1]
}

// NetNames returns the sorted set of net names used by pins.
func (b *Board) NetNames() []string {
	seen := make(map[string]struct{})
	for i := range b.Pins {
		if n := b.Pins[i].Net; n != "" {
			seen[n] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ComponentNames returns the names of all real parts in file order
func (b *Board) ComponentNames() []string {
	var names []string
	for i := range b.Parts {
		if b.Parts[i].Probe {
			continue
		}
		names = append(names, b.Parts[i].Name)
	}
	return names
}

// PartIndex returns the 1-based index of the first part called name, or 0.
func (b *Board) PartIndex(name string) int {
	for i := range b.Parts {
		if !b.Parts[i].Probe && b.Parts[i].Name == name {
			return i + 1
		}
	}
	return 0
}

// PinsOnNet returns the indices of pins whose net is name
func (b *Board) PinsOnNet(name string) []int {
	var out []int
	for i := range b.Pins {
		if b.Pins[i].Net == name {
			out = append(out, i)
		}
	}
	return out
}

// PinsOfPart returns the indices of pins attached to the 1-based part index
func (b *Board) PinsOfPart(part int) []int {
	var out []int
	for i := range b.Pins {
		if b.Pins[i].Part == part {
			out = append(out, i)
		}
	}
	return out
}

// PinLabel returns the display name of a pin: its own name when set,
// otherwise its 1-based position within its part.
func (b *Board) PinLabel(index int) string {
	pin := &b.Pins[index]
	if pin.Name != "" {
		return pin.Name
	}
	n := 0
	for i := 0; i <= index; i++ {
		if b.Pins[i].Part == pin.Part {
			n++
		}
	}
	return strconv.Itoa(n)
}
