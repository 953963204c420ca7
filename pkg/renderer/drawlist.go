package renderer

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/board"

// Kind is the type of a draw command
type Kind int

const (
	KindClear Kind = iota
	KindLine
	KindCircle
	KindRect
	KindOval
	KindText
)

func (k Kind) String() string {
	return [...]string{"clear", "line", "circle", "rect", "oval", "text"}[k]
}

// Pass identifies the render pass that emitted a command. Passes run in
// declaration order.
type Pass int

const (
	PassBackground Pass = iota
	PassOutline
	PassPartOutline
	PassPins
	PassRatsnest
	PassPartHighlight
	PassTextOverlay
)

func (p Pass) String() string {
	return [...]string{"background", "outline", "part-outline", "pins", "ratsnest", "part-highlight", "text-overlay"}[p]
}

// Command is one screen-space drawing primitive.
//
// Lines use (X0,Y0)-(X1,Y1). Rects and ovals use the same fields as their
// min and max corners. Circles are centred on (X0,Y0) with radius R. Text is
// centred on (X0,Y0).
type Command struct {
	Kind  Kind
	Pass  Pass
	Color board.Color

	X0, Y0, X1, Y1 float64
	R              float64

	// Fill selects filled shapes; otherwise they are stroked with Width
	Fill  bool
	Width float64

	Text       string
	Size       float64
	Background board.Color // zero alpha means no label box
}

// Stats counts what a frame drew and skipped
type Stats struct {
	Lines, Circles, Rects, Ovals, Texts int
	Culled                              int
}

// DrawList is a complete frame
type DrawList struct {
	Width, Height int
	Commands      []Command
	Stats         Stats
}

// Add appends a command and counts it
func (d *DrawList) Add(c Command) {
	d.Commands = append(d.Commands, c)
	switch c.Kind {
	case KindLine:
		d.Stats.Lines++
	case KindCircle:
		d.Stats.Circles++
	case KindRect:
		d.Stats.Rects++
	case KindOval:
		d.Stats.Ovals++
	case KindText:
		d.Stats.Texts++
	}
}

// Filter returns the commands emitted by pass
func (d *DrawList) Filter(pass Pass) []Command {
	var out []Command
	for _, c := range d.Commands {
		if c.Pass == pass {
			out = append(out, c)
		}
	}
	return out
}
