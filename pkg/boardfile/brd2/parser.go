// Package brd2 parses the tabular board format whose sections are
// introduced by BRDOUT:, NETS:, PARTS:, PINS: and NAILS: with inline counts.
//
// Bottom-side coordinates are mirrored against the board's maximum Y while
// parsing, so geometry for this format is built without further mirroring.
package brd2

import (
	"fmt"
	"os"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardfile"
)

// Name identifies boards produced by this package
const Name = boardfile.DialectBRD2

type section int

const (
	sectionNone section = iota
	sectionFormat
	sectionNets
	sectionParts
	sectionPins
	sectionNails
)

var sectionHeaders = []struct {
	prefix string
	sec    section
}{
	{"BRDOUT:", sectionFormat},
	{"NETS:", sectionNets},
	{"PARTS:", sectionParts},
	{"PINS:", sectionPins},
	{"NAILS:", sectionNails},
}

var sectionNames = map[section]string{
	sectionFormat: "BRDOUT",
	sectionNets:   "NETS",
	sectionParts:  "PARTS",
	sectionPins:   "PINS",
	sectionNails:  "NAILS",
}

// Parser implements boardfile.Dialect for the tabular format
type Parser struct{}

func (Parser) Name() string { return Name }

// Verify accepts buffers that contain both BRDOUT: and NETS:
func (Parser) Verify(buf []byte) bool {
	return boardfile.ContainsAll(buf, "BRDOUT:", "NETS:")
}

// Parse decodes a tabular board
func (Parser) Parse(buf []byte) (*board.Board, error) {
	b, err := parse(buf)
	if err != nil {
		if pe, ok := err.(*boardfile.ParseError); ok {
			pe.Dialect = Name
		}
		return nil, err
	}
	return b, nil
}

// Parse decodes a tabular board from a buffer
func Parse(buf []byte) (*board.Board, error) {
	return Parser{}.Parse(buf)
}

// ParseFile reads and decodes a tabular board file
func ParseFile(path string) (*board.Board, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(buf)
}

// rawPin and rawNail keep the net id until the net table is complete
type rawPin struct {
	pin   board.Pin
	netID int
}

type rawNail struct {
	nail  board.Nail
	netID int
}

type state struct {
	declared map[section]int
	max      board.Point

	format     []board.Point
	formatLine []int
	nets       map[int]string
	parts      []board.Part
	partLines  []int
	pins       []rawPin
	nails      []rawNail
}

func parse(buf []byte) (*board.Board, error) {
	if err := boardfile.CheckSize(buf); err != nil {
		return nil, err
	}
	text := string(buf)
	st := &state{
		declared: make(map[section]int),
		nets:     make(map[int]string),
	}

	current := sectionNone
	seen := false
	for _, ln := range boardfile.Lines(text) {
		sec, c, err := st.header(ln)
		if err != nil {
			return nil, err
		}
		if sec != sectionNone {
			current = sec
			seen = true
			continue
		}
		// a name such as "J1:" is data while its section still expects lines
		if !st.expecting(current) && boardfile.HeaderLike(boardfile.FirstField(ln.Text)) {
			return nil, &boardfile.ParseError{Kind: boardfile.UnknownSection, Line: ln.No, Msg: boardfile.FirstField(ln.Text)}
		}
		if current == sectionNone {
			continue
		}
		if err := st.data(current, c, ln.No); err != nil {
			if pe, ok := err.(*boardfile.ParseError); ok {
				pe.Section = sectionNames[current]
			}
			return nil, err
		}
	}
	if !seen {
		return nil, boardfile.Errorf(boardfile.NoSections, "no tabular section headers")
	}

	b, err := st.finish(text)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// header recognises a section header line and reads its inline counts.
// For data lines it returns sectionNone and a cursor over the line.
func (st *state) header(ln boardfile.Line) (section, *boardfile.Cursor, error) {
	trimmed := strings.TrimLeft(ln.Text, " \t")
	for _, h := range sectionHeaders {
		if !strings.HasPrefix(trimmed, h.prefix) {
			continue
		}
		c := boardfile.NewCursor(trimmed[len(h.prefix):], ln.No)
		n, err := c.ReadUint("count")
		if err == nil && h.sec == sectionFormat {
			if st.max.X, err = c.ReadInt("max_x"); err == nil {
				st.max.Y, err = c.ReadInt("max_y")
			}
		}
		if err != nil {
			err.(*boardfile.ParseError).Section = sectionNames[h.sec]
			return sectionNone, nil, err
		}
		st.declared[h.sec] = n
		return h.sec, nil, nil
	}
	return sectionNone, boardfile.NewCursor(ln.Text, ln.No), nil
}

func (st *state) data(sec section, c *boardfile.Cursor, line int) error {
	switch sec {
	case sectionFormat:
		x, err := c.ReadInt("x")
		if err != nil {
			return err
		}
		y, err := c.ReadInt("y")
		if err != nil {
			return err
		}
		st.format = append(st.format, board.Point{X: x, Y: y})
		st.formatLine = append(st.formatLine, line)

	case sectionNets:
		id, err := c.ReadUint("net_id")
		if err != nil {
			return err
		}
		name, err := c.ReadString("net_name")
		if err != nil {
			return err
		}
		st.nets[id] = name

	case sectionParts:
		var part board.Part
		var err error
		if part.Name, err = c.ReadString("name"); err != nil {
			return err
		}
		if part.P1, err = readPoint(c); err != nil {
			return err
		}
		if part.P2, err = readPoint(c); err != nil {
			return err
		}
		// the pin field holds the index of the part's first pin
		if part.EndOfPins, err = c.ReadUint("first_pin"); err != nil {
			return err
		}
		side, err := c.ReadUint("side")
		if err != nil {
			return err
		}
		part.Type = board.SMD
		part.Side = sideOf(side)
		st.parts = append(st.parts, part)
		st.partLines = append(st.partLines, line)

	case sectionPins:
		var p rawPin
		var err error
		if p.pin.Pos, err = readPoint(c); err != nil {
			return err
		}
		if p.netID, err = c.ReadUint("net_id"); err != nil {
			return err
		}
		side, err := c.ReadUint("side")
		if err != nil {
			return err
		}
		p.pin.Side = sideOf(side)
		p.pin.Probe = 1
		st.pins = append(st.pins, p)

	case sectionNails:
		var n rawNail
		var err error
		if n.nail.Probe, err = c.ReadUint("probe"); err != nil {
			return err
		}
		if n.nail.Pos, err = readPoint(c); err != nil {
			return err
		}
		if n.netID, err = c.ReadUint("net_id"); err != nil {
			return err
		}
		side, err := c.ReadUint("side")
		if err != nil {
			return err
		}
		n.nail.Side = board.SideBottom
		if side == 1 {
			n.nail.Side = board.SideTop
		}
		st.nails = append(st.nails, n)
	}
	return nil
}

// parsed returns how many records sec holds so far. NETS counts distinct
// net ids, so a repeated id replaces the earlier name.
func (st *state) parsed(sec section) int {
	switch sec {
	case sectionFormat:
		return len(st.format)
	case sectionNets:
		return len(st.nets)
	case sectionParts:
		return len(st.parts)
	case sectionPins:
		return len(st.pins)
	case sectionNails:
		return len(st.nails)
	}
	return 0
}

// expecting reports whether sec still has declared records to read
func (st *state) expecting(sec section) bool {
	return sec != sectionNone && st.parsed(sec) < st.declared[sec]
}

func readPoint(c *boardfile.Cursor) (board.Point, error) {
	x, err := c.ReadInt("x")
	if err != nil {
		return board.Point{}, err
	}
	y, err := c.ReadInt("y")
	if err != nil {
		return board.Point{}, err
	}
	return board.Point{X: x, Y: y}, nil
}

func sideOf(v int) board.Side {
	switch v {
	case 1:
		return board.SideTop
	case 2:
		return board.SideBottom
	default:
		return board.SideBoth
	}
}

func (st *state) netName(id int) string {
	if name, ok := st.nets[id]; ok {
		return name
	}
	return board.Unconnected
}

// finish validates counts and ranges, then builds the board
func (st *state) finish(text string) (*board.Board, error) {
	for _, sec := range []section{sectionFormat, sectionNets, sectionParts, sectionPins, sectionNails} {
		if n := st.parsed(sec); st.declared[sec] != n {
			return nil, boardfile.Mismatch(sectionNames[sec], st.declared[sec], n)
		}
	}

	for i, p := range st.format {
		if p.X > st.max.X || p.Y > st.max.Y {
			return nil, &boardfile.ParseError{
				Kind: boardfile.OutOfBounds, Section: "BRDOUT", Line: st.formatLine[i],
				Msg: fmt.Sprintf("point (%d,%d) beyond board maximum (%d,%d)", p.X, p.Y, st.max.X, st.max.Y),
			}
		}
	}
	for i, part := range st.parts {
		if part.EndOfPins > len(st.pins) {
			return nil, &boardfile.ParseError{
				Kind: boardfile.PartPinRangeOutOfBounds, Section: "PARTS", Line: st.partLines[i],
				Msg: fmt.Sprintf("part %s starts at pin %d of %d", part.Name, part.EndOfPins, len(st.pins)),
			}
		}
	}

	b := board.New(Name, text)
	b.Format = st.format
	b.Parts = st.parts
	b.Pins = make([]board.Pin, len(st.pins))
	for i, p := range st.pins {
		b.Pins[i] = p.pin
		b.Pins[i].Net = st.netName(p.netID)
	}
	b.Nails = make([]board.Nail, len(st.nails))
	for i, n := range st.nails {
		b.Nails[i] = n.nail
		b.Nails[i].Net = st.netName(n.netID)
		if b.Nails[i].Side == board.SideBottom {
			b.Nails[i].Pos.Y = st.max.Y - b.Nails[i].Pos.Y
		}
	}

	assignPins(b, st.max.Y)
	b.AttachNails()
	b.Geometry = board.BuildGeometry(b, board.DefaultGeometryOptions())
	return b, nil
}

// assignPins gives each part the contiguous run of pins that ends where the
// next part's first pin begins; the last part takes the remainder. Pins and
// parts on the bottom are mirrored against maxY. A part none of whose pins
// share its side has pins passing through the board and becomes
// through-hole on both sides.
func assignPins(b *board.Board, maxY int) {
	cpi := 0
	for i := range b.Parts {
		part := &b.Parts[i]
		if part.Side == board.SideBottom {
			part.P1.Y = maxY - part.P1.Y
			part.P2.Y = maxY - part.P2.Y
		}

		end := len(b.Pins)
		if i < len(b.Parts)-1 {
			end = b.Parts[i+1].EndOfPins
		}

		through := true
		for ; cpi < end; cpi++ {
			pin := &b.Pins[cpi]
			pin.Part = i + 1
			if pin.Side != board.SideTop {
				pin.Pos.Y = maxY - pin.Pos.Y
			}
			if pin.Side != board.SideBoth && pin.Side == part.Side {
				through = false
			}
		}

		if through {
			part.Type = board.ThroughHole
			part.Side = board.SideBoth
		} else {
			part.Type = board.SMD
		}
	}
}
