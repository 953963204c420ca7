// Package brd parses the legacy line-oriented board format, optionally
// obfuscated with a 4-byte header.
package brd

import (
	"fmt"
	"os"
	"strings"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardfile"
)

// Name identifies boards produced by this package
const Name = boardfile.DialectBRD

type section int

const (
	sectionNone section = iota
	sectionStrLength
	sectionVarData
	sectionFormat
	sectionParts
	sectionPins
	sectionNails
)

var headers = map[string]section{
	"str_length:": sectionStrLength,
	"var_data:":   sectionVarData,
	"Format:":     sectionFormat,
	"format:":     sectionFormat,
	"Parts:":      sectionParts,
	"Pins1:":      sectionParts,
	"Pins:":       sectionPins,
	"Pins2:":      sectionPins,
	"Nails:":      sectionNails,
}

var sectionNames = map[section]string{
	sectionVarData: "var_data",
	sectionFormat:  "Format",
	sectionParts:   "Parts",
	sectionPins:    "Pins",
	sectionNails:   "Nails",
}

// Parser implements boardfile.Dialect for the legacy format
type Parser struct{}

func (Parser) Name() string { return Name }

// Verify accepts buffers carrying the obfuscation header, or plain text
// containing both the str_length: and var_data: markers.
func (Parser) Verify(buf []byte) bool {
	if boardfile.HasSignature(buf) {
		return true
	}
	return boardfile.ContainsAll(buf, "str_length:", "var_data:")
}

// Parse decodes a legacy board
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

// Parse decodes a legacy board from a buffer
func Parse(buf []byte) (*board.Board, error) {
	return Parser{}.Parse(buf)
}

// ParseFile reads and decodes a legacy board file
func ParseFile(path string) (*board.Board, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(buf)
}

type counts struct {
	format, parts, pins, nails int
}

// lined remembers the source line of an element for later range errors
type lined[T any] struct {
	v    T
	line int
}

func parse(buf []byte) (*board.Board, error) {
	if err := boardfile.CheckSize(buf); err != nil {
		return nil, err
	}
	if boardfile.HasSignature(buf) {
		buf = boardfile.Decode(buf)
	}
	text := string(buf)
	b := board.New(Name, text)

	var (
		declared counts
		current  = sectionNone
		seen     bool
		parts    []lined[board.Part]
		pins     []lined[board.Pin]
	)

	for _, ln := range boardfile.Lines(text) {
		head := strings.TrimSpace(ln.Text)
		if sec, ok := headers[head]; ok {
			current = sec
			seen = true
			continue
		}
		if boardfile.HeaderLike(head) {
			return nil, &boardfile.ParseError{Kind: boardfile.UnknownSection, Line: ln.No, Msg: head}
		}

		c := boardfile.NewCursor(ln.Text, ln.No)
		var err error
		switch current {
		case sectionVarData:
			declared, err = readCounts(c)
		case sectionFormat:
			var p board.Point
			if p, err = readPoint(c); err == nil {
				b.Format = append(b.Format, p)
			}
		case sectionParts:
			var part board.Part
			if part, err = readPart(c); err == nil {
				parts = append(parts, lined[board.Part]{part, ln.No})
			}
		case sectionPins:
			var pin board.Pin
			if pin, err = readPin(c); err == nil {
				pins = append(pins, lined[board.Pin]{pin, ln.No})
			}
		case sectionNails:
			var nail board.Nail
			if nail, err = readNail(c); err == nil {
				b.Nails = append(b.Nails, nail)
			}
		}
		if err != nil {
			if pe, ok := err.(*boardfile.ParseError); ok {
				pe.Section = sectionNames[current]
			}
			return nil, err
		}
	}
	if !seen {
		return nil, boardfile.Errorf(boardfile.NoSections, "no legacy section headers")
	}

	for _, chk := range []struct {
		section          string
		declared, parsed int
	}{
		{"Format", declared.format, len(b.Format)},
		{"Parts", declared.parts, len(parts)},
		{"Pins", declared.pins, len(pins)},
		{"Nails", declared.nails, len(b.Nails)},
	} {
		if chk.declared != chk.parsed {
			return nil, boardfile.Mismatch(chk.section, chk.declared, chk.parsed)
		}
	}

	for _, p := range parts {
		if p.v.EndOfPins > declared.pins {
			return nil, &boardfile.ParseError{
				Kind: boardfile.PartPinRangeOutOfBounds, Section: "Parts", Line: p.line,
				Msg: fmt.Sprintf("part %s ends at pin %d of %d", p.v.Name, p.v.EndOfPins, declared.pins),
			}
		}
		b.Parts = append(b.Parts, p.v)
	}
	for _, p := range pins {
		if p.v.Part > declared.parts {
			return nil, &boardfile.ParseError{
				Kind: boardfile.PartPinRangeOutOfBounds, Section: "Pins", Line: p.line,
				Msg: fmt.Sprintf("pin refers to part %d of %d", p.v.Part, declared.parts),
			}
		}
		b.Pins = append(b.Pins, p.v)
	}

	resolvePins(b)
	b.AttachNails()
	b.Geometry = board.BuildGeometry(b, board.MirroredGeometryOptions())
	return b, nil
}

func readCounts(c *boardfile.Cursor) (counts, error) {
	var n counts
	var err error
	if n.format, err = c.ReadUint("num_format"); err != nil {
		return n, err
	}
	if n.parts, err = c.ReadUint("num_parts"); err != nil {
		return n, err
	}
	if n.pins, err = c.ReadUint("num_pins"); err != nil {
		return n, err
	}
	if n.nails, err = c.ReadUint("num_nails"); err != nil {
		return n, err
	}
	return n, nil
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

// readPart reads "name type_layer end_of_pins". The type/layer field packs
// the mounting technology (bits 2-3) and the side.
func readPart(c *boardfile.Cursor) (board.Part, error) {
	var part board.Part
	var err error
	if part.Name, err = c.ReadString("name"); err != nil {
		return part, err
	}
	tl, err := c.ReadUint("type_layer")
	if err != nil {
		return part, err
	}
	part.Type = board.ThroughHole
	if tl&0xc != 0 {
		part.Type = board.SMD
	}
	switch {
	case tl == 1 || (tl >= 4 && tl < 8):
		part.Side = board.SideTop
	case tl == 2 || tl >= 8:
		part.Side = board.SideBottom
	default:
		part.Side = board.SideBoth
	}
	if part.EndOfPins, err = c.ReadUint("end_of_pins"); err != nil {
		return part, err
	}
	return part, nil
}

// readPin reads "x y probe part [net]"; probe may be negative.
func readPin(c *boardfile.Cursor) (board.Pin, error) {
	var pin board.Pin
	var err error
	if pin.Pos, err = readPoint(c); err != nil {
		return pin, err
	}
	if pin.Probe, err = c.ReadInt("probe"); err != nil {
		return pin, err
	}
	if pin.Part, err = c.ReadUint("part"); err != nil {
		return pin, err
	}
	pin.Net = c.OptString()
	return pin, nil
}

// readNail reads "probe x y side [net]"
func readNail(c *boardfile.Cursor) (board.Nail, error) {
	var nail board.Nail
	var err error
	if nail.Probe, err = c.ReadUint("probe"); err != nil {
		return nail, err
	}
	if nail.Pos, err = readPoint(c); err != nil {
		return nail, err
	}
	side, err := c.ReadUint("side")
	if err != nil {
		return nail, err
	}
	nail.Side = board.SideBottom
	if side == 1 {
		nail.Side = board.SideTop
	}
	nail.Net = c.OptString()
	return nail, nil
}

// resolvePins fills in empty nets from the nail table, copies each part's
// side onto its pins and sizes each part to the extent of its pins.
func resolvePins(b *board.Board) {
	nailNets := make(map[int]string, len(b.Nails))
	for _, n := range b.Nails {
		nailNets[n.Probe] = n.Net
	}

	boxes := make([]board.Box, len(b.Parts))
	for i := range boxes {
		boxes[i] = board.NewBoundingBox()
	}

	for i := range b.Pins {
		pin := &b.Pins[i]
		if pin.Net == "" {
			if net, ok := nailNets[pin.Probe]; ok && net != "" {
				pin.Net = net
			} else {
				pin.Net = board.Unconnected
			}
		}
		if part := b.PartOf(pin); part != nil {
			pin.Side = part.Side
			boxes[pin.Part-1].Expand(pin.Pos.F())
		}
	}

	for i := range b.Parts {
		if boxes[i].IsEmpty() {
			continue
		}
		b.Parts[i].P1 = board.Point{X: int(boxes[i].Min.X), Y: int(boxes[i].Min.Y)}
		b.Parts[i].P2 = board.Point{X: int(boxes[i].Max.X), Y: int(boxes[i].Max.Y)}
	}
}
