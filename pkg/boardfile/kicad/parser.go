// Package kicad maps KiCad .kicad_pcb files onto the board model: each
// footprint becomes a part, each pad a pin, and Edge.Cuts lines the outline.
package kicad

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardfile"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardfile/kicad/kicadsexp"
)

// Name identifies boards produced by this package
const Name = boardfile.DialectKiCad

// UnitsPerMM scales millimetres into board units
const UnitsPerMM = 100

const (
	layerFront = "F.Cu"
	layerBack  = "B.Cu"
	layerEdge  = "Edge.Cuts"
	sniffLen   = 512
)

// Parser implements boardfile.Dialect for KiCad board files
type Parser struct{}

func (Parser) Name() string { return Name }

// Verify accepts buffers that open a kicad_pcb list near the start
func (Parser) Verify(buf []byte) bool {
	head := buf
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	return bytes.Contains(head, []byte("(kicad_pcb"))
}

// Parse decodes a KiCad board
func (Parser) Parse(buf []byte) (*board.Board, error) {
	b, err := parse(buf)
	if err != nil {
		var pe *boardfile.ParseError
		if errors.As(err, &pe) {
			pe.Dialect = Name
		}
		return nil, err
	}
	return b, nil
}

// Parse decodes a KiCad board from a buffer
func Parse(buf []byte) (*board.Board, error) {
	return Parser{}.Parse(buf)
}

// ParseFile reads and decodes a KiCad board file
func ParseFile(path string) (*board.Board, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(buf)
}

func parse(buf []byte) (*board.Board, error) {
	if err := boardfile.CheckSize(buf); err != nil {
		return nil, err
	}

	sexps, err := kicadsexp.ParseBytes(buf)
	if err != nil {
		pe := &boardfile.ParseError{Kind: boardfile.Syntax, Msg: err.Error()}
		var se *kicadsexp.SyntaxError
		if errors.As(err, &se) {
			pe.Line, pe.Msg = se.Line, se.Msg
		}
		return nil, pe
	}
	if len(sexps) == 0 {
		return nil, boardfile.Errorf(boardfile.NoSections, "empty file")
	}
	root, ok := sexps[0].(*kicadsexp.List)
	if !ok || root.Key() != "kicad_pcb" {
		return nil, boardfile.Errorf(boardfile.BadSignature, "not a KiCad PCB file")
	}

	b := board.New(Name, string(buf))
	nets := readNets(root)

	b.Format, err = readOutline(root)
	if err != nil {
		return nil, err
	}

	footprints := root.FindAll("footprint")
	footprints = append(footprints, root.FindAll("module")...)
	for _, fp := range footprints {
		if err := addFootprint(b, fp, nets); err != nil {
			return nil, err
		}
	}

	b.AttachNails()
	b.Geometry = board.BuildGeometry(b, board.DefaultGeometryOptions())
	return b, nil
}

// readNets builds the net number table from top-level (net N "name") lists
func readNets(root *kicadsexp.List) map[int]string {
	nets := make(map[int]string)
	for _, n := range root.FindAll("net") {
		num, err := n.Int(1)
		if err != nil {
			continue
		}
		if name, err := n.Atom(2); err == nil {
			nets[num] = name
		}
	}
	return nets
}

// readOutline collects the start point of every Edge.Cuts line in file
// order, or the four corners of an Edge.Cuts rectangle.
func readOutline(root *kicadsexp.List) ([]board.Point, error) {
	var pts []board.Point
	for _, ln := range root.FindAll("gr_line") {
		if layerOf(ln) != layerEdge {
			continue
		}
		start, err := readXY(ln, "start")
		if err != nil {
			return nil, err
		}
		pts = append(pts, toBoard(start))
	}
	for _, r := range root.FindAll("gr_rect") {
		if layerOf(r) != layerEdge {
			continue
		}
		start, err := readXY(r, "start")
		if err != nil {
			return nil, err
		}
		end, err := readXY(r, "end")
		if err != nil {
			return nil, err
		}
		pts = append(pts,
			toBoard(start),
			toBoard(mm{end.x, start.y}),
			toBoard(end),
			toBoard(mm{start.x, end.y}),
		)
	}
	return pts, nil
}

type mm struct{ x, y float64 }

// toBoard converts a KiCad position (Y down) into board space (Y up)
func toBoard(p mm) board.Point {
	return board.Point{
		X: int(math.Round(p.x * UnitsPerMM)),
		Y: int(math.Round(-p.y * UnitsPerMM)),
	}
}

func layerOf(l *kicadsexp.List) string {
	if ln, ok := l.Find("layer"); ok {
		if s, err := ln.Atom(1); err == nil {
			return s
		}
	}
	return ""
}

func readXY(l *kicadsexp.List, key string) (mm, error) {
	node, ok := l.Find(key)
	if !ok {
		return mm{}, &boardfile.ParseError{Kind: boardfile.MissingField, Section: l.Key(), Field: key, Line: l.Line}
	}
	x, err := node.Float(1)
	if err != nil {
		return mm{}, numberError(node, key, err)
	}
	y, err := node.Float(2)
	if err != nil {
		return mm{}, numberError(node, key, err)
	}
	return mm{x, y}, nil
}

func numberError(l *kicadsexp.List, field string, err error) error {
	return &boardfile.ParseError{Kind: boardfile.InvalidNumber, Section: l.Key(), Field: field, Line: l.Line, Msg: err.Error()}
}

// reference returns the footprint's designator from either the property
// form or the older fp_text form.
func reference(fp *kicadsexp.List) string {
	for _, p := range fp.FindAll("property") {
		if k, _ := p.Atom(1); k == "Reference" {
			v, _ := p.Atom(2)
			return v
		}
	}
	for _, t := range fp.FindAll("fp_text") {
		if k, _ := t.Atom(1); k == "reference" {
			v, _ := t.Atom(2)
			return v
		}
	}
	return ""
}

func addFootprint(b *board.Board, fp *kicadsexp.List, nets map[int]string) error {
	origin, err := readXY(fp, "at")
	if err != nil {
		return err
	}
	at, _ := fp.Find("at")
	angle, _ := at.Float(3)

	part := board.Part{Name: reference(fp), Type: board.SMD}
	switch layerOf(fp) {
	case layerFront:
		part.Side = board.SideTop
	case layerBack:
		part.Side = board.SideBottom
	}
	index := len(b.Parts) + 1

	box := board.NewBoundingBox()
	for _, pad := range fp.FindAll("pad") {
		pin, err := readPad(pad, origin, angle, nets)
		if err != nil {
			return err
		}
		pin.Part = index
		pin.Side = part.Side
		if pad.Has("thru_hole") {
			part.Type = board.ThroughHole
		}
		half := board.FPoint{X: pin.Size.W / 2, Y: pin.Size.H / 2}
		if pin.Shape == board.PadCircle {
			half = board.FPoint{X: pin.Radius, Y: pin.Radius}
		}
		c := pin.Pos.F()
		box.Expand(board.FPoint{X: c.X - half.X, Y: c.Y - half.Y})
		box.Expand(board.FPoint{X: c.X + half.X, Y: c.Y + half.Y})
		b.Pins = append(b.Pins, pin)
	}

	if !box.IsEmpty() {
		part.P1 = board.Point{X: int(math.Floor(box.Min.X)), Y: int(math.Floor(box.Min.Y))}
		part.P2 = board.Point{X: int(math.Ceil(box.Max.X)), Y: int(math.Ceil(box.Max.Y))}
	} else {
		part.P1 = toBoard(origin)
		part.P2 = part.P1
	}
	part.EndOfPins = len(b.Pins)
	b.Parts = append(b.Parts, part)
	return nil
}

// readPad maps (pad "num" type shape (at x y [a]) (size w h) (net n "name"))
// onto a pin. Pad positions are relative to the footprint and rotate with it.
// The size becomes the axis-aligned extent of the rotated pad.
func readPad(pad *kicadsexp.List, origin mm, angle float64, nets map[int]string) (board.Pin, error) {
	var pin board.Pin
	pin.Name, _ = pad.Atom(1)
	pin.Probe = -1

	rel, err := readXY(pad, "at")
	if err != nil {
		return pin, err
	}
	if angle != 0 {
		rad := -angle * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		rel = mm{rel.x*cos - rel.y*sin, rel.x*sin + rel.y*cos}
	}
	pin.Pos = toBoard(mm{origin.x + rel.x, origin.y + rel.y})

	size, err := readXY(pad, "size")
	if err != nil {
		return pin, err
	}
	// a pad's own angle is absolute in board files and already includes
	// the footprint rotation
	padAngle := angle
	if at, ok := pad.Find("at"); ok {
		if a, err := at.Float(3); err == nil {
			padAngle = a
		}
	}
	size = rotatedExtent(size, padAngle)
	pin.Size = board.Size{W: size.x * UnitsPerMM, H: size.y * UnitsPerMM}

	shape, _ := pad.Atom(3)
	switch shape {
	case "rect", "roundrect", "trapezoid":
		pin.Shape = board.PadRect
	case "oval":
		pin.Shape = board.PadOval
	default:
		pin.Shape = board.PadCircle
		pin.Radius = math.Max(pin.Size.W, pin.Size.H) / 2
	}

	pin.Net = board.Unconnected
	if n, ok := pad.Find("net"); ok {
		if name, err := n.Atom(2); err == nil && name != "" {
			pin.Net = name
		} else if num, err := n.Int(1); err == nil {
			if name, ok := nets[num]; ok && name != "" {
				pin.Net = name
			}
		} else if name, err := n.Atom(1); err == nil && name != "" {
			pin.Net = name
		}
	}
	return pin, nil
}

// rotatedExtent returns the axis-aligned size of a w x h rectangle turned
// by deg degrees. Quarter turns swap the sides exactly.
func rotatedExtent(size mm, deg float64) mm {
	turn := math.Mod(deg, 360)
	if turn < 0 {
		turn += 360
	}
	switch turn {
	case 0, 180:
		return size
	case 90, 270:
		return mm{size.y, size.x}
	}
	rad := turn * math.Pi / 180
	cos, sin := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
	return mm{size.x*cos + size.y*sin, size.x*sin + size.y*cos}
}
