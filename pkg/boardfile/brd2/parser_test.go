package brd2

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardfile"
)

func minimal(pins string) string {
	return strings.Join([]string{
		"BRDOUT: 4 100 100",
		"0 0",
		"100 0",
		"100 100",
		"0 100",
		"",
		"NETS: 1",
		"0 GND",
		"",
		"PARTS: 1",
		"U1 10 10 90 90 0 1",
		"",
		pins,
		"20 20 0 1",
		"80 80 0 1",
		"",
	}, "\n")
}

func TestParseMinimal(t *testing.T) {
	b, err := Parse([]byte(minimal("PINS: 2")))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]string{"GND"}, b.NetNames()); diff != "" {
		t.Errorf("NetNames() mismatch (-want +got):\n%s", diff)
	}
	if b.Dialect != Name {
		t.Errorf("Dialect = %q, want %q", b.Dialect, Name)
	}
	for i, pin := range b.Pins {
		if pin.Part != 1 {
			t.Errorf("pin %d part = %d, want 1", i, pin.Part)
		}
	}
	u1 := b.Parts[0]
	if u1.Type != board.SMD || u1.Side != board.SideTop {
		t.Errorf("U1 = %v/%v, want smd/top", u1.Type, u1.Side)
	}
	// one real part plus two probe parts
	if len(b.Parts) != 3 {
		t.Errorf("len(Parts) = %d, want 3", len(b.Parts))
	}
	if len(b.Geometry.Outline) != 4 {
		t.Errorf("len(Outline) = %d, want 4", len(b.Geometry.Outline))
	}
}

func TestParseCountMismatch(t *testing.T) {
	b, err := Parse([]byte(minimal("PINS: 3")))
	if b != nil {
		t.Error("Parse() returned a board alongside an error")
	}
	pe, ok := err.(*boardfile.ParseError)
	if !ok {
		t.Fatalf("Parse() error = %v, want *ParseError", err)
	}
	if got, want := pe.Error(), "brd2: count mismatch in PINS: declared 3, parsed 2"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	tests := []struct {
		header  string
		changed string
		section string
	}{
		{"BRDOUT: 4 1000 500", "BRDOUT: 3 1000 500", "BRDOUT"},
		{"BRDOUT: 4 1000 500", "BRDOUT: 5 1000 500", "BRDOUT"},
		{"NETS: 2", "NETS: 1", "NETS"},
		{"NETS: 2", "NETS: 3", "NETS"},
		{"PARTS: 3", "PARTS: 2", "PARTS"},
		{"PARTS: 3", "PARTS: 4", "PARTS"},
		{"PINS: 6", "PINS: 5", "PINS"},
		{"PINS: 6", "PINS: 7", "PINS"},
		{"NAILS: 2", "NAILS: 1", "NAILS"},
		{"NAILS: 2", "NAILS: 3", "NAILS"},
	}
	for _, tt := range tests {
		t.Run(tt.changed, func(t *testing.T) {
			b, err := Parse([]byte(strings.Replace(full, tt.header, tt.changed, 1)))
			if b != nil {
				t.Error("Parse() returned a board alongside an error")
			}
			pe, ok := err.(*boardfile.ParseError)
			if !ok {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if pe.Kind != boardfile.CountMismatch || pe.Section != tt.section {
				t.Errorf("error = %v, want count mismatch in %s", pe, tt.section)
			}
		})
	}
}

func TestParseNetsCountsDistinctIDs(t *testing.T) {
	repeated := strings.Replace(full, "1 VCC\n2 GND", "1 VCC\n2 GND\n2 AGND", 1)
	b, err := Parse([]byte(repeated))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := b.Pins[1].Net; got != "AGND" {
		t.Errorf("repeated net id resolved to %q, want the later name AGND", got)
	}

	short := strings.Replace(full, "NETS: 2\n1 VCC\n2 GND", "NETS: 2\n1 VCC\n1 VCC", 1)
	_, err = Parse([]byte(short))
	if pe, ok := err.(*boardfile.ParseError); !ok || pe.Kind != boardfile.CountMismatch || pe.Section != "NETS" {
		t.Errorf("Parse() error = %v, want count mismatch in NETS", err)
	}
}

func TestParsePartNameWithColon(t *testing.T) {
	b, err := Parse([]byte(strings.Replace(full, "J1 700 300", "J1: 700 300", 1)))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := b.Parts[2].Name; got != "J1:" {
		t.Errorf("part name = %q, want %q", got, "J1:")
	}
}

const full = `BRDOUT: 4 1000 500
0 0
1000 0
1000 500
0 500

NETS: 2
1 VCC
2 GND

PARTS: 3
U1 100 100 300 200 0 1
C1 500 100 600 200 2 2
J1 700 300 800 400 4 1

PINS: 6
110 110 1 1
290 190 2 1
510 110 2 2
590 190 9 2
710 310 1 2
790 390 2 2

NAILS: 2
5 110 110 1 1
6 510 110 2 2
`

func TestParseFull(t *testing.T) {
	b, err := Parse([]byte(full))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	wantParts := []struct {
		name string
		typ  board.PartType
		side board.Side
	}{
		{"U1", board.SMD, board.SideTop},
		{"C1", board.SMD, board.SideBottom},
		// every pin of J1 is on the far side, so it passes through
		{"J1", board.ThroughHole, board.SideBoth},
	}
	for i, w := range wantParts {
		p := b.Parts[i]
		if p.Name != w.name || p.Type != w.typ || p.Side != w.side {
			t.Errorf("part %d = %s %v/%v, want %s %v/%v", i, p.Name, p.Type, p.Side, w.name, w.typ, w.side)
		}
	}

	// bottom part corners are mirrored against the board height
	if c1 := b.Parts[1]; c1.P1.Y != 400 || c1.P2.Y != 300 {
		t.Errorf("C1 corners = %v %v, want y mirrored to 400/300", c1.P1, c1.P2)
	}

	wantPinParts := []int{1, 1, 2, 2, 3, 3}
	for i, want := range wantPinParts {
		if got := b.Pins[i].Part; got != want {
			t.Errorf("pin %d part = %d, want %d", i, got, want)
		}
	}
	if got := b.Pins[2].Pos; got != (board.Point{X: 510, Y: 390}) {
		t.Errorf("bottom pin = %v, want y mirrored", got)
	}
	if got := b.Pins[0].Pos; got != (board.Point{X: 110, Y: 110}) {
		t.Errorf("top pin = %v, want unchanged", got)
	}
	if got := b.Pins[3].Net; got != board.Unconnected {
		t.Errorf("unknown net id resolved to %q, want %q", got, board.Unconnected)
	}

	// nails become pins on the probe parts
	if len(b.Pins) != 8 {
		t.Fatalf("len(Pins) = %d, want 8", len(b.Pins))
	}
	bottomNail := b.Pins[7]
	if !b.IsProbePin(7) || bottomNail.Pos != (board.Point{X: 510, Y: 390}) || bottomNail.Net != "GND" {
		t.Errorf("bottom nail pin = %+v, want mirrored GND probe", bottomNail)
	}

	if diff := cmp.Diff([]string{"GND", "UNCONNECTED", "VCC"}, b.NetNames()); diff != "" {
		t.Errorf("NetNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name string
		buf  string
		want bool
	}{
		{"full", full, true},
		{"no nets", "BRDOUT: 0 0 0\nPARTS: 0\n", false},
		{"legacy", "str_length:\nvar_data:\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Parser{}).Verify([]byte(tt.buf)); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    boardfile.Kind
		section string
	}{
		{
			name:    "outline beyond maximum",
			input:   strings.Replace(full, "1000 500\n0 500", "1001 500\n0 500", 1),
			kind:    boardfile.OutOfBounds,
			section: "BRDOUT",
		},
		{
			name:    "first pin beyond pin count",
			input:   strings.Replace(full, "J1 700 300 800 400 4 1", "J1 700 300 800 400 7 1", 1),
			kind:    boardfile.PartPinRangeOutOfBounds,
			section: "PARTS",
		},
		{
			name:    "negative net id",
			input:   strings.Replace(full, "110 110 1 1\n290", "110 110 -1 1\n290", 1),
			kind:    boardfile.NegativeUnsigned,
			section: "PINS",
		},
		{
			name:    "missing side",
			input:   strings.Replace(full, "U1 100 100 300 200 0 1", "U1 100 100 300 200 0", 1),
			kind:    boardfile.MissingField,
			section: "PARTS",
		},
		{
			name:    "bad header count",
			input:   strings.Replace(full, "NETS: 2", "NETS: two", 1),
			kind:    boardfile.InvalidNumber,
			section: "NETS",
		},
		{
			name:    "nails count",
			input:   strings.Replace(full, "NAILS: 2", "NAILS: 1", 1),
			kind:    boardfile.CountMismatch,
			section: "NAILS",
		},
		{
			name:  "unknown section",
			input: strings.Replace(full, "NAILS: 2\n", "VIAS:\n", 1),
			kind:  boardfile.UnknownSection,
		},
		{
			name:  "no sections",
			input: "nothing to see\n",
			kind:  boardfile.NoSections,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Parse([]byte(tt.input))
			if b != nil {
				t.Error("Parse() returned a board alongside an error")
			}
			pe, ok := err.(*boardfile.ParseError)
			if !ok {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if pe.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v (%v)", pe.Kind, tt.kind, pe)
			}
			if pe.Section != tt.section {
				t.Errorf("Section = %q, want %q", pe.Section, tt.section)
			}
			if pe.Dialect != Name {
				t.Errorf("Dialect = %q, want %q", pe.Dialect, Name)
			}
		})
	}
}
