package brd

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/boardfile"
)

const sampleCounts = "4 2 3 1"

func sample(counts string) string {
	return strings.Join([]string{
		"str_length:",
		"12",
		"var_data:",
		counts,
		"Format:",
		"0 0",
		"1000 0",
		"1000 500",
		"0 500",
		"Parts:",
		"U1 5 2",
		"R1 10 3",
		"Pins:",
		"100 100 -99 1 GND",
		"200 100 -99 1 VCC",
		"600 300 7 2",
		"Nails:",
		"7 600 300 2 NET7",
		"",
	}, "\r\n")
}

func TestParse(t *testing.T) {
	b, err := Parse([]byte(sample(sampleCounts)))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if b.Dialect != Name {
		t.Errorf("Dialect = %q, want %q", b.Dialect, Name)
	}
	if len(b.Format) != 4 {
		t.Errorf("len(Format) = %d, want 4", len(b.Format))
	}
	// two real parts plus the two probe parts
	if len(b.Parts) != 4 {
		t.Fatalf("len(Parts) = %d, want 4", len(b.Parts))
	}
	if len(b.Pins) != 4 {
		t.Fatalf("len(Pins) = %d, want 4", len(b.Pins))
	}

	u1, r1 := b.Parts[0], b.Parts[1]
	if u1.Side != board.SideTop || u1.Type != board.SMD {
		t.Errorf("U1 = %v/%v, want top/smd", u1.Side, u1.Type)
	}
	if r1.Side != board.SideBottom {
		t.Errorf("R1 side = %v, want bottom", r1.Side)
	}
	if u1.P1 != (board.Point{X: 100, Y: 100}) || u1.P2 != (board.Point{X: 200, Y: 100}) {
		t.Errorf("U1 corners = %v %v, want pin extent", u1.P1, u1.P2)
	}

	if got := b.Pins[2].Net; got != "NET7" {
		t.Errorf("back-filled net = %q, want NET7", got)
	}
	if got := b.Pins[2].Side; got != board.SideBottom {
		t.Errorf("pin side = %v, want bottom from its part", got)
	}
	if diff := cmp.Diff([]string{"GND", "NET7", "VCC"}, b.NetNames()); diff != "" {
		t.Errorf("NetNames() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"U1", "R1"}, b.ComponentNames()); diff != "" {
		t.Errorf("ComponentNames() mismatch (-want +got):\n%s", diff)
	}

	// bottom geometry is mirrored at render time, not parse time
	if b.Pins[2].Pos != (board.Point{X: 600, Y: 300}) {
		t.Errorf("bottom pin stored at %v, want file coordinates", b.Pins[2].Pos)
	}
	c := b.Geometry.Circles[2]
	if c.Center != (board.FPoint{X: 600, Y: -300}) {
		t.Errorf("bottom pin drawn at %v, want mirrored", c.Center)
	}
}

func TestParseEncoded(t *testing.T) {
	plain := []byte(sample(sampleCounts))
	enc := boardfile.Encode(plain)
	// the encoded header is the signature followed by the rest of "str_length:"
	if !boardfile.HasSignature(enc) {
		t.Fatalf("encoded sample lacks signature: % x", enc[:4])
	}

	want, err := Parse(plain)
	if err != nil {
		t.Fatalf("Parse(plain) error = %v", err)
	}
	got, err := Parse(enc)
	if err != nil {
		t.Fatalf("Parse(encoded) error = %v", err)
	}
	if diff := cmp.Diff(want.Pins, got.Pins); diff != "" {
		t.Errorf("pins mismatch (-plain +encoded):\n%s", diff)
	}
	if diff := cmp.Diff(want.Parts, got.Parts); diff != "" {
		t.Errorf("parts mismatch (-plain +encoded):\n%s", diff)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want bool
	}{
		{"plain", []byte(sample(sampleCounts)), true},
		{"encoded", boardfile.Encode([]byte(sample(sampleCounts))), true},
		{"one marker only", []byte("str_length:\n1\n"), false},
		{"tabular", []byte("BRDOUT: 0 0 0\nNETS: 0\n"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Parser{}).Verify(tt.buf); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountMismatch(t *testing.T) {
	for _, counts := range []string{
		"5 2 3 1", "3 2 3 1",
		"4 3 3 1", "4 1 3 1",
		"4 2 4 1", "4 2 2 1",
		"4 2 3 2", "4 2 3 0",
	} {
		t.Run(counts, func(t *testing.T) {
			b, err := Parse([]byte(sample(counts)))
			if !boardfile.IsKind(err, boardfile.CountMismatch) {
				t.Errorf("Parse() error = %v, want CountMismatch", err)
			}
			if b != nil {
				t.Error("Parse() returned a board alongside an error")
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
			name:    "negative type",
			input:   strings.Replace(sample(sampleCounts), "U1 5 2", "U1 -5 2", 1),
			kind:    boardfile.NegativeUnsigned,
			section: "Parts",
		},
		{
			name:    "pin part out of range",
			input:   strings.Replace(sample(sampleCounts), "600 300 7 2", "600 300 7 3", 1),
			kind:    boardfile.PartPinRangeOutOfBounds,
			section: "Pins",
		},
		{
			name:    "part pins out of range",
			input:   strings.Replace(sample(sampleCounts), "R1 10 3", "R1 10 9", 1),
			kind:    boardfile.PartPinRangeOutOfBounds,
			section: "Parts",
		},
		{
			name:  "unknown section",
			input: strings.Replace(sample(sampleCounts), "Nails:", "Vias:", 1),
			kind:  boardfile.UnknownSection,
		},
		{
			name:  "too small",
			input: "abc",
			kind:  boardfile.BufferTooSmall,
		},
		{
			name:  "no sections",
			input: "hello world\n",
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
				t.Errorf("Kind = %v, want %v", pe.Kind, tt.kind)
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
