package boardfile

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCursorReads(t *testing.T) {
	c := NewCursor("  U12  -3 42\tGND_A  ", 7)

	name, err := c.ReadString("name")
	if err != nil || name != "U12" {
		t.Fatalf("ReadString() = %q, %v, want U12", name, err)
	}
	v, err := c.ReadInt("probe")
	if err != nil || v != -3 {
		t.Fatalf("ReadInt() = %d, %v, want -3", v, err)
	}
	u, err := c.ReadUint("part")
	if err != nil || u != 42 {
		t.Fatalf("ReadUint() = %d, %v, want 42", u, err)
	}
	if got := c.Rest(); got != "GND_A" {
		t.Errorf("Rest() = %q, want GND_A", got)
	}
	if !c.Done() {
		t.Error("Done() = false after Rest()")
	}
}

func TestCursorErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		read  func(c *Cursor) error
		kind  Kind
	}{
		{
			name:  "negative unsigned",
			input: "-5",
			read:  func(c *Cursor) error { _, err := c.ReadUint("count"); return err },
			kind:  NegativeUnsigned,
		},
		{
			name:  "garbage unsigned",
			input: "-x",
			read:  func(c *Cursor) error { _, err := c.ReadUint("count"); return err },
			kind:  InvalidNumber,
		},
		{
			name:  "garbage int",
			input: "12ab",
			read:  func(c *Cursor) error { _, err := c.ReadInt("x"); return err },
			kind:  InvalidNumber,
		},
		{
			name:  "missing int",
			input: "   ",
			read:  func(c *Cursor) error { _, err := c.ReadInt("x"); return err },
			kind:  MissingField,
		},
		{
			name:  "missing string",
			input: "",
			read:  func(c *Cursor) error { _, err := c.ReadString("net"); return err },
			kind:  MissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read(NewCursor(tt.input, 3))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
			if pe.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", pe.Kind, tt.kind)
			}
			if pe.Line != 3 {
				t.Errorf("Line = %d, want 3", pe.Line)
			}
		})
	}
}

func TestLines(t *testing.T) {
	got := Lines("a\r\nb\rc\n\n   \nd")
	want := []Line{
		{Text: "a", No: 1},
		{Text: "b", No: 2},
		{Text: "c", No: 3},
		{Text: "d", No: 6},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestHeaderLike(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Parts:", true},
		{"  Nails:  ", true},
		{"BRDOUT: 4 100 100", false},
		{"12:", false},
		{":", false},
		{"U1 5 3", false},
	}
	for _, tt := range tests {
		if got := HeaderLike(tt.in); got != tt.want {
			t.Errorf("HeaderLike(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecodeSignature(t *testing.T) {
	// the obfuscation header decodes to the start of the first section name
	if got := string(Decode(signature)); got != "str_" {
		t.Errorf("Decode(signature) = %q, want str_", got)
	}
	plain := []byte("var_data:\r\n1 2 3 4\n")
	enc := Encode(plain)
	if diff := cmp.Diff(plain, Decode(enc)); diff != "" {
		t.Errorf("Decode(Encode()) mismatch (-want +got):\n%s", diff)
	}
	if enc[9] != '\r' || enc[10] != '\n' {
		t.Error("Encode() altered line terminators")
	}
}

func TestCheckSize(t *testing.T) {
	if err := CheckSize([]byte("abcd")); !IsKind(err, BufferTooSmall) {
		t.Errorf("CheckSize(4 bytes) = %v, want BufferTooSmall", err)
	}
	if err := CheckSize([]byte("abcde")); err != nil {
		t.Errorf("CheckSize(5 bytes) = %v, want nil", err)
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := Mismatch("PINS", 3, 2)
	err.Dialect = "brd2"
	want := "brd2: count mismatch in PINS: declared 3, parsed 2"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
