package cmd

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/export"
)

const tabular = `BRDOUT: 4 1000 500
0 0
1000 0
1000 500
0 500
NETS: 3
1 GND
2 VCC
3 NC
PARTS: 2
U1 100 100 300 200 0 1
C1 400 100 500 200 2 1
PINS: 4
150 150 1 1
250 150 2 1
420 150 2 1
480 150 3 1
NAILS: 0
`

func writeBoard(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.bv")
	if err := os.WriteFile(path, []byte(tabular), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes otb with a config path that does not exist, so the defaults
// apply.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.toml")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands(t *testing.T) {
	path := writeBoard(t)
	tests := []struct {
		name string
		args []string
		want []string
		not  []string
	}{
		{"info", []string{"info", path}, []string{"brd2", "Parts", "2", "Ground nets", "1000 x 500"}, nil},
		{"nets", []string{"nets", path}, []string{"GND", "VCC", "ground", "C1 U1", "3 rows"}, nil},
		{"one net", []string{"nets", path, "VCC"}, []string{"Net VCC (signal)", "U1", "C1", "2 rows"}, []string{"GND"}},
		{"parts", []string{"parts", path}, []string{"U1", "C1", "smd", "100,100", "2 rows"}, nil},
		{"one part", []string{"parts", path, "C1"}, []string{"Part C1", "VCC", "NC", "2 rows"}, []string{"GND"}},
		{"pins", []string{"pins", path}, []string{"GND", "VCC", "4 rows"}, nil},
		{"pins where", []string{"pins", path, "--where", `net ~ "V*" and part = U1`}, []string{"VCC", "1 rows"}, []string{"GND"}},
		{"themes", []string{"themes"}, []string{"default", "light", "high-contrast", "built-in"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("run(%v) error = %v", tt.args, err)
			}
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.not {
				if strings.Contains(out, s) {
					t.Errorf("output contains %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestCommandErrors(t *testing.T) {
	path := writeBoard(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"info", filepath.Join(t.TempDir(), "nope.brd")}, "failed to load board"},
		{"unknown net", []string{"nets", path, "VDD"}, `no pins on net "VDD"`},
		{"unknown part", []string{"parts", path, "R9"}, `no part named "R9"`},
		{"bad where", []string{"pins", path, "--where", "volts > 3"}, "invalid --where"},
		{"render without output", []string{"render", path}, "output"},
		{"render unknown theme", []string{"render", path, "-o", filepath.Join(t.TempDir(), "x.png"), "--theme", "neon"}, `unknown theme "neon"`},
		{"render unknown net", []string{"render", path, "-o", filepath.Join(t.TempDir(), "x.png"), "--net", "VDD"}, `no pins on net "VDD"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("run(%v) error = %v, want %q", tt.args, err, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	path := writeBoard(t)
	png1 := filepath.Join(t.TempDir(), "board.png")
	out, err := run(t, "render", path, "-o", png1, "--width", "320", "--height", "200",
		"--theme", "light", "--rotate", "1", "--part", "U1")
	if err != nil {
		t.Fatalf("render error = %v", err)
	}
	if !strings.Contains(out, png1) {
		t.Errorf("output does not name the image:\n%s", out)
	}

	f, err := os.Open(png1)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 200 {
		t.Errorf("image size = %dx%d, want 320x200", b.Dx(), b.Dy())
	}
}

func TestExport(t *testing.T) {
	path := writeBoard(t)
	tests := []struct {
		name  string
		where string
		pins  int
	}{
		{"all", "", 4},
		{"filtered", "net = VCC", 2},
		{"no match", "net = VDD", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xlsx := filepath.Join(t.TempDir(), "board.xlsx")
			args := []string{"export", path, "-o", xlsx}
			if tt.where != "" {
				args = append(args, "--where", tt.where)
			}
			if _, err := run(t, args...); err != nil {
				t.Fatalf("export error = %v", err)
			}

			f, err := excelize.OpenFile(xlsx)
			if err != nil {
				t.Fatalf("OpenFile() error = %v", err)
			}
			defer f.Close()
			rows, err := f.GetRows(export.SheetPins)
			if err != nil {
				t.Fatal(err)
			}
			if got := len(rows) - 1; got != tt.pins {
				t.Errorf("pin rows = %d, want %d", got, tt.pins)
			}
		})
	}
}

func TestViewHelpNamesPanButton(t *testing.T) {
	long := newViewCmd().Long
	if !strings.Contains(long, "right drag pans") || !strings.Contains(long, "pan_button = 2") {
		t.Errorf("view help does not describe the default pan button:\n%s", long)
	}
}
