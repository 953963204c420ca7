// Package export writes a board's parts, pins, nets and test points to an
// Excel workbook.
package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/renderer"
)

// Sheet names, in workbook order
const (
	SheetParts = "Parts"
	SheetPins  = "Pins"
	SheetNets  = "Nets"
	SheetNails = "Nails"
)

// Net classes written to the Nets sheet
const (
	ClassGround = "ground"
	ClassNC     = "nc"
	ClassSignal = "signal"
)

type sheet struct {
	name   string
	header []string
	widths []float64
	rows   [][]any
}

// Options selects what goes into the workbook
type Options struct {
	// Pins limits the Pins sheet to these indices, in this order. Nil
	// exports every pin.
	Pins []int
}

// NetClass classifies a net as ground, not connected or signal
func NetClass(net string) string {
	switch {
	case renderer.IsNCNet(net):
		return ClassNC
	case renderer.IsGroundNet(net):
		return ClassGround
	}
	return ClassSignal
}

// Workbook builds the workbook in memory. The caller closes it.
func Workbook(b *board.Board, opts Options) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	sheets := []sheet{partsSheet(b), pinsSheet(b, opts.Pins), netsSheet(b), nailsSheet(b)}
	for i, s := range sheets {
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), s.name)
		} else {
			_, err = f.NewSheet(s.name)
		}
		if err == nil {
			err = writeSheet(f, s, bold)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook writes the workbook as .xlsx to w
func WriteWorkbook(w io.Writer, b *board.Board, opts Options) error {
	f, err := Workbook(b, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveWorkbook writes the workbook to path
func SaveWorkbook(path string, b *board.Board, opts Options) error {
	f, err := Workbook(b, opts)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	header := make([]any, len(s.header))
	for i, h := range s.header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(s.header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.name, "A1", last+"1", headerStyle); err != nil {
		return err
	}
	for i, w := range s.widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(s.name, col, col, w); err != nil {
			return err
		}
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(s.name, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}
	if len(s.rows) == 0 {
		return nil
	}
	return f.AutoFilter(s.name, fmt.Sprintf("A1:%s%d", last, len(s.rows)+1), nil)
}

func partsSheet(b *board.Board) sheet {
	s := sheet{
		name:   SheetParts,
		header: []string{"Name", "Side", "Type", "X1", "Y1", "X2", "Y2", "Pins"},
		widths: []float64{16, 8, 14, 10, 10, 10, 10, 8},
	}
	for i := range b.Parts {
		p := &b.Parts[i]
		if p.Probe {
			continue
		}
		s.rows = append(s.rows, []any{
			p.Name, p.Side.String(), p.Type.String(),
			p.P1.X, p.P1.Y, p.P2.X, p.P2.Y, len(b.PinsOfPart(i + 1)),
		})
	}
	return s
}

func pinsSheet(b *board.Board, subset []int) sheet {
	s := sheet{
		name:   SheetPins,
		header: []string{"Index", "Part", "Pin", "Net", "X", "Y", "Side", "Probe", "Diode"},
		widths: []float64{8, 16, 8, 24, 10, 10, 8, 8, 10},
	}
	if subset == nil {
		subset = make([]int, len(b.Pins))
		for i := range subset {
			subset[i] = i
		}
	}
	for _, i := range subset {
		if i < 0 || i >= len(b.Pins) {
			continue
		}
		pin := &b.Pins[i]
		part := ""
		if p := b.PartOf(pin); p != nil {
			part = p.Name
		}
		s.rows = append(s.rows, []any{
			i, part, b.PinLabel(i), pin.Net, pin.Pos.X, pin.Pos.Y, pin.Side.String(), pin.Probe, pin.Diode,
		})
	}
	return s
}

func netsSheet(b *board.Board) sheet {
	s := sheet{
		name:   SheetNets,
		header: []string{"Net", "Class", "Pins", "Parts"},
		widths: []float64{24, 8, 8, 48},
	}
	for _, net := range b.NetNames() {
		pins := b.PinsOnNet(net)
		seen := make(map[string]bool)
		var parts []string
		for _, i := range pins {
			p := b.PartOf(&b.Pins[i])
			if p == nil || p.Probe || seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			parts = append(parts, p.Name)
		}
		sort.Strings(parts)
		s.rows = append(s.rows, []any{net, NetClass(net), len(pins), strings.Join(parts, ", ")})
	}
	return s
}

func nailsSheet(b *board.Board) sheet {
	s := sheet{
		name:   SheetNails,
		header: []string{"Probe", "X", "Y", "Side", "Net"},
		widths: []float64{8, 10, 10, 8, 24},
	}
	for _, n := range b.Nails {
		s.rows = append(s.rows, []any{n.Probe, n.Pos.X, n.Pos.Y, n.Side.String(), n.Net})
	}
	return s
}
