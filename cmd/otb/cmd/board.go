package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/export"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/loader"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/query"
)

// openBoard parses a board file with the command logger
func openBoard(ctx context.Context, path string) (*board.Board, error) {
	logger := loggerFromContext(ctx)
	p := newProgress(logger)
	b, err := loader.LoadFile(path, &loader.Options{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	p.done("board loaded", "path", path, "dialect", b.Dialect, "parts", len(b.ComponentNames()), "pins", len(b.Pins))
	return b, nil
}

// selectPins returns the pins matching where, or every pin when where is
// empty.
func selectPins(b *board.Board, where string) ([]int, error) {
	if where == "" {
		all := make([]int, len(b.Pins))
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	q, err := query.Compile(where)
	if err != nil {
		return nil, fmt.Errorf("invalid --where: %w", err)
	}
	return query.Filter(b, q), nil
}

func partName(b *board.Board, pin int) string {
	if p := b.PartOf(&b.Pins[pin]); p != nil {
		return p.Name
	}
	return ""
}

func pinRows(b *board.Board, pins []int) [][]string {
	rows := make([][]string, 0, len(pins))
	for _, i := range pins {
		pin := &b.Pins[i]
		rows = append(rows, []string{
			strconv.Itoa(i), partName(b, i), b.PinLabel(i), pin.Net,
			export.NetClass(pin.Net), pin.Side.String(),
			strconv.Itoa(pin.Pos.X), strconv.Itoa(pin.Pos.Y), strconv.Itoa(pin.Probe), pin.Diode,
		})
	}
	return rows
}

var pinHeaders = []string{"#", "Part", "Pin", "Net", "Class", "Side", "X", "Y", "Probe", "Diode"}

// pinClassCol is the Class column of pinRows
const pinClassCol = 4
