package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleGround  = lipgloss.NewStyle().Foreground(colorGreen)
	styleNC      = lipgloss.NewStyle().Foreground(colorYellow)
	styleSignal  = lipgloss.NewStyle()
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
	styleHeadRow = styleHeader.Padding(0, 1)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconArrow   = "→"
)

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, styleTitle.Render(title))
}

func printKeyValue(w io.Writer, key string, value any) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+styleValue.Render(fmt.Sprint(value)))
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printTable renders rows under headers. classCol, when not negative, is a
// column holding a net class that tints the row.
func printTable(w io.Writer, headers []string, rows [][]string, classCol int) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeadRow
			}
			if classCol < 0 || row < 0 || row >= len(rows) {
				return styleCell
			}
			return classStyle(rows[row][classCol]).Padding(0, 1)
		})
	fmt.Fprintln(w, t)
	fmt.Fprintln(w, styleDim.Render(fmt.Sprintf("%d rows", len(rows))))
}

func classStyle(class string) lipgloss.Style {
	switch class {
	case "ground":
		return styleGround
	case "nc":
		return styleNC
	}
	return styleSignal
}
