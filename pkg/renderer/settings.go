package renderer

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/board"

// Settings controls what each pass draws and in which colors
type Settings struct {
	ShowParts         bool
	ShowPins          bool
	ShowOutline       bool
	ShowPartOutlines  bool
	ShowNets          bool
	ShowDiodeReadings bool
	ShowRatsnest      bool
	ShowPartNames     bool
	ShowPinLabels     bool

	// OverridePinColors draws every plain pin in PinColor instead of the
	// per-side geometry color.
	OverridePinColors bool

	PartAlpha        float32
	PinAlpha         float32
	OutlineAlpha     float32
	PartOutlineAlpha float32

	PartColor        board.Color
	PinColor         board.Color
	OutlineColor     board.Color
	PartOutlineColor board.Color
	SameNetColor     board.Color
	NCColor          board.Color
	GroundColor      board.Color
	RatsnestColor    board.Color
	BackgroundColor  board.Color

	PartHighlightBorder board.Color
	PartHighlightFill   board.Color

	PinTextColor       board.Color
	NetTextColor       board.Color
	DiodeTextColor     board.Color
	PartNameColor      board.Color
	PartNameBackground board.Color
}

// DefaultSettings returns the dark default look
func DefaultSettings() Settings {
	return Settings{
		ShowParts:         true,
		ShowPins:          true,
		ShowOutline:       true,
		ShowPartOutlines:  true,
		ShowDiodeReadings: true,
		ShowPartNames:     true,
		ShowPinLabels:     true,

		PartAlpha:        1,
		PinAlpha:         1,
		OutlineAlpha:     1,
		PartOutlineAlpha: 1,

		PartColor:        board.RGB(0.2, 0.8, 0.2),
		PinColor:         board.RGB(1, 1, 0),
		OutlineColor:     board.RGB(1, 1, 1),
		PartOutlineColor: board.RGB(1, 1, 1),
		SameNetColor:     board.RGB(1, 1, 0),
		NCColor:          board.RGB(0, 0.3, 0.3),
		GroundColor:      board.RGB(0.376, 0.376, 0.376),
		RatsnestColor:    board.RGB(0, 1, 1),
		BackgroundColor:  board.RGB(0, 0, 0),

		PartHighlightBorder: board.RGB(1, 1, 0),
		PartHighlightFill:   board.RGB(1, 1, 0),

		PinTextColor:       board.RGB(0.5, 0.5, 0.5),
		NetTextColor:       board.RGB(0.5, 0.5, 0.5),
		DiodeTextColor:     board.RGB(0, 1, 1),
		PartNameColor:      board.RGB(1, 1, 1),
		PartNameBackground: board.RGB(0, 0, 0).WithAlpha(0.5),
	}
}
