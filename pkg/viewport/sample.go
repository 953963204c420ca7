package viewport

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/board"

// SampleDialect marks the built-in demonstration board
const SampleDialect = "sample"

// SampleBoard returns a small two-part board shown while nothing is loaded
func SampleBoard() *board.Board {
	b := board.New(SampleDialect, "")
	b.Format = []board.Point{{X: 0, Y: 0}, {X: 10000, Y: 0}, {X: 10000, Y: 7000}, {X: 0, Y: 7000}}

	u1 := []string{"VCC", "GND", "LCD_VSN", "NET1816", "VPH_PWR", "SPMI_CLK", "SPMI_DATA", board.Unconnected}
	u2 := []string{"NET1807", "NET1789", "VREG_L5_1P8", "GND", "LCD_VSN", "VPH_PWR"}

	b.Parts = []board.Part{
		{Name: "U1", Side: board.SideTop, Type: board.SMD, P1: board.Point{X: 2000, Y: 2000}, P2: board.Point{X: 4000, Y: 3000}, EndOfPins: len(u1)},
		{Name: "U2", Side: board.SideTop, Type: board.SMD, P1: board.Point{X: 6000, Y: 4000}, P2: board.Point{X: 8000, Y: 5000}, EndOfPins: len(u1) + len(u2)},
	}
	for i, net := range u1 {
		b.Pins = append(b.Pins, board.Pin{
			Pos: board.Point{X: 2000 + i*250, Y: 2000}, Part: 1, Side: board.SideTop, Net: net, Radius: 50,
		})
	}
	for i, net := range u2 {
		b.Pins = append(b.Pins, board.Pin{
			Pos: board.Point{X: 6000 + i*300, Y: 4000}, Part: 2, Side: board.SideTop, Net: net, Radius: 60,
		})
	}
	b.AttachNails()
	return b
}
