package renderer

import "math"

// Labels appear only once there is room for them on screen
const (
	minPartNamePixels = 24.0
	minPinLabelPixels = 6.0
	minNetLabelPixels = 12.0

	maxTextSize = 14.0
	minTextSize = 6.0
)

func textSize(s float64) float64 {
	return math.Max(minTextSize, math.Min(maxTextSize, s))
}

func (r *Renderer) drawText(dl *DrawList) {
	s := &r.settings
	if s.ShowPartNames {
		r.drawPartNames(dl)
	}
	if s.ShowPinLabels || s.ShowNets || s.ShowDiodeReadings {
		r.drawPinText(dl)
	}
}

func (r *Renderer) drawPartNames(dl *DrawList) {
	s := &r.settings
	for i := range r.board.Parts {
		if !r.partVisible(i) {
			continue
		}
		x0, y0, x1, y1 := r.screenBox(r.board.Geometry.PartBoxes[i])
		if x1-x0 < minPartNamePixels || !r.boxVisible(x0, y0, x1, y1) {
			continue
		}
		dl.Add(Command{
			Kind: KindText, Pass: PassTextOverlay, Color: s.PartNameColor,
			X0: (x0 + x1) / 2, Y0: (y0 + y1) / 2,
			Text: r.board.Parts[i].Name, Size: textSize((y1 - y0) * 0.3),
			Background: s.PartNameBackground,
		})
	}
}

func (r *Renderer) drawPinText(dl *DrawList) {
	s := &r.settings
	for i := range r.board.Pins {
		pin := &r.board.Pins[i]
		if !r.layers.SideVisible(pin.Side) {
			continue
		}
		sx, sy := r.cam.WorldToScreen(r.pins[i].center)
		rad := r.pins[i].radius * r.cam.Zoom
		if rad < minPinLabelPixels || !r.IsElementVisible(sx, sy, rad) {
			continue
		}

		if s.ShowPinLabels {
			dl.Add(Command{
				Kind: KindText, Pass: PassTextOverlay, Color: s.PinTextColor,
				X0: sx, Y0: sy, Text: r.board.PinLabel(i), Size: textSize(rad * 0.8),
			})
		}
		if (s.ShowNets || s.ShowPinLabels) && rad >= minNetLabelPixels && !IsNCNet(pin.Net) {
			dl.Add(Command{
				Kind: KindText, Pass: PassTextOverlay, Color: s.NetTextColor,
				X0: sx, Y0: sy + rad*0.5, Text: pin.Net, Size: textSize(rad * 0.4),
			})
		}
		if s.ShowDiodeReadings && pin.Diode != "" {
			dl.Add(Command{
				Kind: KindText, Pass: PassTextOverlay, Color: s.DiodeTextColor,
				X0: sx, Y0: sy - rad*0.6, Text: pin.Diode, Size: textSize(rad * 0.4),
			})
		}
	}
}
