package viewport

import "fmt"

func (e *Embedder) handleEvent(ev Event) {
	switch ev := ev.(type) {
	case MouseMove:
		e.HandleMouseMove(ev.X, ev.Y)
	case MouseButton:
		if ev.Pressed {
			e.HandleMouseClick(ev.X, ev.Y, ev.Button)
		} else {
			e.HandleMouseRelease(ev.X, ev.Y, ev.Button)
		}
	case Scroll:
		e.HandleScroll(ev.X, ev.Y, ev.DX, ev.DY)
	case Key:
		if ev.Action != KeyRelease {
			e.HandleKeyPress(ev.Key, ev.Mods)
		}
	case Resize:
		e.Resize(ev.Width, ev.Height)
	case Close:
		e.log.Info("surface closed")
		e.Cleanup()
	}
}

// HandleMouseMove drags the view while the pan button is held and
// otherwise updates the hover tooltip.
func (e *Embedder) HandleMouseMove(x, y float64) {
	dx, dy := x-e.mouseX, y-e.mouseY
	e.mouseX, e.mouseY = x, y
	if e.panning {
		e.r.Pan(dx, dy)
		return
	}
	if e.r.Board() == nil {
		return
	}
	if i := e.r.GetHoveredPin(x, y); i >= 0 {
		e.overlay.SetTooltip(e.hoverText(i), x, y)
	} else {
		e.overlay.SetTooltip("", 0, 0)
	}
}

func (e *Embedder) hoverText(i int) string {
	pin := &e.r.Board().Pins[i]
	if pin.Net == "" {
		return e.pinName(i)
	}
	return fmt.Sprintf("%s  %s", e.pinName(i), pin.Net)
}

// HandleMouseClick handles a button press: the primary button selects the
// pin under the cursor, the pan button starts a drag.
func (e *Embedder) HandleMouseClick(x, y float64, button int) {
	e.mouseX, e.mouseY = x, y
	switch button {
	case e.opts.PanButton:
		e.panning = true
	case ButtonPrimary:
		e.click(x, y)
	}
}

// HandleMouseRelease ends a pan drag
func (e *Embedder) HandleMouseRelease(x, y float64, button int) {
	e.mouseX, e.mouseY = x, y
	if button == e.opts.PanButton {
		e.panning = false
	}
}

// click selects the pin under the cursor and reports it
func (e *Embedder) click(x, y float64) {
	if e.r.Board() == nil {
		return
	}
	if !e.r.HandleMouseClick(x, y) {
		e.overlay.SetPanel("")
		return
	}
	i := e.r.SelectedPin()
	name, net := e.pinName(i), e.r.Board().Pins[i].Net
	e.overlay.SetPanel(e.SelectedPinInfo())
	e.log.Debug("pin selected", "pin", name, "net", net)
	e.emitPinSelected(name, net)
}

// HandleScroll zooms about the cursor by 1 + dy*ScrollFactor. Horizontal
// scrolling is ignored.
func (e *Embedder) HandleScroll(x, y, dx, dy float64) {
	if dy == 0 {
		return
	}
	factor := 1 + dy*e.opts.ScrollFactor
	if factor <= 0 {
		return
	}
	e.r.Zoom(factor, x, y)
	e.emitZoom()
}

// HandleKeyPress runs the view shortcut bound to key. Chords with Ctrl or
// Super belong to the host and are ignored.
func (e *Embedder) HandleKeyPress(key string, mods Modifiers) {
	if mods&(ModCtrl|ModSuper) != 0 {
		return
	}
	switch key {
	case "r", "R", "0", "Home":
		e.ResetView()
	case "=", "+":
		e.ZoomIn()
	case "-":
		e.ZoomOut()
	case "[":
		e.RotateLeft()
	case "]":
		e.RotateRight()
	case "h", "H":
		e.FlipHorizontal()
	case "v", "V":
		e.FlipVertical()
	case "Escape":
		e.ClearSelection()
		e.ClearHighlights()
	}
}
