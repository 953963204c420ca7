// Package gioplatform runs viewport surfaces as Gio windows.
//
// Each surface owns an app.Window served by its own goroutine. Input is
// queued by that goroutine and drained by PollEvents; Present hands the
// newest draw list over and invalidates the window. The process must call
// app.Main on the main goroutine for windows to appear.
package gioplatform

import (
	"errors"
	"image"
	"os"
	"runtime"
	"sync"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/unit"
	"github.com/charmbracelet/log"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/renderer"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/renderer/giodraw"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/viewport"
)

// ErrNoDisplay is returned by Init when no display server is reachable
var ErrNoDisplay = errors.New("no display available")

// scrollRange accepts any wheel distance
const scrollRange = 1 << 20

// Platform creates Gio windows
type Platform struct {
	log *log.Logger
}

// New returns a Gio platform. A nil logger uses log.Default().
func New(logger *log.Logger) *Platform {
	if logger == nil {
		logger = log.Default()
	}
	return &Platform{log: logger}
}

func (p *Platform) Name() string { return "gio" }

// Init checks that a display is reachable on platforms that need one
func (p *Platform) Init() error {
	if runtime.GOOS == "linux" || runtime.GOOS == "freebsd" || runtime.GOOS == "openbsd" {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			return ErrNoDisplay
		}
	}
	return nil
}

func (p *Platform) Terminate() {}

// NewSurface opens a top-level window. Gio cannot adopt foreign windows,
// so a parent handle is ignored.
func (p *Platform) NewSurface(cfg viewport.SurfaceConfig) (viewport.Surface, error) {
	if cfg.Parent != 0 {
		p.log.Warn("native parent windows are not supported, opening a top-level window", "parent", cfg.Parent)
	}
	s := &surface{
		log:    p.log,
		window: new(app.Window),
		size:   image.Pt(cfg.Width, cfg.Height),
	}
	s.window.Option(app.Title(cfg.Title), app.Size(unit.Dp(cfg.Width), unit.Dp(cfg.Height)))
	go s.loop()
	return s, nil
}

type surface struct {
	log    *log.Logger
	window *app.Window
	ops    op.Ops

	// tag receives pointer and key events
	tag     bool
	buttons pointer.Buttons

	mu     sync.Mutex
	queue  []viewport.Event
	frame  *renderer.DrawList
	size   image.Point
	closed bool
}

func (s *surface) push(ev viewport.Event) {
	s.mu.Lock()
	s.queue = append(s.queue, ev)
	s.mu.Unlock()
}

func (s *surface) loop() {
	for {
		switch ev := s.window.Event().(type) {
		case app.DestroyEvent:
			if ev.Err != nil {
				s.log.Error("window destroyed", "err", ev.Err)
			}
			s.mu.Lock()
			s.closed = true
			s.mu.Unlock()
			s.push(viewport.Close{})
			return
		case app.FrameEvent:
			gtx := app.NewContext(&s.ops, ev)
			s.layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

func (s *surface) layout(gtx layout.Context) {
	s.mu.Lock()
	if gtx.Constraints.Max != s.size {
		s.size = gtx.Constraints.Max
		s.queue = append(s.queue, viewport.Resize{Width: s.size.X, Height: s.size.Y})
	}
	dl := s.frame
	s.mu.Unlock()

	s.input(gtx)

	area := clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops)
	event.Op(gtx.Ops, &s.tag)
	if !gtx.Focused(&s.tag) {
		gtx.Execute(key.FocusCmd{Tag: &s.tag})
	}
	if dl != nil {
		giodraw.Draw(gtx, dl)
	}
	area.Pop()
}

func (s *surface) input(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(
			pointer.Filter{
				Target:  &s.tag,
				Kinds:   pointer.Move | pointer.Press | pointer.Release | pointer.Drag | pointer.Scroll,
				ScrollY: pointer.ScrollRange{Min: -scrollRange, Max: scrollRange},
			},
			key.Filter{Focus: &s.tag},
		)
		if !ok {
			break
		}
		switch ev := ev.(type) {
		case pointer.Event:
			s.pointer(ev)
		case key.Event:
			s.push(viewport.Key{Key: keyName(ev.Name), Action: keyAction(ev.State), Mods: mods(ev.Modifiers)})
		}
	}
}

func (s *surface) pointer(ev pointer.Event) {
	x, y := float64(ev.Position.X), float64(ev.Position.Y)
	switch ev.Kind {
	case pointer.Move, pointer.Drag:
		s.push(viewport.MouseMove{X: x, Y: y})
	case pointer.Press:
		pressed := ev.Buttons &^ s.buttons
		s.buttons = ev.Buttons
		s.pushButtons(pressed, true, x, y)
	case pointer.Release:
		released := s.buttons &^ ev.Buttons
		if released == 0 {
			released = ev.Buttons
		}
		s.buttons &^= released
		s.pushButtons(released, false, x, y)
	case pointer.Scroll:
		// Gio scrolls down for positive Y; wheel-up zooms in
		var dy float64
		switch {
		case ev.Scroll.Y < 0:
			dy = 1
		case ev.Scroll.Y > 0:
			dy = -1
		}
		s.push(viewport.Scroll{X: x, Y: y, DY: dy})
	}
}

func (s *surface) pushButtons(b pointer.Buttons, pressed bool, x, y float64) {
	for _, button := range viewportButtons(b) {
		s.push(viewport.MouseButton{Button: button, Pressed: pressed, X: x, Y: y})
	}
}

// viewportButtons maps Gio buttons to viewport buttons: left, right and
// middle become 0, 1 and 2.
func viewportButtons(b pointer.Buttons) []int {
	var out []int
	for _, m := range []struct {
		gio    pointer.Buttons
		button int
	}{
		{pointer.ButtonPrimary, viewport.ButtonPrimary},
		{pointer.ButtonSecondary, viewport.ButtonSecondary},
		{pointer.ButtonTertiary, viewport.ButtonMiddle},
	} {
		if b.Contain(m.gio) {
			out = append(out, m.button)
		}
	}
	return out
}

func keyName(n key.Name) string {
	switch n {
	case key.NameEscape:
		return "Escape"
	case key.NameHome:
		return "Home"
	}
	return string(n)
}

func keyAction(st key.State) viewport.KeyAction {
	if st == key.Release {
		return viewport.KeyRelease
	}
	return viewport.KeyPress
}

func mods(m key.Modifiers) viewport.Modifiers {
	var out viewport.Modifiers
	if m.Contain(key.ModShift) {
		out |= viewport.ModShift
	}
	if m.Contain(key.ModCtrl) {
		out |= viewport.ModCtrl
	}
	if m.Contain(key.ModAlt) {
		out |= viewport.ModAlt
	}
	if m.Contain(key.ModSuper) {
		out |= viewport.ModSuper
	}
	return out
}

// Resize asks the window for a new size. Sizes the window itself reported
// are not echoed back.
func (s *surface) Resize(w, h int) {
	s.mu.Lock()
	same := s.size == image.Pt(w, h)
	s.mu.Unlock()
	if !same {
		s.window.Option(app.Size(unit.Dp(w), unit.Dp(h)))
	}
}

func (s *surface) SetVisible(visible bool) {
	if visible {
		s.window.Perform(system.ActionRaise)
	} else {
		s.window.Perform(system.ActionMinimize)
	}
}

func (s *surface) PollEvents() []viewport.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	evs := s.queue
	s.queue = nil
	return evs
}

// Present shows dl on the next window frame
func (s *surface) Present(dl *renderer.DrawList) error {
	s.mu.Lock()
	closed := s.closed
	s.frame = dl
	s.mu.Unlock()
	if !closed {
		s.window.Invalidate()
	}
	return nil
}

func (s *surface) Close() {
	s.mu.Lock()
	closed := s.closed
	s.closed = true
	s.mu.Unlock()
	if !closed {
		s.window.Perform(system.ActionClose)
	}
}
