// Package viewport embeds an interactive board view into a host window.
//
// An Embedder owns one renderer, one native surface and one overlay. All
// embedders of a process share a Subsystem, which initializes the
// platform once and serializes frames. The host drives everything by
// calling Render periodically; events, drawing and callbacks all happen
// inside that call.
package viewport

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/board"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/loader"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/query"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/renderer"
)

// State is the lifecycle state of an embedder
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateLoaded
	StateEmpty
	StateCleaning
	StateDestroyed
)

func (s State) String() string {
	return [...]string{"uninitialized", "initializing", "ready", "loaded", "empty", "cleaning", "destroyed"}[s]
}

const (
	DefaultZoomStep     = 1.2
	DefaultZoomOutStep  = 0.8
	DefaultScrollFactor = 0.1
)

// Options configures an embedder. Zero values select defaults.
type Options struct {
	Logger *log.Logger

	ZoomStep     float64
	ZoomOutStep  float64
	ScrollFactor float64
	PanButton    int
	FitMargin    float64
	SideOffset   board.FPoint

	// SampleBoard shows a demonstration board while nothing is loaded
	SampleBoard bool
}

func (o *Options) defaults() {
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.ZoomStep <= 0 {
		o.ZoomStep = DefaultZoomStep
	}
	if o.ZoomOutStep <= 0 {
		o.ZoomOutStep = DefaultZoomOutStep
	}
	if o.ScrollFactor <= 0 {
		o.ScrollFactor = DefaultScrollFactor
	}
	if o.PanButton == ButtonPrimary {
		o.PanButton = ButtonPan
	}
	if o.FitMargin <= 0 || o.FitMargin > 1 {
		o.FitMargin = renderer.DefaultFitMargin
	}
}

// Callbacks are invoked from inside the embedder's public calls. Hosts
// marshal them onto their own UI thread if needed.
type Callbacks struct {
	OnError       func(message string)
	OnStatus      func(message string)
	OnPinSelected func(pin, net string)
	OnZoomChanged func(zoom float64)
}

// pending is a board or load error handed over from another goroutine
type pending struct {
	board *board.Board
	path  string
	err   error
}

// Embedder is one interactive board view
type Embedder struct {
	id   uuid.UUID
	sub  *Subsystem
	opts Options
	log  *log.Logger
	cb   Callbacks

	state    State
	fallback bool
	acquired bool
	surface  Surface
	overlay  *Overlay
	r        *renderer.Renderer

	path          string
	loaded        bool
	width, height int
	visible       bool

	mouseX, mouseY float64
	panning        bool

	mu      sync.Mutex
	handoff *pending

	// callbacks raised during a frame run after the frame lock is released
	inFrame bool
	queued  []func()
}

// New creates an uninitialized embedder on a shared subsystem
func New(sub *Subsystem, opts Options) *Embedder {
	opts.defaults()
	id := uuid.New()
	r := renderer.New()
	r.FitMargin = opts.FitMargin
	return &Embedder{
		id:      id,
		sub:     sub,
		opts:    opts,
		log:     opts.Logger.With("viewer", id.String()[:8]),
		overlay: newOverlay(id),
		r:       r,
		visible: true,
	}
}

func (e *Embedder) ID() uuid.UUID                { return e.id }
func (e *Embedder) State() State                 { return e.state }
func (e *Embedder) IsFallback() bool             { return e.fallback }
func (e *Embedder) Overlay() *Overlay            { return e.overlay }
func (e *Embedder) Renderer() *renderer.Renderer { return e.r }

func (e *Embedder) SetOnError(f func(string))                { e.cb.OnError = f }
func (e *Embedder) SetOnStatus(f func(string))               { e.cb.OnStatus = f }
func (e *Embedder) SetOnPinSelected(f func(pin, net string)) { e.cb.OnPinSelected = f }
func (e *Embedder) SetOnZoomChanged(f func(float64))         { e.cb.OnZoomChanged = f }

func (e *Embedder) emitError(msg string) {
	if f := e.cb.OnError; f != nil {
		e.notify(func() { f(msg) })
	}
}

func (e *Embedder) emitStatus(msg string) {
	if f := e.cb.OnStatus; f != nil {
		e.notify(func() { f(msg) })
	}
}

func (e *Embedder) emitZoom() {
	if f := e.cb.OnZoomChanged; f != nil {
		zoom := e.r.Camera().Zoom
		e.notify(func() { f(zoom) })
	}
}

func (e *Embedder) emitPinSelected(pin, net string) {
	if f := e.cb.OnPinSelected; f != nil {
		e.notify(func() { f(pin, net) })
	}
}

// notify runs fn now, or after the current frame when called from inside
// one, so callbacks may render other embedders on the same subsystem.
func (e *Embedder) notify(fn func()) {
	if e.inFrame {
		e.queued = append(e.queued, fn)
		return
	}
	fn()
}

func (e *Embedder) flush() {
	queued := e.queued
	e.queued = nil
	for _, fn := range queued {
		fn()
	}
}

// guard turns a panic in a public call into an OnError callback and a
// false result.
func (e *Embedder) guard(op string, ok *bool) {
	if rec := recover(); rec != nil {
		e.log.Error("recovered panic", "op", op, "panic", rec)
		if ok != nil {
			*ok = false
		}
		e.emitError(fmt.Sprintf("%s: %v", op, rec))
	}
}

func (e *Embedder) initialized() bool {
	switch e.state {
	case StateReady, StateLoaded, StateEmpty:
		return true
	}
	return false
}

// Initialize acquires the subsystem and creates the surface. When either
// fails the embedder enters fallback mode: it stays usable for loading and
// queries, and rendering becomes a no-op. A second call without Cleanup
// does nothing and reports success.
func (e *Embedder) Initialize(parent uintptr, width, height int) (ok bool) {
	defer e.guard("initialize", &ok)

	if e.initialized() || e.state == StateInitializing {
		e.log.Warn("already initialized")
		return true
	}
	e.state = StateInitializing
	e.width, e.height = width, height
	e.fallback = false

	if err := e.sub.Acquire(); err != nil {
		e.enterFallback(err)
	} else {
		e.acquired = true
		surf, err := e.sub.Platform().NewSurface(SurfaceConfig{
			Parent: parent, Width: width, Height: height, Title: "OpenTraceBoard",
		})
		if err != nil {
			e.enterFallback(fmt.Errorf("failed to create surface: %w", err))
		} else {
			e.surface = surf
			e.surface.SetVisible(e.visible)
		}
	}

	e.r.SetViewport(width, height)
	e.r.SetSideOffset(e.opts.SideOffset)
	if e.opts.SampleBoard {
		e.showBoard(SampleBoard())
	}
	e.state = StateReady
	e.log.Info("viewer initialized", "platform", e.sub.Platform().Name(),
		"width", width, "height", height, "fallback", e.fallback)
	return true
}

func (e *Embedder) enterFallback(err error) {
	e.fallback = true
	e.log.Warn("rendering disabled, running in fallback mode", "err", err)
	e.emitError(err.Error())
}

// Cleanup closes the surface and releases the subsystem. The embedder may
// be initialized again afterwards.
func (e *Embedder) Cleanup() {
	defer e.guard("cleanup", nil)

	if e.state == StateUninitialized || e.state == StateDestroyed || e.state == StateCleaning {
		return
	}
	e.state = StateCleaning
	if e.surface != nil {
		e.surface.Close()
		e.surface = nil
	}
	if e.acquired {
		e.sub.Release()
		e.acquired = false
	}
	e.r.SetBoard(nil)
	e.path, e.loaded = "", false
	e.panning = false
	e.overlay.SetTooltip("", 0, 0)
	e.overlay.SetPanel("")
	e.state = StateDestroyed
	e.log.Info("viewer cleaned up")
}

// LoadBoard parses a board file and shows it. On failure the previous
// board stays on screen.
func (e *Embedder) LoadBoard(path string) (ok bool) {
	defer e.guard("load board", &ok)

	if !e.initialized() {
		e.emitError("viewer is not initialized")
		return false
	}
	e.log.Info("loading board", "path", path)
	start := time.Now()
	b, err := loader.LoadFile(path, &loader.Options{Logger: e.log})
	if err != nil {
		e.log.Error("failed to load board", "path", path, "err", err)
		e.emitError(err.Error())
		return false
	}
	e.setBoard(b, path)
	e.log.Info("board loaded", "path", path, "dialect", b.Dialect,
		"parts", len(b.Parts), "pins", len(b.Pins), "took", time.Since(start))
	return true
}

// LoadBoardData is LoadBoard for a buffer already in memory
func (e *Embedder) LoadBoardData(name string, buf []byte) (ok bool) {
	defer e.guard("load board", &ok)

	if !e.initialized() {
		e.emitError("viewer is not initialized")
		return false
	}
	b, err := loader.Load(buf, &loader.Options{Logger: e.log})
	if err != nil {
		e.log.Error("failed to load board", "path", name, "err", err)
		e.emitError(fmt.Sprintf("%s: %v", name, err))
		return false
	}
	e.setBoard(b, name)
	e.log.Info("board loaded", "path", name, "dialect", b.Dialect, "parts", len(b.Parts), "pins", len(b.Pins))
	return true
}

// SetBoard hands over a board parsed elsewhere. It is safe to call from
// any goroutine; the board is shown on the next Render.
func (e *Embedder) SetBoard(b *board.Board, path string) {
	e.mu.Lock()
	e.handoff = &pending{board: b, path: path}
	e.mu.Unlock()
}

// LoadBoardAsync parses path on another goroutine and hands the result
// over like SetBoard. Errors are reported through OnError on the next
// Render. Cancelling ctx drops the result.
func (e *Embedder) LoadBoardAsync(ctx context.Context, path string) {
	e.log.Info("loading board", "path", path, "async", true)
	results := loader.LoadAsync(ctx, path, &loader.Options{Logger: e.log})
	go func() {
		res, ok := <-results
		if !ok {
			return
		}
		e.mu.Lock()
		e.handoff = &pending{board: res.Board, path: res.Path, err: res.Err}
		e.mu.Unlock()
	}()
}

func (e *Embedder) takeHandoff() {
	e.mu.Lock()
	p := e.handoff
	e.handoff = nil
	e.mu.Unlock()
	if p == nil {
		return
	}
	if p.err != nil {
		e.log.Error("failed to load board", "path", p.path, "err", p.err)
		e.emitError(p.err.Error())
		return
	}
	if p.board != nil {
		e.setBoard(p.board, p.path)
	}
}

func (e *Embedder) setBoard(b *board.Board, path string) {
	e.showBoard(b)
	e.path, e.loaded = path, true
	e.state = StateLoaded
	e.emitStatus(fmt.Sprintf("Loaded %s: %d parts, %d pins", filepath.Base(path),
		len(b.ComponentNames()), len(b.Pins)))
}

func (e *Embedder) showBoard(b *board.Board) {
	e.r.SetBoard(b)
	e.r.ZoomToFit(e.width, e.height)
	e.overlay.SetTooltip("", 0, 0)
	e.overlay.SetPanel("")
	e.emitZoom()
}

// CloseBoard removes the current board, falling back to the sample board
// when enabled.
func (e *Embedder) CloseBoard() {
	if !e.initialized() {
		return
	}
	if e.opts.SampleBoard {
		e.showBoard(SampleBoard())
	} else {
		e.r.SetBoard(nil)
		e.overlay.SetTooltip("", 0, 0)
		e.overlay.SetPanel("")
	}
	e.path, e.loaded = "", false
	e.state = StateEmpty
	e.log.Info("board closed")
}

// Board returns the loaded board, or nil. The sample board is not
// reported.
func (e *Embedder) Board() *board.Board {
	if !e.loaded {
		return nil
	}
	return e.r.Board()
}

func (e *Embedder) Path() string { return e.path }

// Render runs one frame: pending handoffs, input, drawing and present. In
// fallback mode it does nothing and reports success.
func (e *Embedder) Render() (ok bool) {
	defer e.guard("render", &ok)

	if !e.initialized() {
		return false
	}
	e.takeHandoff()
	if e.fallback || e.surface == nil {
		return true
	}

	ok = e.frame()
	e.flush()
	return ok
}

// frame holds the subsystem frame lock while it handles input and draws
func (e *Embedder) frame() bool {
	release := e.sub.Bind(e.overlay)
	e.inFrame = true
	defer func() {
		e.inFrame = false
		release()
	}()

	for _, ev := range e.surface.PollEvents() {
		e.handleEvent(ev)
		if !e.initialized() {
			return true
		}
	}
	if !e.visible {
		return true
	}

	dl := e.r.Render(e.width, e.height)
	e.sub.Current().Draw(dl, e.r.Settings())
	if err := e.surface.Present(dl); err != nil {
		e.log.Error("failed to present frame", "err", err)
		e.emitError(fmt.Sprintf("failed to present frame: %v", err))
		return false
	}
	return true
}

// Resize updates the viewport and keeps the board horizontally in view
// without re-fitting.
func (e *Embedder) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.width, e.height = width, height
	if e.surface != nil && !e.fallback {
		e.surface.Resize(width, height)
	}
	e.r.ClampHorizontal(width, height)
}

func (e *Embedder) Size() (int, int) { return e.width, e.height }

func (e *Embedder) Show() { e.SetVisible(true) }
func (e *Embedder) Hide() { e.SetVisible(false) }

func (e *Embedder) SetVisible(visible bool) {
	e.visible = visible
	if e.surface != nil && !e.fallback {
		e.surface.SetVisible(visible)
	}
}

func (e *Embedder) IsVisible() bool { return e.visible }

// Camera operations

func (e *Embedder) Pan(dx, dy float64) {
	e.r.Pan(dx, dy)
}

// Zoom scales the view about the viewport centre
func (e *Embedder) Zoom(factor float64) {
	e.r.Zoom(factor, float64(e.width)/2, float64(e.height)/2)
	e.emitZoom()
}

func (e *Embedder) ZoomIn()  { e.Zoom(e.opts.ZoomStep) }
func (e *Embedder) ZoomOut() { e.Zoom(e.opts.ZoomOutStep) }

func (e *Embedder) RotateLeft() {
	e.r.RotateLeft()
	e.emitZoom()
}

func (e *Embedder) RotateRight() {
	e.r.RotateRight()
	e.emitZoom()
}

func (e *Embedder) FlipHorizontal() {
	e.r.ToggleFlipHorizontal()
	e.emitZoom()
}

func (e *Embedder) FlipVertical() {
	e.r.ToggleFlipVertical()
	e.emitZoom()
}

func (e *Embedder) IsFlipHorizontal() bool { return e.r.Camera().FlipH }
func (e *Embedder) IsFlipVertical() bool   { return e.r.Camera().FlipV }
func (e *Embedder) RotationSteps() int     { return e.r.Camera().RotationSteps }

// ResetView fits the board in its current orientation
func (e *Embedder) ResetView() {
	e.r.ZoomToFit(e.width, e.height)
	e.emitZoom()
}

func (e *Embedder) ZoomLevel() float64 { return e.r.Camera().Zoom }

func (e *Embedder) SetZoomLevel(zoom float64) {
	cam := e.r.Camera()
	e.r.SetCamera(cam.X, cam.Y, zoom)
	e.emitZoom()
}

func (e *Embedder) CameraPosition() (x, y float64) {
	cam := e.r.Camera()
	return cam.X, cam.Y
}

func (e *Embedder) SetCameraPosition(x, y float64) {
	e.r.SetCamera(x, y, e.r.Camera().Zoom)
}

// Selection and lookup

func (e *Embedder) SelectedPin() int { return e.r.SelectedPin() }

func (e *Embedder) ClearSelection() {
	e.r.ClearSelection()
	e.overlay.SetPanel("")
}

// SelectedPinInfo describes the selected pin as "Pin: <name> Net: <net>",
// or "" when nothing is selected.
func (e *Embedder) SelectedPinInfo() string {
	i := e.r.SelectedPin()
	if i < 0 {
		return ""
	}
	return fmt.Sprintf("Pin: %s Net: %s", e.pinName(i), e.r.Board().Pins[i].Net)
}

// pinName qualifies a pin label with its part name
func (e *Embedder) pinName(i int) string {
	b := e.r.Board()
	label := b.PinLabel(i)
	if part := b.PartOf(&b.Pins[i]); part != nil && !part.Probe {
		return part.Name + "." + label
	}
	return label
}

func (e *Embedder) NetNames() []string {
	if b := e.Board(); b != nil {
		return b.NetNames()
	}
	return nil
}

func (e *Embedder) ComponentNames() []string {
	if b := e.Board(); b != nil {
		return b.ComponentNames()
	}
	return nil
}

func (e *Embedder) ZoomToNet(net string) bool {
	if !e.r.ZoomToNet(net) {
		return false
	}
	e.emitZoom()
	return true
}

func (e *Embedder) ZoomToComponent(name string) bool {
	if !e.r.ZoomToPart(name) {
		return false
	}
	e.emitZoom()
	return true
}

func (e *Embedder) HighlightNet(net string) {
	e.r.SetHighlightedNet(net)
}

// HighlightComponent highlights a part by name, reporting false when the
// board has no such part.
func (e *Embedder) HighlightComponent(name string) bool {
	b := e.r.Board()
	if b == nil {
		return false
	}
	idx := b.PartIndex(name)
	if idx == 0 {
		return false
	}
	e.r.SetHighlightedPart(idx - 1)
	return true
}

func (e *Embedder) ClearHighlights() {
	e.r.ClearHighlights()
}

// FindPins returns the indices of pins matching a query expression
func (e *Embedder) FindPins(expr string) ([]int, error) {
	q, err := query.Compile(expr)
	if err != nil {
		return nil, err
	}
	b := e.Board()
	if b == nil {
		return nil, nil
	}
	return query.Filter(b, q), nil
}

// Layers and overlays

func (e *Embedder) LayerNames() []string { return e.r.LayerNames() }

func (e *Embedder) ShowLayer(name string) bool { return e.r.SetLayerVisible(name, true) }
func (e *Embedder) HideLayer(name string) bool { return e.r.SetLayerVisible(name, false) }

func (e *Embedder) IsLayerVisible(name string) bool { return e.r.LayerVisible(name) }

func (e *Embedder) ShowAllLayers() { e.r.ShowAllLayers() }
func (e *Embedder) HideAllLayers() { e.r.HideAllLayers() }

func (e *Embedder) SetDiodeReadings(on bool) { e.r.Settings().ShowDiodeReadings = on }

// ToggleDiodeReadings flips the diode overlay and returns the new state
func (e *Embedder) ToggleDiodeReadings() bool {
	s := e.r.Settings()
	s.ShowDiodeReadings = !s.ShowDiodeReadings
	return s.ShowDiodeReadings
}

func (e *Embedder) SetRatsnest(on bool) { e.r.Settings().ShowRatsnest = on }

// Themes

func (e *Embedder) SetTheme(t renderer.Theme) { e.r.SetTheme(t) }

func (e *Embedder) ApplyThemeSpec(spec renderer.ThemeSpec) error {
	if err := e.r.ApplyThemeSpec(spec); err != nil {
		e.emitError(err.Error())
		return err
	}
	return nil
}

func (e *Embedder) Settings() *renderer.Settings { return e.r.Settings() }
