// Package headless provides viewport surfaces that paint into memory.
// Input is injected by the caller, which makes them suitable for
// snapshots, scripted sessions and tests.
package headless

import (
	"errors"
	"image"
	"sync"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/renderer"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/renderer/raster"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/viewport"
)

// ErrClosed is returned when presenting to a closed surface
var ErrClosed = errors.New("surface closed")

// Platform creates in-memory surfaces
type Platform struct {
	mu       sync.Mutex
	inits    int
	surfaces []*Surface
}

func New() *Platform { return &Platform{} }

func (p *Platform) Name() string { return "headless" }

func (p *Platform) Init() error {
	p.mu.Lock()
	p.inits++
	p.mu.Unlock()
	return nil
}

func (p *Platform) Terminate() {}

// Inits counts Init calls
func (p *Platform) Inits() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inits
}

func (p *Platform) NewSurface(cfg viewport.SurfaceConfig) (viewport.Surface, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("surface size must be positive")
	}
	s := &Surface{canvas: raster.NewCanvas(cfg.Width, cfg.Height), visible: true}
	p.mu.Lock()
	p.surfaces = append(p.surfaces, s)
	p.mu.Unlock()
	return s, nil
}

// Surfaces returns every surface created so far
func (p *Platform) Surfaces() []*Surface {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Surface(nil), p.surfaces...)
}

// Surface paints presented frames into an RGBA image
type Surface struct {
	mu      sync.Mutex
	canvas  *raster.Canvas
	events  []viewport.Event
	visible bool
	closed  bool
	frames  int
}

// Inject queues input for the next PollEvents
func (s *Surface) Inject(evs ...viewport.Event) {
	s.mu.Lock()
	s.events = append(s.events, evs...)
	s.mu.Unlock()
}

func (s *Surface) PollEvents() []viewport.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	evs := s.events
	s.events = nil
	return evs
}

func (s *Surface) Resize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w > 0 && h > 0 {
		s.canvas = raster.NewCanvas(w, h)
	}
}

func (s *Surface) SetVisible(visible bool) {
	s.mu.Lock()
	s.visible = visible
	s.mu.Unlock()
}

func (s *Surface) Present(dl *renderer.DrawList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.canvas.Draw(dl)
	s.frames++
	return nil
}

func (s *Surface) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// Image returns a copy of the last presented frame
func (s *Surface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	src := s.canvas.Image
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}

// Frames counts presented frames
func (s *Surface) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func (s *Surface) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

func (s *Surface) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
