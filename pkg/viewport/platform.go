package viewport

import "github.com/OpenTraceLab/OpenTraceBoard/pkg/renderer"

// Platform is the process-wide windowing and graphics layer. Init and
// Terminate are called at most once per Subsystem lifetime each, by the
// first and last instance respectively.
type Platform interface {
	Name() string
	Init() error
	Terminate()
	NewSurface(cfg SurfaceConfig) (Surface, error)
}

// SurfaceConfig describes the native surface an embedder draws into
type SurfaceConfig struct {
	// Parent is the host's native window handle; 0 asks for a top-level
	// window where the platform supports one.
	Parent uintptr
	Width  int
	Height int
	Title  string
}

// Surface is one embedder's drawable area and input source
type Surface interface {
	Resize(w, h int)
	SetVisible(visible bool)
	// PollEvents returns the input received since the last call
	PollEvents() []Event
	Present(dl *renderer.DrawList) error
	Close()
}

// Event is input delivered by a surface
type Event interface {
	isEvent()
}

// Mouse buttons. ButtonPan is the default pan button.
const (
	ButtonPrimary   = 0
	ButtonSecondary = 1
	ButtonMiddle    = 2
	ButtonPan       = ButtonSecondary
)

// KeyAction says whether a key went down, repeated or came up
type KeyAction int

const (
	KeyPress KeyAction = iota
	KeyRepeat
	KeyRelease
)

// Modifiers is a bit set of held modifier keys
type Modifiers int

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// MouseMove reports the cursor position in surface pixels
type MouseMove struct {
	X, Y float64
}

// MouseButton reports a press or release
type MouseButton struct {
	Button  int
	Pressed bool
	X, Y    float64
}

// Scroll reports wheel movement at a cursor position
type Scroll struct {
	X, Y   float64
	DX, DY float64
}

// Key reports a key by name: a single character for printable keys,
// otherwise a name such as "Escape".
type Key struct {
	Key    string
	Action KeyAction
	Mods   Modifiers
}

// Resize reports a new surface size in pixels
type Resize struct {
	Width, Height int
}

// Close reports that the surface was closed by the user or the system
type Close struct{}

func (MouseMove) isEvent()   {}
func (MouseButton) isEvent() {}
func (Scroll) isEvent()      {}
func (Key) isEvent()         {}
func (Resize) isEvent()      {}
func (Close) isEvent()       {}
