package viewport

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Subsystem is a reference-counted handle on a Platform shared by every
// embedder in the process. The first Acquire initializes the platform and
// the last Release terminates it.
type Subsystem struct {
	platform Platform
	log      *log.Logger

	mu   sync.Mutex
	refs int

	// frameMu serializes frames across embedders; current is the overlay
	// bound to the frame in progress.
	frameMu sync.Mutex
	current *Overlay
}

// NewSubsystem wraps a platform. A nil logger uses log.Default().
func NewSubsystem(p Platform, logger *log.Logger) *Subsystem {
	if logger == nil {
		logger = log.Default()
	}
	return &Subsystem{platform: p, log: logger}
}

// Platform returns the wrapped platform
func (s *Subsystem) Platform() Platform {
	return s.platform
}

// Acquire takes a reference, initializing the platform on the first one.
// A failed initialization takes no reference.
func (s *Subsystem) Acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refs == 0 {
		if err := s.platform.Init(); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", s.platform.Name(), err)
		}
		s.log.Debug("subsystem bootstrap", "platform", s.platform.Name(), "refs", 1)
	}
	s.refs++
	return nil
}

// Release drops a reference, terminating the platform with the last one.
// Extra releases are ignored.
func (s *Subsystem) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refs == 0 {
		return
	}
	s.refs--
	if s.refs == 0 {
		s.platform.Terminate()
		s.log.Debug("subsystem teardown", "platform", s.platform.Name(), "refs", 0)
	}
}

// Refs returns the number of live references
func (s *Subsystem) Refs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs
}

// Bind makes o the current overlay for one frame. Frames of different
// embedders never overlap; the returned func restores the previous
// overlay and ends the frame.
func (s *Subsystem) Bind(o *Overlay) (release func()) {
	s.frameMu.Lock()
	prev := s.current
	s.current = o
	return func() {
		s.current = prev
		s.frameMu.Unlock()
	}
}

// Current returns the overlay bound to the frame in progress. It is only
// meaningful between Bind and its release.
func (s *Subsystem) Current() *Overlay {
	return s.current
}
