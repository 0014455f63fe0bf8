package backend

import (
	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// ErrQuit is returned by a frame callback to stop a backend-owned loop.
var ErrQuit = errors.New("quit requested")

// Backend represents a complete emulator platform (rendering + input + audio)
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, window, etc.)
// - Translating platform-specific input events to InputEvents
// - Handling backend-specific features (debug panels, log filters)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update renders the frame and returns the input events collected
	// since the previous call.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// InputEvent is a host action together with how it was triggered.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// DebugDataProvider gives backends read access to emulator state.
type DebugDataProvider interface {
	ExtractDebugData() *debug.CompleteDebugData
}

// Beeper is implemented by backends that can play the sound-expired tone.
type Beeper interface {
	Beep()
}

// LoopDriver is implemented by backends that must own the main loop, e.g.
// because the windowing library requires it. RunLoop calls frame once per
// display frame until frame returns an error; ErrQuit ends it cleanly.
type LoopDriver interface {
	RunLoop(frame func() error) error
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title         string
	Scale         int
	ShowDebug     bool // Backends may ignore unsupported features
	DebugProvider DebugDataProvider
}
