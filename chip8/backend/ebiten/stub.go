//go:build !ebiten

package ebiten

import (
	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/video"
)

// ErrUnavailable is returned when the binary was built without ebiten.
var ErrUnavailable = errors.New("ebiten backend not available - build with -tags ebiten to enable")

// Backend stub for when ebiten is not compiled in
type Backend struct{}

var _ backend.Backend = (*Backend)(nil)

// New creates a stub ebiten backend that returns an error
func New() *Backend {
	return &Backend{}
}

// Init returns an error indicating ebiten is not available
func (b *Backend) Init(config backend.BackendConfig) error {
	return ErrUnavailable
}

// Update returns an error
func (b *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	return nil, ErrUnavailable
}

// Cleanup does nothing
func (b *Backend) Cleanup() error {
	return nil
}
