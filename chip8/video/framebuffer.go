package video

const (
	// FramebufferWidth is the horizontal resolution in pixels.
	FramebufferWidth = 64
	// FramebufferHeight is the vertical resolution in pixels.
	FramebufferHeight = 32
)

// FrameBuffer is the monochrome 64x32 display. Each pixel is either 0 or 1.
// It only stores bits: XOR drawing and collision detection belong to the CPU.
type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint8
	dirty  bool
}

// NewFrameBuffer creates a cleared frame buffer of the standard size.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:  FramebufferWidth,
		height: FramebufferHeight,
		buffer: make([]uint8, FramebufferWidth*FramebufferHeight),
	}
}

// Width returns the number of columns.
func (fb *FrameBuffer) Width() int { return int(fb.width) }

// Height returns the number of rows.
func (fb *FrameBuffer) Height() int { return int(fb.height) }

// Clear turns every pixel off.
func (fb *FrameBuffer) Clear() {
	clear(fb.buffer)
	fb.dirty = true
}

// GetPixel returns 1 if the pixel at (x, y) is on, 0 otherwise.
// Out of bounds coordinates read as off.
func (fb *FrameBuffer) GetPixel(x, y int) uint8 {
	if !fb.inBounds(x, y) {
		return 0
	}
	return fb.buffer[y*int(fb.width)+x]
}

// TogglePixel flips the pixel at (x, y). Out of bounds coordinates are ignored.
func (fb *FrameBuffer) TogglePixel(x, y int) {
	if !fb.inBounds(x, y) {
		return
	}
	fb.buffer[y*int(fb.width)+x] ^= 1
	fb.dirty = true
}

// ToSlice returns the underlying pixel slice, row-major.
func (fb *FrameBuffer) ToSlice() []uint8 {
	return fb.buffer
}

// CopyTo copies the pixels of fb into dst, which must have the same size.
func (fb *FrameBuffer) CopyTo(dst *FrameBuffer) {
	copy(dst.buffer, fb.buffer)
	dst.dirty = fb.dirty
}

// Dirty reports whether the frame changed since the last TakeDirty.
func (fb *FrameBuffer) Dirty() bool {
	return fb.dirty
}

// TakeDirty returns the dirty flag and clears it.
func (fb *FrameBuffer) TakeDirty() bool {
	d := fb.dirty
	fb.dirty = false
	return d
}

// LitPixels returns the number of pixels currently on.
func (fb *FrameBuffer) LitPixels() int {
	n := 0
	for _, p := range fb.buffer {
		n += int(p)
	}
	return n
}

func (fb *FrameBuffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < int(fb.width) && y < int(fb.height)
}
