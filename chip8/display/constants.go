package display

import "github.com/valerio/go-chip8/chip8/video"

// RGBA pixel format constants
const (
	// RGBABytesPerPixel is the number of bytes per pixel in RGBA format
	RGBABytesPerPixel = 4
)

// Backend scaling and window constants
const (
	// DefaultPixelScale is the default scaling factor for CHIP-8 pixels
	DefaultPixelScale = 10
	// DefaultWindowWidth is the default window width (64 * scale)
	DefaultWindowWidth = video.FramebufferWidth * DefaultPixelScale // 640
	// DefaultWindowHeight is the default window height (32 * scale)
	DefaultWindowHeight = video.FramebufferHeight * DefaultPixelScale // 320
)

// Colour of lit and unlit pixels, as 8-bit RGB components.
const (
	ForegroundR = 0xE8
	ForegroundG = 0xE8
	ForegroundB = 0xE8

	BackgroundR = 0x10
	BackgroundG = 0x10
	BackgroundB = 0x10

	// FullAlpha is the alpha value for fully opaque pixels
	FullAlpha = 255
)

// PixelRGBA returns the colour components for a framebuffer pixel value.
func PixelRGBA(pixel uint8) (r, g, b, a uint8) {
	if pixel != 0 {
		return ForegroundR, ForegroundG, ForegroundB, FullAlpha
	}
	return BackgroundR, BackgroundG, BackgroundB, FullAlpha
}

// FrameToRGBA expands a framebuffer into a tightly packed RGBA byte slice.
// dst is reused when large enough.
func FrameToRGBA(frame *video.FrameBuffer, dst []byte) []byte {
	pixels := frame.ToSlice()
	size := len(pixels) * RGBABytesPerPixel
	if cap(dst) < size {
		dst = make([]byte, size)
	}
	dst = dst[:size]

	for i, p := range pixels {
		idx := i * RGBABytesPerPixel
		dst[idx], dst[idx+1], dst[idx+2], dst[idx+3] = PixelRGBA(p)
	}
	return dst
}
