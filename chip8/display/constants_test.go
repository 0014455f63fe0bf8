package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-chip8/chip8/video"
)

func TestFrameToRGBA(t *testing.T) {
	fb := video.NewFrameBuffer()
	fb.TogglePixel(1, 0)

	out := FrameToRGBA(fb, nil)

	assert.Len(t, out, video.FramebufferWidth*video.FramebufferHeight*RGBABytesPerPixel)
	assert.Equal(t, []byte{BackgroundR, BackgroundG, BackgroundB, FullAlpha}, out[0:4])
	assert.Equal(t, []byte{ForegroundR, ForegroundG, ForegroundB, FullAlpha}, out[4:8])
}

func TestFrameToRGBA_ReusesBuffer(t *testing.T) {
	fb := video.NewFrameBuffer()
	buf := make([]byte, 0, video.FramebufferWidth*video.FramebufferHeight*RGBABytesPerPixel)

	out := FrameToRGBA(fb, buf)

	assert.Equal(t, &buf[:1][0], &out[0])
}
