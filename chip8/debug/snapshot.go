package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/video"
	"golang.org/x/image/draw"
)

// SnapshotScale is the upscaling factor applied to saved frames.
const SnapshotScale = display.DefaultPixelScale

// TakeSnapshot handles the snapshot action for backends
func TakeSnapshot(frame *video.FrameBuffer) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	if _, err := SaveFramePNGToDir(frame, "chip8_snapshot", ""); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// FrameImage converts a framebuffer to an RGBA image scaled by scale, using
// nearest-neighbour sampling so pixels stay sharp.
func FrameImage(frame *video.FrameBuffer, scale int) *image.RGBA {
	src := image.NewRGBA(image.Rect(0, 0, frame.Width(), frame.Height()))
	display.FrameToRGBA(frame, src.Pix)

	if scale <= 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, frame.Width()*scale, frame.Height()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SaveFramePNGToDir saves a framebuffer as PNG with timestamp to a specific
// directory, or the working directory when directory is empty. It returns the
// written path.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string) (string, error) {
	img := FrameImage(frame, SnapshotScale)

	timestamp := time.Now().Format("20060102_150405.000")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "failed to get current directory")
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create file %s", filePath)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", errors.Wrap(err, "failed to encode PNG")
	}

	b := img.Bounds()
	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), "format", "PNG")
	return filePath, nil
}

// PixelColor returns the colour used for a framebuffer pixel value.
func PixelColor(pixel uint8) color.RGBA {
	r, g, b, a := display.PixelRGBA(pixel)
	return color.RGBA{R: r, G: g, B: b, A: a}
}
