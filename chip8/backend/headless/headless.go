package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend runs without any output device. It counts frames, optionally
// saves PNG snapshots and requests quit after maxFrames.
type Backend struct {
	config         backend.BackendConfig
	frameCount     int
	maxFrames      int
	snapshotConfig SnapshotConfig
	beeps          int
	changedFrames  int
}

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	ROMName   string // ROM name for snapshot filenames
}

// New returns a headless backend that quits after maxFrames frames.
func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)

	return nil
}

// Update counts the frame, saves due snapshots and emits quit on the last one.
func (h *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	h.frameCount++
	if frame.Dirty() {
		h.changedFrames++
	}

	due := h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0
	last := h.frameCount >= h.maxFrames
	if due || (last && h.snapshotConfig.Enabled) {
		h.saveSnapshot(frame)
	}

	if h.frameCount%timing.TargetFPS == 0 {
		h.logProgress(frame)
	}

	if !last {
		return nil, nil
	}

	slog.Info("Headless execution completed",
		"frames", h.frameCount,
		"changed_frames", h.changedFrames,
		"lit_pixels", frame.LitPixels(),
		"beeps", h.beeps,
		"snapshot_dir", h.snapshotConfig.Directory)

	return []backend.InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}, nil
}

func (h *Backend) logProgress(frame *video.FrameBuffer) {
	attrs := []any{"completed", h.frameCount, "total", h.maxFrames, "lit_pixels", frame.LitPixels()}
	if h.config.DebugProvider != nil {
		if data := h.config.DebugProvider.ExtractDebugData(); data != nil && data.CPU != nil {
			attrs = append(attrs, "pc", fmt.Sprintf("%03X", data.CPU.PC), "cycles", data.CPU.Cycles)
		}
	}
	slog.Debug("Frame progress", attrs...)
}

func (h *Backend) Cleanup() error {
	return nil
}

// Beep counts sound events, there is no audio output.
func (h *Backend) Beep() {
	h.beeps++
	slog.Debug("Beep", "frame", h.frameCount)
}

// Beeps returns how many sound events were received.
func (h *Backend) Beeps() int {
	return h.beeps
}

// FrameCount returns the number of frames processed.
func (h *Backend) FrameCount() int {
	return h.frameCount
}

// ChangedFrames returns how many frames differed from the one before.
func (h *Backend) ChangedFrames() int {
	return h.changedFrames
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}

	if !config.Enabled {
		return config, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "chip8-snapshots-*")
		if err != nil {
			return config, errors.Wrap(err, "failed to create snapshot directory")
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return config, errors.Wrap(err, "failed to create snapshot directory")
		}
		config.Directory = directory
	}

	config.ROMName = filepath.Base(romPath)
	config.ROMName = strings.TrimSuffix(config.ROMName, filepath.Ext(config.ROMName))

	return config, nil
}

// saveSnapshot saves a PNG snapshot for the current frame
func (h *Backend) saveSnapshot(frame *video.FrameBuffer) {
	pngBaseName := fmt.Sprintf("%s_frame_%d", h.snapshotConfig.ROMName, h.frameCount)

	path, err := debug.SaveFramePNGToDir(frame, pngBaseName, h.snapshotConfig.Directory)
	if err != nil {
		slog.Error("Failed to save PNG snapshot", "frame", h.frameCount, "error", err)
		return
	}
	slog.Debug("Saved PNG snapshot", "frame", h.frameCount, "path", path)
}
