package headless

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

var _ backend.Backend = (*Backend)(nil)
var _ backend.Beeper = (*Backend)(nil)

func TestHeadless_QuitsAfterMaxFrames(t *testing.T) {
	b := New(3, SnapshotConfig{})
	require.NoError(t, b.Init(backend.BackendConfig{Title: "Test"}))
	defer b.Cleanup()

	frame := video.NewFrameBuffer()
	for i := 0; i < 3; i++ {
		events, err := b.Update(frame)
		require.NoError(t, err)

		if i == 2 {
			require.Len(t, events, 1, "quit event on the last frame")
			assert.Equal(t, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press}, events[0])
		} else {
			assert.Empty(t, events)
		}
	}
	assert.Equal(t, 3, b.FrameCount())
}

func TestHeadless_Snapshots(t *testing.T) {
	dir := t.TempDir()
	cfg, err := CreateSnapshotConfig(2, dir, "/roms/PONG.ch8")
	require.NoError(t, err)
	assert.Equal(t, "PONG", cfg.ROMName)

	b := New(5, cfg)
	require.NoError(t, b.Init(backend.BackendConfig{}))
	frame := video.NewFrameBuffer()
	for i := 0; i < 5; i++ {
		_, err := b.Update(frame)
		require.NoError(t, err)
	}

	// frames 2 and 4, plus the final frame 5
	matches, err := filepath.Glob(filepath.Join(dir, "PONG_frame_*.png"))
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestCreateSnapshotConfig(t *testing.T) {
	cfg, err := CreateSnapshotConfig(0, "", "rom.ch8")
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)

	nested := filepath.Join(t.TempDir(), "a", "b")
	cfg, err = CreateSnapshotConfig(10, nested, "rom.ch8")
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestHeadless_Beep(t *testing.T) {
	b := New(1, SnapshotConfig{})
	b.Beep()
	b.Beep()
	assert.Equal(t, 2, b.Beeps())
}

func TestHeadless_CountsChangedFrames(t *testing.T) {
	b := New(10, SnapshotConfig{})
	require.NoError(t, b.Init(backend.BackendConfig{}))

	frame := video.NewFrameBuffer()
	for i := 0; i < 4; i++ {
		if i%2 == 0 {
			frame.TogglePixel(i, 0)
		}
		_, err := b.Update(frame)
		require.NoError(t, err)
		frame.TakeDirty()
	}

	assert.Equal(t, 2, b.ChangedFrames())
}
