package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/timing"
)

func writeROM(t *testing.T, data ...byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "loop.ch8")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestSelectBackend(t *testing.T) {
	b, limiter, err := selectBackend("headless", 10, 0, "", "loop.ch8")
	require.NoError(t, err)
	assert.IsType(t, &headless.Backend{}, b)
	assert.Equal(t, timing.NewNoOpLimiter(), limiter)

	b, limiter, err = selectBackend("terminal", 0, 0, "", "loop.ch8")
	require.NoError(t, err)
	assert.IsType(t, &terminal.Backend{}, b)
	assert.IsType(t, &timing.AdaptiveLimiter{}, limiter)

	_, _, err = selectBackend("headless", 0, 0, "", "loop.ch8")
	assert.Error(t, err, "headless needs a frame count")

	_, _, err = selectBackend("vga", 0, 0, "", "loop.ch8")
	assert.ErrorContains(t, err, "unknown backend")
}

func TestRunHeadless(t *testing.T) {
	// 200: JP 200
	rom := writeROM(t, 0x12, 0x00)
	snapshots := t.TempDir()

	app := newApp()
	err := app.Run([]string{"chip8",
		"--backend", "headless",
		"--frames", "4",
		"--seed", "7",
		"--snapshot-interval", "2",
		"--snapshot-dir", snapshots,
		rom,
	})
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(snapshots, "loop_frame_*.png"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestRunReportsFault(t *testing.T) {
	// 200: invalid opcode
	rom := writeROM(t, 0xFF, 0xFF)

	app := newApp()
	err := app.Run([]string{"chip8", "--backend", "headless", "--frames", "2", rom})
	assert.Error(t, err)
}

func TestRunMissingROM(t *testing.T) {
	app := newApp()
	app.Writer = io.Discard
	err := app.Run([]string{"chip8", "--backend", "headless", "--frames", "1"})
	assert.ErrorContains(t, err, "no ROM path provided")
}
