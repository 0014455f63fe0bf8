package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/ebiten"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/backend/sdl2"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/timing"
)

func main() {
	app := newApp()

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Description = "A CHIP-8 virtual machine"
	app.Usage = "chip8 [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "rom",
			Usage:  "Path to the ROM file",
			EnvVar: "CHIP8_ROM",
		},
		cli.StringFlag{
			Name:   "backend",
			Usage:  "Backend to use: terminal, sdl2, ebiten or headless",
			Value:  "terminal",
			EnvVar: "CHIP8_BACKEND",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:   "clock",
			Usage:  "CPU clock speed in instructions per second",
			Value:  chip8.DefaultClockSpeed,
			EnvVar: "CHIP8_CLOCK",
		},
		cli.Uint64Flag{
			Name:   "seed",
			Usage:  "Seed for the random number generator (0 = time based)",
			EnvVar: "CHIP8_SEED",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale factor for the sdl2 and ebiten backends",
			Value: display.DefaultPixelScale,
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show the debug panel on start",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
	}
	app.Action = runEmulator
	return app
}

func runEmulator(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	backendName := strings.ToLower(c.String("backend"))
	if backendName == "headless" {
		// Set up debug logging for headless mode
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		slog.SetDefault(slog.New(handler))
	}

	m, err := chip8.NewWithFile(romPath,
		chip8.WithClockSpeed(c.Int("clock")),
		chip8.WithSeed(c.Uint64("seed")),
	)
	if err != nil {
		return err
	}

	b, limiter, err := selectBackend(backendName, c.Int("frames"), c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
	if err != nil {
		return err
	}

	slog.Info("Starting emulator", "rom", romPath, "backend", backendName, "clock", c.Int("clock"))

	runner := chip8.NewRunner(m, b, limiter)
	return runner.Run(backend.BackendConfig{
		Title:     fmt.Sprintf("CHIP-8 - %s", romPath),
		Scale:     c.Int("scale"),
		ShowDebug: c.Bool("debug"),
	})
}

// selectBackend builds the named backend and the frame limiter that suits it.
func selectBackend(name string, frames, snapshotInterval int, snapshotDir, romPath string) (backend.Backend, timing.Limiter, error) {
	switch name {
	case "headless":
		if frames <= 0 {
			return nil, nil, errors.New("headless mode requires --frames option with a positive value")
		}
		cfg, err := headless.CreateSnapshotConfig(snapshotInterval, snapshotDir, romPath)
		if err != nil {
			return nil, nil, err
		}
		return headless.New(frames, cfg), timing.NewNoOpLimiter(), nil
	case "terminal":
		return terminal.New(), timing.NewAdaptiveLimiter(), nil
	case "sdl2":
		// presentation is vsynced, a ticker is enough to keep timers at 60 Hz
		return sdl2.New(), timing.NewTickerLimiter(), nil
	case "ebiten":
		// ebiten paces its own loop
		return ebiten.New(), timing.NewNoOpLimiter(), nil
	default:
		return nil, nil, errors.Errorf("unknown backend %q", name)
	}
}
