package chip8

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// Runner is the host main loop: one emulator frame, one backend update, then
// wait for the next frame.
type Runner struct {
	machine *Machine
	backend backend.Backend
	limiter timing.Limiter
	inputs  *input.Manager

	lastFrame     *video.FrameBuffer
	quit          bool
	faultReported bool
}

// NewRunner wires a machine to a backend. A nil limiter runs unthrottled.
func NewRunner(m *Machine, b backend.Backend, limiter timing.Limiter) *Runner {
	if limiter == nil {
		limiter = timing.NewNoOpLimiter()
	}

	r := &Runner{
		machine: m,
		backend: b,
		limiter: limiter,
		inputs:  input.NewManager(m.Keypad()),
	}
	r.registerActions()
	return r
}

func (r *Runner) registerActions() {
	forward := func(act action.Action) {
		r.inputs.On(act, event.Press, func() {
			r.machine.HandleAction(act, true)
			r.limiter.Reset()
		})
	}
	forward(action.EmulatorPauseToggle)
	forward(action.EmulatorStepFrame)
	forward(action.EmulatorStepInstruction)
	forward(action.EmulatorReset)

	r.inputs.On(action.EmulatorQuit, event.Press, func() {
		r.quit = true
	})
	r.inputs.On(action.EmulatorSnapshot, event.Press, func() {
		debug.TakeSnapshot(r.lastFrame)
	})
}

// Run initialises the backend and loops until the backend asks to quit. It
// returns the machine's fatal error, if the program crashed.
func (r *Runner) Run(config backend.BackendConfig) error {
	config.DebugProvider = r.machine
	if err := r.backend.Init(config); err != nil {
		return errors.Wrap(err, "backend init")
	}
	defer func() {
		if err := r.backend.Cleanup(); err != nil {
			slog.Warn("Backend cleanup failed", "error", err)
		}
	}()

	if beeper, ok := r.backend.(backend.Beeper); ok {
		r.machine.SetSoundHandler(beeper.Beep)
	}

	var err error
	if driver, ok := r.backend.(backend.LoopDriver); ok {
		err = driver.RunLoop(r.Frame)
	} else {
		r.limiter.Reset()
		for err == nil {
			if err = r.Frame(); err == nil {
				r.limiter.WaitForNextFrame()
			}
		}
	}

	if err != nil && !errors.Is(err, backend.ErrQuit) {
		return err
	}
	return r.machine.Fault()
}

// Frame runs one iteration of the loop. It returns backend.ErrQuit once a
// quit was requested.
func (r *Runner) Frame() error {
	if err := r.machine.RunUntilFrame(); err != nil {
		if !r.faultReported {
			slog.Error("Emulation halted, reset or quit to continue", "error", err)
			r.faultReported = true
		}
	} else {
		r.faultReported = false
	}

	r.lastFrame = r.machine.GetCurrentFrame()
	events, err := r.backend.Update(r.lastFrame)
	if err != nil {
		return errors.Wrap(err, "backend update")
	}

	for _, evt := range events {
		r.inputs.Trigger(evt.Action, evt.Type)
	}

	if r.quit {
		return backend.ErrQuit
	}
	return nil
}
