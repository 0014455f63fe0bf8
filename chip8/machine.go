package chip8

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/events"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/timer"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// memoryWindow is how many bytes around PC are exposed to debug views.
const memoryWindow = 16

// Machine owns the whole VM state: memory, CPU, timers and screen. Every
// exported method takes the machine lock, so a host can drive frames from one
// goroutine and load programs or read state from another.
//
// After a fatal CPU error the machine stops executing and keeps returning that
// error until Load or Reset builds a fresh VM.
type Machine struct {
	mu sync.Mutex

	mem       *memory.Memory
	cpu       *cpu.CPU
	timers    *timer.Unit
	screen    *video.FrameBuffer
	keypad    *input.Keypad
	scheduler *events.Scheduler

	clockHz int
	seed    uint64
	random  cpu.Random
	onSound func()

	image        []byte
	fault        error
	paused       bool
	stepFrame    bool
	frames       uint64
	pendingBeeps int
}

// New creates a machine with an empty program loaded.
func New(opts ...Option) (*Machine, error) {
	m := &Machine{
		clockHz: DefaultClockSpeed,
		keypad:  input.NewKeypad(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.seed == 0 {
		m.seed = uint64(time.Now().UnixNano())
	}

	if err := m.rebuild(nil); err != nil {
		return nil, err
	}
	return m, nil
}

// NewWithFile creates a machine and loads the program image at path into it.
func NewWithFile(path string, opts ...Option) (*Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading ROM %s", path)
	}

	m, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := m.Load(data); err != nil {
		return nil, errors.Wrapf(err, "loading ROM %s", path)
	}
	return m, nil
}

// rebuild replaces the VM with a freshly constructed one running image. On
// error the current VM is left untouched. Callers hold the lock.
func (m *Machine) rebuild(image []byte) error {
	mem := memory.New()
	if err := mem.Load(image); err != nil {
		return err
	}

	scheduler, err := events.NewScheduler(m.clockHz, timer.Frequency)
	if err != nil {
		return err
	}

	rng := m.random
	if rng == nil {
		rng = rand.New(rand.NewPCG(m.seed, m.seed))
	}

	timers := timer.New()
	timers.SoundExpiredHandler = func() { m.pendingBeeps++ }

	screen := video.NewFrameBuffer()
	screen.Clear()

	// keys held across a reload must not satisfy a new program's key wait
	m.keypad.Reset()

	m.mem = mem
	m.timers = timers
	m.screen = screen
	m.scheduler = scheduler
	m.cpu = cpu.New(cpu.Bus{
		Memory:  mem,
		Display: screen,
		Keypad:  m.keypad,
		Timers:  timers,
		Random:  rng,
	})

	m.image = append([]byte(nil), image...)
	m.fault = nil
	m.stepFrame = false
	m.frames = 0
	m.pendingBeeps = 0
	return nil
}

// Load resets the machine and loads image at the program start. Anything in
// progress completes first. An image that doesn't fit is rejected and the
// running program is kept.
func (m *Machine) Load(image []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.rebuild(image); err != nil {
		return err
	}
	m.paused = false
	slog.Info("Program loaded", "bytes", len(image))
	return nil
}

// Reset reloads the current program into a fresh VM.
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.rebuild(m.image); err != nil {
		return err
	}
	slog.Info("Machine reset", "bytes", len(m.image))
	return nil
}

// Step executes a single instruction, ignoring the timers.
func (m *Machine) Step() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fault != nil {
		return m.fault
	}
	if err := m.cpu.Step(); err != nil {
		m.halt(err)
	}
	return m.fault
}

// TickTimers runs one 60 Hz timer tick.
func (m *Machine) TickTimers() error {
	m.mu.Lock()
	if m.fault != nil {
		err := m.fault
		m.mu.Unlock()
		return err
	}
	m.timers.Tick()
	beeps, handler := m.takeBeeps()
	m.mu.Unlock()

	emit(beeps, handler)
	return nil
}

// RunFor advances emulated time by d, interleaving instructions and timer
// ticks at their configured rates.
func (m *Machine) RunFor(d time.Duration) error {
	m.mu.Lock()
	err := m.advance(d)
	beeps, handler := m.takeBeeps()
	m.mu.Unlock()

	emit(beeps, handler)
	return err
}

// RunUntilFrame advances one frame worth of time. While paused it does
// nothing unless a single frame step was requested.
func (m *Machine) RunUntilFrame() error {
	m.mu.Lock()
	if m.paused {
		if !m.stepFrame {
			err := m.fault
			m.mu.Unlock()
			return err
		}
		m.stepFrame = false
	}

	err := m.advance(timing.FrameDuration())
	if err == nil {
		m.frames++
	}
	beeps, handler := m.takeBeeps()
	m.mu.Unlock()

	emit(beeps, handler)
	return err
}

// advance runs the scheduler for d. Callers hold the lock.
func (m *Machine) advance(d time.Duration) error {
	if m.fault != nil {
		return m.fault
	}

	err := m.scheduler.Advance(d, func(evt events.Event) error {
		switch evt.Type {
		case events.CPUCycle:
			return m.cpu.Step()
		case events.TimerTick:
			m.timers.Tick()
		}
		return nil
	})
	if err != nil {
		m.halt(err)
	}
	return m.fault
}

// halt latches a fatal CPU error. Callers hold the lock.
func (m *Machine) halt(err error) {
	m.fault = err
	state := m.cpu.State()
	slog.Error("CPU halted",
		"error", err,
		"pc", fmt.Sprintf("0x%03X", state.PC),
		"opcode", fmt.Sprintf("0x%04X", state.Opcode))
}

func (m *Machine) takeBeeps() (int, func()) {
	n := m.pendingBeeps
	m.pendingBeeps = 0
	return n, m.onSound
}

func emit(beeps int, handler func()) {
	if handler == nil {
		return
	}
	for i := 0; i < beeps; i++ {
		handler()
	}
}

// SetSoundHandler replaces the sound-expired handler.
func (m *Machine) SetSoundHandler(fn func()) {
	m.mu.Lock()
	m.onSound = fn
	m.mu.Unlock()
}

// GetCurrentFrame returns a copy of the screen. The copy is marked dirty if
// the screen changed since the previous call.
func (m *Machine) GetCurrentFrame() *video.FrameBuffer {
	m.mu.Lock()
	defer m.mu.Unlock()

	frame := video.NewFrameBuffer()
	m.screen.CopyTo(frame)
	m.screen.TakeDirty()
	return frame
}

// HandleAction applies a host action. Keypad actions update the key state,
// emulator actions are applied on press only.
func (m *Machine) HandleAction(act action.Action, pressed bool) {
	if key, ok := act.Key(); ok {
		if pressed {
			m.keypad.Press(key)
		} else {
			m.keypad.Release(key)
		}
		return
	}

	if !pressed {
		return
	}

	switch act {
	case action.EmulatorPauseToggle:
		m.mu.Lock()
		m.paused = !m.paused
		paused := m.paused
		m.mu.Unlock()
		slog.Info("Pause toggled", "paused", paused)
	case action.EmulatorStepFrame:
		m.mu.Lock()
		m.paused = true
		m.stepFrame = true
		m.mu.Unlock()
	case action.EmulatorStepInstruction:
		m.mu.Lock()
		m.paused = true
		m.mu.Unlock()
		if err := m.Step(); err != nil {
			slog.Debug("Step failed", "error", err)
		}
	case action.EmulatorReset:
		if err := m.Reset(); err != nil {
			slog.Error("Reset failed", "error", err)
		}
	}
}

// Keypad returns the key state the CPU reads from.
func (m *Machine) Keypad() *input.Keypad {
	return m.keypad
}

// Fault returns the latched fatal error, if any.
func (m *Machine) Fault() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fault
}

// Paused reports whether frame execution is suspended.
func (m *Machine) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Frames returns the number of frames run since the last load.
func (m *Machine) Frames() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

func (m *Machine) debuggerState() debug.DebuggerState {
	switch {
	case m.fault != nil:
		return debug.DebuggerFaulted
	case m.paused && m.stepFrame:
		return debug.DebuggerStepFrame
	case m.paused:
		return debug.DebuggerPaused
	default:
		return debug.DebuggerRunning
	}
}

// ExtractDebugData returns a copy of the state shown by debug views.
func (m *Machine) ExtractDebugData() *debug.CompleteDebugData {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.cpu.State()
	data := &debug.CompleteDebugData{
		CPU: &debug.CPUState{
			V:             s.V,
			I:             s.I,
			PC:            s.PC,
			SP:            s.SP,
			Stack:         append([]uint16(nil), s.Stack[:s.SP]...),
			Opcode:        s.Opcode,
			WaitingForKey: s.WaitingForKey,
			Cycles:        s.Cycles,
		},
		Timers:        debug.TimerState{Delay: m.timers.Delay(), Sound: m.timers.Sound()},
		Keys:          m.keypad.State(),
		DebuggerState: m.debuggerState(),
		Frames:        m.frames,
	}

	start := s.PC
	if int(start)+memoryWindow > memory.Size {
		start = uint16(memory.Size - memoryWindow)
	}
	if bytes, err := m.mem.ReadRange(start, memoryWindow); err == nil {
		data.Memory = &debug.MemorySnapshot{StartAddr: start, Bytes: bytes}
	}

	if m.fault != nil {
		data.Fault = m.fault.Error()
	}
	return data
}
