package chip8

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// scriptedBackend returns queued events on given frames and records updates.
type scriptedBackend struct {
	script   map[int][]backend.InputEvent
	frames   int
	lit      []int
	config   backend.BackendConfig
	cleaned  bool
	beeps    int
	updateFn func(frame *video.FrameBuffer) error
}

func (s *scriptedBackend) Init(config backend.BackendConfig) error {
	s.config = config
	return nil
}

func (s *scriptedBackend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	s.frames++
	s.lit = append(s.lit, frame.LitPixels())
	if s.updateFn != nil {
		if err := s.updateFn(frame); err != nil {
			return nil, err
		}
	}
	return s.script[s.frames], nil
}

func (s *scriptedBackend) Cleanup() error {
	s.cleaned = true
	return nil
}

func (s *scriptedBackend) Beep() { s.beeps++ }

func press(act action.Action) backend.InputEvent {
	return backend.InputEvent{Action: act, Type: event.Press}
}

func TestRunner_QuitEndsLoop(t *testing.T) {
	m := newLoadedMachine(t, program(0x1200))
	b := &scriptedBackend{script: map[int][]backend.InputEvent{
		5: {press(action.EmulatorQuit)},
	}}

	err := NewRunner(m, b, nil).Run(backend.BackendConfig{Title: "test"})

	require.NoError(t, err)
	assert.Equal(t, 5, b.frames)
	assert.True(t, b.cleaned)
	assert.Equal(t, uint64(5), m.Frames())
	assert.NotNil(t, b.config.DebugProvider)
}

func TestRunner_KeysReachTheProgram(t *testing.T) {
	// V0 = K; I = glyph V0; draw; loop
	m := newLoadedMachine(t, program(0xF00A, 0xF029, 0xD015, 0x1206))
	b := &scriptedBackend{script: map[int][]backend.InputEvent{
		2: {{Action: action.Key1, Type: event.Press}},
		3: {{Action: action.Key1, Type: event.Release}},
		5: {press(action.EmulatorQuit)},
	}}

	require.NoError(t, NewRunner(m, b, nil).Run(backend.BackendConfig{}))

	// glyph "1" (20 60 20 20 70) has 8 pixels lit
	assert.Equal(t, []int{0, 0, 8, 8, 8}, b.lit)
	assert.False(t, m.Keypad().IsPressed(1))
}

func TestRunner_BeeperReceivesSound(t *testing.T) {
	m := newLoadedMachine(t, program(0x6001, 0xF018, 0x1204))
	b := &scriptedBackend{script: map[int][]backend.InputEvent{
		3: {press(action.EmulatorQuit)},
	}}

	require.NoError(t, NewRunner(m, b, nil).Run(backend.BackendConfig{}))

	assert.Equal(t, 1, b.beeps)
}

func TestRunner_FaultIsReturnedAfterQuit(t *testing.T) {
	m := newLoadedMachine(t, program(0x00EE))
	b := &scriptedBackend{script: map[int][]backend.InputEvent{
		3: {press(action.EmulatorQuit)},
	}}

	err := NewRunner(m, b, nil).Run(backend.BackendConfig{})

	assert.True(t, errors.Is(err, cpu.ErrStackUnderflow))
	assert.Equal(t, 3, b.frames, "the host keeps running after a fault")
}

func TestRunner_ResetClearsFault(t *testing.T) {
	m := newLoadedMachine(t, program(0x00EE))
	b := &scriptedBackend{script: map[int][]backend.InputEvent{
		2: {press(action.EmulatorReset)},
	}}
	r := NewRunner(m, b, nil)
	require.NoError(t, b.Init(backend.BackendConfig{}))

	require.NoError(t, r.Frame())
	assert.Error(t, m.Fault())

	require.NoError(t, r.Frame())
	assert.NoError(t, m.Fault())
}

func TestRunner_BackendErrorStopsLoop(t *testing.T) {
	m := newLoadedMachine(t, program(0x1200))
	boom := errors.New("display lost")
	b := &scriptedBackend{updateFn: func(*video.FrameBuffer) error { return boom }}

	err := NewRunner(m, b, nil).Run(backend.BackendConfig{})

	assert.True(t, errors.Is(err, boom))
	assert.True(t, b.cleaned)
}

func TestRunner_PauseStopsFrames(t *testing.T) {
	m := newLoadedMachine(t, program(0x7001, 0x1200))
	b := &scriptedBackend{script: map[int][]backend.InputEvent{
		1: {press(action.EmulatorPauseToggle)},
		4: {press(action.EmulatorQuit)},
	}}

	require.NoError(t, NewRunner(m, b, nil).Run(backend.BackendConfig{}))

	assert.True(t, m.Paused())
	assert.Equal(t, uint64(1), m.Frames())
}

// loopBackend owns the loop the way a windowing library would.
type loopBackend struct {
	scriptedBackend
	calls int
}

func (l *loopBackend) RunLoop(frame func() error) error {
	for {
		l.calls++
		if err := frame(); err != nil {
			return err
		}
	}
}

func TestRunner_LoopDriver(t *testing.T) {
	m := newLoadedMachine(t, program(0x1200))
	b := &loopBackend{scriptedBackend: scriptedBackend{script: map[int][]backend.InputEvent{
		4: {press(action.EmulatorQuit)},
	}}}

	require.NoError(t, NewRunner(m, b, nil).Run(backend.BackendConfig{}))

	assert.Equal(t, 4, b.calls)
}

func TestRunner_Headless(t *testing.T) {
	m := newLoadedMachine(t, program(0xA000, 0xD015, 0x1204))
	b := headless.New(10, headless.SnapshotConfig{})

	require.NoError(t, NewRunner(m, b, nil).Run(backend.BackendConfig{}))

	assert.Equal(t, 10, b.FrameCount())
	assert.Equal(t, uint64(10), m.Frames())
}
