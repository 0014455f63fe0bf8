package cpu

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/timer"
	"github.com/valerio/go-chip8/chip8/video"
)

type fakeKeypad [KeyCount]bool

func (k *fakeKeypad) IsPressed(key uint8) bool {
	if int(key) >= KeyCount {
		return false
	}
	return k[key]
}

type fixedRandom int

func (r fixedRandom) IntN(n int) int { return int(r) % n }

type testRig struct {
	cpu    *CPU
	mem    *memory.Memory
	screen *video.FrameBuffer
	keys   *fakeKeypad
	timers *timer.Unit
}

// newTestRig loads the given instruction words at the program start.
func newTestRig(t *testing.T, program ...uint16) *testRig {
	t.Helper()

	image := make([]byte, 0, len(program)*2)
	for _, op := range program {
		image = append(image, bit.High(op), bit.Low(op))
	}

	mem := memory.New()
	require.NoError(t, mem.Load(image))

	rig := &testRig{
		mem:    mem,
		screen: video.NewFrameBuffer(),
		keys:   &fakeKeypad{},
		timers: timer.New(),
	}
	rig.cpu = New(Bus{
		Memory:  rig.mem,
		Display: rig.screen,
		Keypad:  rig.keys,
		Timers:  rig.timers,
		Random:  fixedRandom(0xAB),
	})
	return rig
}

func (r *testRig) step(t *testing.T, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		require.NoError(t, r.cpu.Step())
	}
}

func TestNew(t *testing.T) {
	rig := newTestRig(t)
	s := rig.cpu.State()

	assert.Equal(t, uint16(0x200), s.PC)
	assert.Equal(t, uint16(0), s.I)
	assert.Equal(t, uint8(0), s.SP)
	assert.Equal(t, [RegisterCount]uint8{}, s.V)
	assert.Equal(t, uint64(0), s.Cycles)
}

func TestStep_FetchIsBigEndian(t *testing.T) {
	rig := newTestRig(t, 0x6A42)
	rig.step(t, 1)

	assert.Equal(t, uint16(0x6A42), rig.cpu.CurrentOpcode())
	assert.Equal(t, uint8(0x42), rig.cpu.regs.Get(0xA))
	assert.Equal(t, uint64(1), rig.cpu.Cycles())
}

func TestStep_UnknownOpcode(t *testing.T) {
	for _, op := range []uint16{0x0000, 0x0123, 0x00E1, 0x8008, 0x800F, 0xE000, 0xE09F, 0xF000, 0xF0FF} {
		rig := newTestRig(t, op)

		err := rig.cpu.Step()

		assert.Truef(t, errors.Is(err, ErrUnknownOpcode), "opcode 0x%04X: %v", op, err)
		assert.Equalf(t, uint16(0x200), rig.cpu.regs.pc, "PC must not move on 0x%04X", op)
		assert.Equal(t, uint64(0), rig.cpu.Cycles())
	}
}

func TestStep_FetchOutOfRange(t *testing.T) {
	rig := newTestRig(t)
	rig.cpu.regs.pc = 0xFFF

	err := rig.cpu.Step()

	assert.True(t, errors.Is(err, memory.ErrAddressOutOfRange))
}

func TestStep_JumpOutOfMemoryFailsOnNextFetch(t *testing.T) {
	rig := newTestRig(t, 0x60FF, 0xBFFF)
	rig.step(t, 2)

	assert.Equal(t, uint16(0x10FE), rig.cpu.regs.pc)
	assert.True(t, errors.Is(rig.cpu.Step(), memory.ErrAddressOutOfRange))
}
