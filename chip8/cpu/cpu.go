package cpu

import (
	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	// ScreenWidth is the width of the display the draw opcode targets.
	ScreenWidth = video.FramebufferWidth
	// ScreenHeight is the height of the display the draw opcode targets.
	ScreenHeight = video.FramebufferHeight
	// KeyCount is the number of keys on the hex keypad.
	KeyCount = 16
	// InstructionSize is the size in bytes of every instruction.
	InstructionSize = 2
)

// ErrUnknownOpcode is returned when the fetched word matches no instruction.
var ErrUnknownOpcode = errors.New("unknown opcode")

// Memory is the address space the CPU fetches from and loads/stores into.
type Memory interface {
	Read(address uint16) (byte, error)
	Write(address uint16, value byte) error
}

// Display stores the pixels; XOR and collision logic is done by the CPU.
type Display interface {
	Clear()
	GetPixel(x, y int) uint8
	TogglePixel(x, y int)
}

// Keypad reports the state of the 16 keys. The CPU never changes it.
type Keypad interface {
	IsPressed(key uint8) bool
}

// Timers gives access to the delay and sound timers.
type Timers interface {
	Delay() uint8
	SetDelay(value uint8)
	SetSound(value uint8)
}

// Random is the source for Cxkk. *rand.Rand satisfies it.
type Random interface {
	IntN(n int) int
}

// Bus groups the collaborators the CPU is wired to.
type Bus struct {
	Memory  Memory
	Display Display
	Keypad  Keypad
	Timers  Timers
	Random  Random
}

// CPU executes instructions one at a time against its Bus.
type CPU struct {
	regs Registers

	// metadata
	currentOpcode uint16
	waitingForKey bool
	cycles        uint64

	bus Bus
}

// New returns a CPU in its power-on state, PC at the program start.
func New(bus Bus) *CPU {
	return &CPU{
		regs: NewRegisters(),
		bus:  bus,
	}
}

// Step fetches, decodes and executes a single instruction.
// Any returned error is fatal for the running program.
func (c *CPU) Step() error {
	pc := c.regs.pc

	opcode, err := c.fetch()
	if err != nil {
		return errors.Wrapf(err, "fetch at 0x%03X", pc)
	}
	c.currentOpcode = opcode

	instruction, ok := Decode(opcode)
	if !ok {
		return errors.Wrapf(ErrUnknownOpcode, "0x%04X at 0x%03X", opcode, pc)
	}

	if err := instruction(c, opcode); err != nil {
		return errors.Wrapf(err, "opcode 0x%04X at 0x%03X", opcode, pc)
	}

	c.cycles++
	return nil
}

// fetch reads the big-endian instruction word at PC.
func (c *CPU) fetch() (uint16, error) {
	high, err := c.bus.Memory.Read(c.regs.pc)
	if err != nil {
		return 0, err
	}
	low, err := c.bus.Memory.Read(c.regs.pc + 1)
	if err != nil {
		return 0, err
	}

	return bit.Combine(high, low), nil
}

// next moves PC to the following instruction.
func (c *CPU) next() {
	c.regs.pc += InstructionSize
}

// skipIf skips the following instruction when condition holds.
func (c *CPU) skipIf(condition bool) {
	if condition {
		c.regs.pc += 2 * InstructionSize
		return
	}
	c.next()
}

// Registers exposes the register file.
func (c *CPU) Registers() *Registers { return &c.regs }

// CurrentOpcode returns the last fetched instruction word.
func (c *CPU) CurrentOpcode() uint16 { return c.currentOpcode }

// WaitingForKey reports whether the CPU is blocked on Fx0A.
func (c *CPU) WaitingForKey() bool { return c.waitingForKey }

// Cycles returns the number of instructions executed successfully.
func (c *CPU) Cycles() uint64 { return c.cycles }

// State is a copy of the CPU registers and metadata.
type State struct {
	V             [RegisterCount]uint8
	I             uint16
	PC            uint16
	SP            uint8
	Stack         [StackDepth]uint16
	Opcode        uint16
	WaitingForKey bool
	Cycles        uint64
}

// State returns a snapshot of the CPU.
func (c *CPU) State() State {
	return State{
		V:             c.regs.v,
		I:             c.regs.i,
		PC:            c.regs.pc,
		SP:            c.regs.sp,
		Stack:         c.regs.stack,
		Opcode:        c.currentOpcode,
		WaitingForKey: c.waitingForKey,
		Cycles:        c.cycles,
	}
}
