package cpu

import (
	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/memory"
)

const (
	// RegisterCount is the number of general purpose registers, V0 to VF.
	RegisterCount = 16
	// FlagRegister is VF, used as carry, borrow and collision flag.
	FlagRegister uint8 = 0xF
	// StackDepth is the maximum number of nested subroutine calls.
	StackDepth = 16
	// IndexMask limits the index register to 12 bits.
	IndexMask uint16 = 0x0FFF
)

var (
	// ErrStackOverflow is returned when calling a subroutine with a full stack.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when returning with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
)

// Registers is the register file: V0-VF, the index register I, the program
// counter and the call stack with its pointer. Register values are 8 bit by
// type, so every write is implicitly truncated mod 256.
type Registers struct {
	v     [RegisterCount]uint8
	i     uint16
	pc    uint16
	stack [StackDepth]uint16
	sp    uint8
}

// NewRegisters returns a cleared register file with PC at the program start.
func NewRegisters() Registers {
	return Registers{pc: memory.ProgramStart}
}

// Get returns the value of register Vx.
func (r *Registers) Get(x uint8) uint8 {
	return r.v[x&0x0F]
}

// Set writes register Vx.
func (r *Registers) Set(x uint8, value uint8) {
	r.v[x&0x0F] = value
}

// I returns the index register.
func (r *Registers) I() uint16 {
	return r.i
}

// SetI writes the index register, masked to 12 bits.
func (r *Registers) SetI(value uint16) {
	r.i = value & IndexMask
}

// PC returns the program counter.
func (r *Registers) PC() uint16 {
	return r.pc
}

// SetPC moves the program counter.
func (r *Registers) SetPC(value uint16) {
	r.pc = value
}

// SP returns the number of entries on the call stack.
func (r *Registers) SP() uint8 {
	return r.sp
}

// Push saves a return address on the call stack.
func (r *Registers) Push(pc uint16) error {
	if int(r.sp) >= StackDepth {
		return errors.Wrapf(ErrStackOverflow, "depth %d", r.sp)
	}

	r.stack[r.sp] = pc
	r.sp++
	return nil
}

// Pop removes and returns the most recently pushed address.
func (r *Registers) Pop() (uint16, error) {
	if r.sp == 0 {
		return 0, ErrStackUnderflow
	}

	r.sp--
	pc := r.stack[r.sp]
	r.stack[r.sp] = 0
	return pc, nil
}

// Stack returns a copy of the active part of the call stack, oldest first.
func (r *Registers) Stack() []uint16 {
	out := make([]uint16, r.sp)
	copy(out, r.stack[:r.sp])
	return out
}
