package chip8

import (
	"github.com/valerio/go-chip8/chip8/cpu"
)

// DefaultClockSpeed is the CPU rate in instructions per second.
const DefaultClockSpeed = 500

// Option configures a Machine.
type Option func(*Machine)

// WithClockSpeed sets how many instructions run per second of emulated time.
func WithClockSpeed(hz int) Option {
	return func(m *Machine) {
		m.clockHz = hz
	}
}

// WithSeed seeds the generator behind Cxkk. Zero picks a time based seed.
// The same seed is reused on every reset.
func WithSeed(seed uint64) Option {
	return func(m *Machine) {
		m.seed = seed
	}
}

// WithRandom replaces the seeded generator. The source is shared across
// resets and is not re-seeded.
func WithRandom(r cpu.Random) Option {
	return func(m *Machine) {
		m.random = r
	}
}

// WithSoundHandler registers fn to run each time the sound timer expires.
// It is called without the machine lock held.
func WithSoundHandler(fn func()) Option {
	return func(m *Machine) {
		m.onSound = fn
	}
}
