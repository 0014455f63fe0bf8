package chip8

import "github.com/valerio/go-chip8/chip8/cpu"

// State is a deep copy of everything a program can observe or change.
type State struct {
	CPU    cpu.State
	Memory []byte
	Delay  uint8
	Sound  uint8
	Screen []uint8
}

// State returns a copy of the VM state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return State{
		CPU:    m.cpu.State(),
		Memory: m.mem.Snapshot(),
		Delay:  m.timers.Delay(),
		Sound:  m.timers.Sound(),
		Screen: append([]uint8(nil), m.screen.ToSlice()...),
	}
}
