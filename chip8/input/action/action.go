package action

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// CHIP-8 hex keypad, in logical key order
	Key0 Action = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	// Emulator features
	EmulatorDebugToggle
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepFrame
	EmulatorStepInstruction
	EmulatorReset
	EmulatorQuit

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// IsKey reports whether the action is one of the 16 keypad keys.
func (a Action) IsKey() bool {
	return a >= Key0 && a <= KeyF
}

// Key returns the logical keypad index for a keypad action.
func (a Action) Key() (uint8, bool) {
	if !a.IsKey() {
		return 0, false
	}
	return uint8(a - Key0), true
}

// FromKey returns the keypad action for logical key k (0x0-0xF).
func FromKey(k uint8) Action {
	return Key0 + Action(k&0x0F)
}
