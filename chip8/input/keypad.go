package input

import "sync"

// KeyCount is the number of keys on the hex keypad.
const KeyCount = 16

// Keypad holds the pressed state of the 16 logical keys. It is written by the
// host and read by the CPU, possibly from different goroutines.
type Keypad struct {
	mu   sync.RWMutex
	keys [KeyCount]bool
}

func NewKeypad() *Keypad {
	return &Keypad{}
}

// Press marks key as held down. Keys above 0xF are ignored.
func (k *Keypad) Press(key uint8) {
	k.set(key, true)
}

// Release marks key as up.
func (k *Keypad) Release(key uint8) {
	k.set(key, false)
}

func (k *Keypad) set(key uint8, pressed bool) {
	if int(key) >= KeyCount {
		return
	}
	k.mu.Lock()
	k.keys[key] = pressed
	k.mu.Unlock()
}

// IsPressed implements the CPU keypad contract.
func (k *Keypad) IsPressed(key uint8) bool {
	if int(key) >= KeyCount {
		return false
	}
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.keys[key]
}

// State returns a copy of all key flags.
func (k *Keypad) State() [KeyCount]bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.keys
}

// Reset releases every key.
func (k *Keypad) Reset() {
	k.mu.Lock()
	k.keys = [KeyCount]bool{}
	k.mu.Unlock()
}
