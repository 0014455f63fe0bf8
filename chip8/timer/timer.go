package timer

// Frequency is the rate, in Hz, at which the host is expected to call Tick.
const Frequency = 60

// Unit holds the delay and sound countdown registers. Both count down by one
// per Tick while non-zero and never wrap below zero.
type Unit struct {
	delay uint8
	sound uint8

	// SoundExpiredHandler is invoked once on the tick where the sound timer
	// goes from 1 to 0.
	SoundExpiredHandler func()
}

// New returns a timer unit with both counters at zero.
func New() *Unit {
	return &Unit{}
}

// Tick decrements both timers. It reports whether the sound timer expired on
// this tick, i.e. its value before the decrement was exactly 1.
func (t *Unit) Tick() bool {
	if t.delay > 0 {
		t.delay--
	}

	expired := false
	if t.sound > 0 {
		expired = t.sound == 1
		t.sound--
	}

	if expired && t.SoundExpiredHandler != nil {
		t.SoundExpiredHandler()
	}

	return expired
}

// Delay returns the delay timer value.
func (t *Unit) Delay() uint8 { return t.delay }

// Sound returns the sound timer value.
func (t *Unit) Sound() uint8 { return t.sound }

// SetDelay sets the delay timer.
func (t *Unit) SetDelay(value uint8) { t.delay = value }

// SetSound sets the sound timer.
func (t *Unit) SetSound(value uint8) { t.sound = value }

