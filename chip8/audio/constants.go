package audio

import "time"

const (
	// SampleRate is the output rate shared by every backend.
	SampleRate = 44100
	// ToneFrequency is the pitch of the beep, in Hz.
	ToneFrequency = 440
	// BeepDuration is how long a single sound-expired event is audible.
	BeepDuration = 120 * time.Millisecond
	// amplitude keeps the square wave well below clipping.
	amplitude = 6000
)
