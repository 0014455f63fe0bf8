package audio

import (
	"encoding/binary"
	"sync"
	"time"
)

// Tone is a square-wave beeper. Trigger arms it for a duration; reads return
// the wave while armed and silence otherwise, so a player can stream it
// forever.
type Tone struct {
	mu         sync.Mutex
	sampleRate int
	halfPeriod int // samples per half wave
	remaining  int // samples left to play
	phase      int
}

// NewTone returns a silent tone generator at the given sample rate.
func NewTone(sampleRate int) *Tone {
	half := sampleRate / (2 * ToneFrequency)
	if half < 1 {
		half = 1
	}
	return &Tone{
		sampleRate: sampleRate,
		halfPeriod: half,
	}
}

// Trigger makes the tone audible for d. A new trigger extends, never
// shortens, the current beep.
func (t *Tone) Trigger(d time.Duration) {
	samples := int(d * time.Duration(t.sampleRate) / time.Second)

	t.mu.Lock()
	defer t.mu.Unlock()
	if samples > t.remaining {
		t.remaining = samples
	}
}

// Beep triggers a standard length beep.
func (t *Tone) Beep() {
	t.Trigger(BeepDuration)
}

// Active reports whether there are audible samples left.
func (t *Tone) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining > 0
}

// next returns one sample and advances the wave. Callers hold the lock.
func (t *Tone) next() int16 {
	if t.remaining == 0 {
		t.phase = 0
		return 0
	}
	t.remaining--

	s := int16(amplitude)
	if (t.phase/t.halfPeriod)%2 == 1 {
		s = -amplitude
	}
	t.phase++
	return s
}

// GetSamples returns count mono samples.
func (t *Tone) GetSamples(count int) []int16 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]int16, count)
	for i := range out {
		out[i] = t.next()
	}
	return out
}

// Read fills p with 16-bit little endian stereo frames. It never returns an
// error and always fills whole frames.
func (t *Tone) Read(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	const frameSize = 4
	n := len(p) / frameSize * frameSize
	for i := 0; i < n; i += frameSize {
		s := uint16(t.next())
		binary.LittleEndian.PutUint16(p[i:], s)
		binary.LittleEndian.PutUint16(p[i+2:], s)
	}
	return n, nil
}
