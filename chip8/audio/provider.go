package audio

// Provider is a source of mono 16-bit samples for backends that pull audio.
type Provider interface {
	// GetSamples retrieves audio samples for playback
	GetSamples(count int) []int16
}

var _ Provider = (*Tone)(nil)
