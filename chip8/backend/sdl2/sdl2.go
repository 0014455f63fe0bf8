//go:build sdl2

package sdl2

import (
	"log/slog"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	// bytes of 16-bit stereo audio kept queued, about three frames
	audioQueueTarget = audio.SampleRate / timing.TargetFPS * 3 * 4
)

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	config   backend.BackendConfig
	running  bool

	keyMapping map[sdl.Keycode]action.Action
	events     []backend.InputEvent
	pixels     []byte
	drawn      bool

	audioDevice sdl.AudioDeviceID
	tone        *audio.Tone
	audioBuf    []byte
}

var (
	_ backend.Backend = (*Backend)(nil)
	_ backend.Beeper  = (*Backend)(nil)
)

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{
		tone: audio.NewTone(audio.SampleRate),
	}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config
	scale := config.Scale
	if scale <= 0 {
		scale = display.DefaultPixelScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return errors.Wrap(err, "failed to initialize SDL2")
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale),
		int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return errors.Wrap(err, "failed to create window")
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return errors.Wrap(err, "failed to create renderer")
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return errors.Wrap(err, "failed to create texture")
	}
	s.texture = texture

	s.keyMapping = buildKeyMapping()
	s.openAudio()
	s.running = true

	slog.Info("SDL2 backend initialized", "scale", scale)
	return nil
}

// openAudio starts a queued audio device. Sound is optional, a failure only
// leaves the emulator silent.
func (s *Backend) openAudio() {
	desired := &sdl.AudioSpec{
		Freq:     audio.SampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  1024,
	}
	dev, err := sdl.OpenAudioDevice("", false, desired, nil, 0)
	if err != nil {
		slog.Warn("Audio unavailable", "error", err)
		return
	}
	s.audioDevice = dev
	sdl.PauseAudioDevice(dev, false)
}

// Update renders a frame and processes events
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	if !s.running {
		return nil, nil
	}

	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	events := s.events
	s.events = nil

	if err := s.renderFrame(frame); err != nil {
		return events, err
	}
	s.feedAudio()

	return events, nil
}

// Beep starts the tone.
func (s *Backend) Beep() {
	s.tone.Beep()
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.audioDevice != 0 {
		sdl.CloseAudioDevice(s.audioDevice)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.push(action.EmulatorQuit, event.Press)

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN {
			s.handleKeyDown(e.Keysym.Sym, e.Repeat)
		} else if e.Type == sdl.KEYUP {
			s.handleKeyUp(e.Keysym.Sym)
		}
	}
}

// buildKeyMapping resolves the shared key names to SDL keycodes.
func buildKeyMapping() map[sdl.Keycode]action.Action {
	mapping := make(map[sdl.Keycode]action.Action, len(input.DefaultKeyMap))
	for name, act := range input.DefaultKeyMap {
		code := sdl.GetKeyFromName(name)
		if code == sdl.K_UNKNOWN {
			continue
		}
		mapping[code] = act
	}
	return mapping
}

func (s *Backend) handleKeyDown(key sdl.Keycode, repeat uint8) {
	// Ignore key repeat events
	if repeat != 0 {
		return
	}

	act, exists := s.keyMapping[key]
	if !exists {
		return
	}
	if act == action.EmulatorDebugToggle {
		s.toggleDebugTitle()
	}
	s.push(act, event.Press)
}

func (s *Backend) handleKeyUp(key sdl.Keycode) {
	// only the keypad cares about releases
	if act, exists := s.keyMapping[key]; exists && act.IsKey() {
		s.push(act, event.Release)
	}
}

func (s *Backend) push(act action.Action, typ event.Type) {
	s.events = append(s.events, backend.InputEvent{Action: act, Type: typ})
}

func (s *Backend) toggleDebugTitle() {
	s.config.ShowDebug = !s.config.ShowDebug
	if !s.config.ShowDebug {
		s.window.SetTitle(s.config.Title)
	}
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) error {
	if s.config.ShowDebug && s.config.DebugProvider != nil {
		lines := s.config.DebugProvider.ExtractDebugData().Lines()
		if len(lines) > 1 {
			s.window.SetTitle(s.config.Title + " | " + lines[1])
		}
	}

	if frame.Dirty() || !s.drawn {
		s.pixels = display.FrameToRGBA(frame, s.pixels)
		// RGBA8888 is a packed format, on little endian hosts the bytes are ABGR
		for i := 0; i < len(s.pixels); i += display.RGBABytesPerPixel {
			p := s.pixels[i : i+display.RGBABytesPerPixel]
			p[0], p[1], p[2], p[3] = p[3], p[2], p[1], p[0]
		}
		if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.FramebufferWidth*display.RGBABytesPerPixel); err != nil {
			return errors.Wrap(err, "failed to update texture")
		}
		s.drawn = true
	}

	s.renderer.SetDrawColor(display.BackgroundR, display.BackgroundG, display.BackgroundB, display.FullAlpha)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
	return nil
}

// feedAudio tops up the device queue from the tone generator.
func (s *Backend) feedAudio() {
	if s.audioDevice == 0 {
		return
	}
	queued := int(sdl.GetQueuedAudioSize(s.audioDevice))
	if queued >= audioQueueTarget {
		return
	}

	need := audioQueueTarget - queued
	if cap(s.audioBuf) < need {
		s.audioBuf = make([]byte, need)
	}
	buf := s.audioBuf[:need]
	n, _ := s.tone.Read(buf)
	if n == 0 {
		return
	}
	if err := sdl.QueueAudio(s.audioDevice, buf[:n]); err != nil {
		slog.Debug("Failed to queue audio", "error", err)
	}
}
