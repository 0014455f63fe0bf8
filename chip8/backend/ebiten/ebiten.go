//go:build ebiten

package ebiten

import (
	"log/slog"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	eaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend renders through ebiten. Ebiten owns the main loop, so the backend
// implements backend.LoopDriver and the runner hands it the frame callback.
type Backend struct {
	config backend.BackendConfig
	scale  int

	keyMapping map[ebiten.Key]action.Action
	events     []backend.InputEvent

	frame  *video.FrameBuffer
	pixels []byte
	image  *ebiten.Image

	tone   *audio.Tone
	player *eaudio.Player
}

var (
	_ backend.Backend    = (*Backend)(nil)
	_ backend.Beeper     = (*Backend)(nil)
	_ backend.LoopDriver = (*Backend)(nil)
)

// New creates a new ebiten backend
func New() *Backend {
	return &Backend{
		tone:  audio.NewTone(audio.SampleRate),
		frame: video.NewFrameBuffer(),
	}
}

// Init configures the window and the audio player.
func (b *Backend) Init(config backend.BackendConfig) error {
	b.config = config
	b.scale = config.Scale
	if b.scale <= 0 {
		b.scale = display.DefaultPixelScale
	}
	b.keyMapping = buildKeyMapping()

	ebiten.SetWindowTitle(config.Title)
	ebiten.SetWindowSize(video.FramebufferWidth*b.scale, video.FramebufferHeight*b.scale)
	ebiten.SetTPS(timing.TargetFPS)

	ctx := eaudio.NewContext(audio.SampleRate)
	player, err := ctx.NewPlayer(b.tone)
	if err != nil {
		return errors.Wrap(err, "failed to create audio player")
	}
	player.SetBufferSize(50 * time.Millisecond)
	player.Play()
	b.player = player

	slog.Info("Ebiten backend initialized", "scale", b.scale)
	return nil
}

// RunLoop runs the ebiten game loop, calling frame once per tick.
func (b *Backend) RunLoop(frame func() error) error {
	return ebiten.RunGame(&game{backend: b, frame: frame})
}

// Update stores the frame for the next Draw and returns the input collected
// during this tick.
func (b *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	if frame.Dirty() {
		b.pixels = display.FrameToRGBA(frame, b.pixels)
	}
	frame.CopyTo(b.frame)

	events := b.events
	b.events = nil
	return events, nil
}

// Beep starts the tone.
func (b *Backend) Beep() {
	b.tone.Beep()
}

// Cleanup stops audio playback.
func (b *Backend) Cleanup() error {
	slog.Info("Cleaning up ebiten backend")
	if b.player != nil {
		return b.player.Close()
	}
	return nil
}

// pollKeys records the keys that changed state since the previous tick.
func (b *Backend) pollKeys() {
	for key, act := range b.keyMapping {
		if inpututil.IsKeyJustPressed(key) {
			if act == action.EmulatorDebugToggle {
				b.config.ShowDebug = !b.config.ShowDebug
			}
			b.events = append(b.events, backend.InputEvent{Action: act, Type: event.Press})
		}
		if act.IsKey() && inpututil.IsKeyJustReleased(key) {
			b.events = append(b.events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
}

func (b *Backend) draw(screen *ebiten.Image) {
	if b.image == nil {
		b.image = ebiten.NewImage(video.FramebufferWidth, video.FramebufferHeight)
		b.pixels = display.FrameToRGBA(b.frame, b.pixels)
	}
	b.image.WritePixels(b.pixels)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(b.scale), float64(b.scale))
	screen.DrawImage(b.image, op)

	if b.config.ShowDebug && b.config.DebugProvider != nil {
		lines := b.config.DebugProvider.ExtractDebugData().Lines()
		ebitenutil.DebugPrint(screen, strings.Join(lines, "\n"))
	}
}

// ebitenKeyNameMap converts ebiten keys to key names used in default mappings
var ebitenKeyNameMap = map[ebiten.Key]string{
	ebiten.KeyDigit1: "1", ebiten.KeyDigit2: "2", ebiten.KeyDigit3: "3", ebiten.KeyDigit4: "4",
	ebiten.KeyQ: "q", ebiten.KeyW: "w", ebiten.KeyE: "e", ebiten.KeyR: "r",
	ebiten.KeyA: "a", ebiten.KeyS: "s", ebiten.KeyD: "d", ebiten.KeyF: "f",
	ebiten.KeyZ: "z", ebiten.KeyX: "x", ebiten.KeyC: "c", ebiten.KeyV: "v",

	ebiten.KeySpace:  "Space",
	ebiten.KeyP:      "p",
	ebiten.KeyO:      "o",
	ebiten.KeyI:      "i",
	ebiten.KeyF5:     "F5",
	ebiten.KeyF9:     "F9",
	ebiten.KeyF10:    "F10",
	ebiten.KeyEscape: "Escape",
	ebiten.KeyEqual:  "=",
	ebiten.KeyMinus:  "-",
}

func buildKeyMapping() map[ebiten.Key]action.Action {
	mapping := make(map[ebiten.Key]action.Action, len(ebitenKeyNameMap))
	for key, name := range ebitenKeyNameMap {
		if act, ok := input.GetDefaultMapping(name); ok {
			mapping[key] = act
		}
	}
	return mapping
}

type game struct {
	backend *Backend
	frame   func() error
}

func (g *game) Update() error {
	g.backend.pollKeys()
	if err := g.frame(); err != nil {
		if errors.Is(err, backend.ErrQuit) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.backend.draw(screen)
}

func (g *game) Layout(_, _ int) (int, int) {
	return video.FramebufferWidth * g.backend.scale, video.FramebufferHeight * g.backend.scale
}
