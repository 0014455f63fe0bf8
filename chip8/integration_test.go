package chip8

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/video"
)

type integrationTestCase struct {
	name      string
	image     []byte
	maxFrames int
	golden    []string
}

func getIntegrationTests() []integrationTestCase {
	return []integrationTestCase{
		{
			name: "font glyphs 0-7",
			image: program(
				0x6000, // V0 = 0
				0x6100, // V1 = 0
				0x6200, // V2 = 0
				0xF029, // I = glyph(V0)
				0xD125,
				0x7105, // V1 += 5
				0x7001,
				0x3008, // stop after 8 glyphs
				0x1206,
				0x1212,
			),
			maxFrames: 30,
			golden: []string{
				"####...#..####.####.#..#.####.####.####.",
				"#..#..##.....#....#.#..#.#....#.......#.",
				"#..#...#..####.####.####.####.####...#..",
				"#..#...#..#.......#....#....#.#..#..#...",
				"####..###.####.####....#.####.####..#...",
			},
		},
		{
			name: "bcd of 156",
			image: program(
				0x609C, // V0 = 156
				0xA300,
				0xF033, // BCD to 300..302
				0xF265, // V0..V2 = 1, 5, 6
				0x6300,
				0x6400,
				0xF029,
				0xD345,
				0x7305,
				0xF129,
				0xD345,
				0x7305,
				0xF229,
				0xD345,
				0x121C,
			),
			maxFrames: 10,
			golden: []string{
				"..#..####.####.",
				".##..#....#....",
				"..#..####.####.",
				"..#.....#.#..#.",
				".###.####.####.",
			},
		},
	}
}

// frameASCII renders the top-left corner of a frame, '#' for lit pixels.
func frameASCII(frame *video.FrameBuffer, width, height int) []string {
	rows := make([]string, height)
	for y := 0; y < height; y++ {
		var sb strings.Builder
		for x := 0; x < width; x++ {
			if frame.GetPixel(x, y) != 0 {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

func TestIntegration_Programs(t *testing.T) {
	for _, tc := range getIntegrationTests() {
		t.Run(tc.name, func(t *testing.T) {
			m := newLoadedMachine(t, tc.image, WithSeed(1))
			for i := 0; i < tc.maxFrames; i++ {
				require.NoError(t, m.RunUntilFrame(), "frame %d", i)
			}

			frame := m.GetCurrentFrame()
			got := frameASCII(frame, len(tc.golden[0]), len(tc.golden))
			if diff := cmp.Diff(tc.golden, got); diff != "" {
				t.Errorf("frame mismatch (-want +got):\n%s", diff)
			}

			// nothing outside the golden area is lit
			lit := strings.Count(strings.Join(tc.golden, ""), "#")
			assert.Equal(t, lit, frame.LitPixels())
		})
	}
}
