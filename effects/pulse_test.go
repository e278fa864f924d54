package effects

import (
	"testing"

	"github.com/cwbudde/algo-ledviz/config"
)

func TestPulseSmoothIsUniform(t *testing.T) {
	t.Parallel()

	opts := testOptions(true)
	buf := make([]config.Color, 5)

	Pulse{}.Render(0.5, &opts, buf)

	for i, c := range buf {
		if c != gray(127) {
			t.Fatalf("position %d = %+v, want uniform gray 127", i, c)
		}
	}
}

func TestPulseSmoothClampsAboveOne(t *testing.T) {
	t.Parallel()

	opts := testOptions(true)
	buf := make([]config.Color, 3)

	Pulse{}.Render(4.2, &opts, buf)

	requireColors(t, buf, []config.Color{white, white, white})
}

func TestPulseBinaryThreshold(t *testing.T) {
	t.Parallel()

	opts := testOptions(false)
	buf := make([]config.Color, 3)

	Pulse{}.Render(0.01, &opts, buf)
	requireColors(t, buf, []config.Color{white, white, white})

	Pulse{}.Render(0, &opts, buf)
	requireColors(t, buf, []config.Color{black, black, black})
}

func TestPulseMulticolor(t *testing.T) {
	t.Parallel()

	opts := testOptions(false)
	opts.Multicolor = true
	opts.Colors[0] = config.Color{B: 1}
	opts.Colors[1] = config.Color{B: 2}

	buf := make([]config.Color, 2)
	Pulse{}.Render(1, &opts, buf)

	requireColors(t, tipOrder(buf), []config.Color{{B: 1}, {B: 2}})
}
