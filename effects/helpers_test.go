package effects

import (
	"testing"

	"github.com/cwbudde/algo-ledviz/config"
)

var (
	white = config.Color{R: 255, G: 255, B: 255}
	black = config.Color{}
)

func testOptions(smooth bool) config.Options {
	o := config.Default()
	o.Smooth = smooth
	o.Multicolor = false
	o.Colors[0] = white
	o.Background = black

	return o
}

// tipOrder returns buf indexed from the tip, the order renderers reason in.
func tipOrder(buf []config.Color) []config.Color {
	out := make([]config.Color, len(buf))
	for i := range buf {
		out[i] = buf[len(buf)-1-i]
	}

	return out
}

func requireColors(t *testing.T, got, want []config.Color) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %+v, want %+v (all: %+v)", i, got[i], want[i], got)
		}
	}
}

func gray(v uint8) config.Color {
	return config.Color{R: v, G: v, B: v}
}
