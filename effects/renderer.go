package effects

import (
	"github.com/cwbudde/algo-ledviz/config"
	"github.com/cwbudde/algo-ledviz/dsp/core"
)

// Renderer converts one channel level into a color for every position.
//
// buf is ordered as the device addresses it; renderers treat its last element
// as the tip of the strip.
type Renderer interface {
	Name() string
	Render(level float64, opts *config.Options, buf []config.Color)
}

// intensity maps a level against a per-position threshold. Smooth mode fades
// linearly over one unit; otherwise a position is either on or off.
func intensity(level, threshold float64, smooth bool) float64 {
	if smooth {
		return core.Clamp01(level - threshold)
	}

	if level > threshold {
		return 1
	}

	return 0
}

// blend mixes fg over bg and truncates each component.
func blend(fg, bg config.Color, k float64) config.Color {
	inv := 1 - k

	return config.Color{
		R: uint8(float64(fg.R)*k + float64(bg.R)*inv),
		G: uint8(float64(fg.G)*k + float64(bg.G)*inv),
		B: uint8(float64(fg.B)*k + float64(bg.B)*inv),
	}
}
