package effects

import (
	"math"

	"github.com/cwbudde/algo-ledviz/config"
)

// NameDoubleBars is the registry name of DoubleBars.
const NameDoubleBars = "doublebars"

// DoubleBars grows a bar outward from the middle of the strip. Each half
// covers half a position per unit of level.
type DoubleBars struct{}

// Name implements Renderer.
func (DoubleBars) Name() string { return NameDoubleBars }

// Render implements Renderer.
func (DoubleBars) Render(level float64, opts *config.Options, buf []config.Color) {
	n := len(buf)
	half := level * 0.5
	mid := float64(n) * 0.5

	for i := range n {
		// Distance from the middle, truncated to whole positions.
		offset := math.Trunc(math.Abs(float64(i) - mid))
		k := intensity(half, offset, opts.Smooth)
		buf[n-1-i] = blend(opts.Foreground(i), opts.Background, k)
	}
}
