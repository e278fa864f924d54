package effects

import "github.com/cwbudde/algo-ledviz/config"

// NameBars is the registry name of Bars.
const NameBars = "bars"

// Bars lights one position per unit of level, starting at the tip.
type Bars struct{}

// Name implements Renderer.
func (Bars) Name() string { return NameBars }

// Render implements Renderer.
func (Bars) Render(level float64, opts *config.Options, buf []config.Color) {
	n := len(buf)
	for i := range n {
		k := intensity(level, float64(i), opts.Smooth)
		buf[n-1-i] = blend(opts.Foreground(i), opts.Background, k)
	}
}
