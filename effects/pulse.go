package effects

import "github.com/cwbudde/algo-ledviz/config"

// NamePulse is the registry name of Pulse.
const NamePulse = "pulse"

// Pulse drives every position with the same intensity taken directly from
// the level, so the strip brightens and dims as a whole.
type Pulse struct{}

// Name implements Renderer.
func (Pulse) Name() string { return NamePulse }

// Render implements Renderer.
func (Pulse) Render(level float64, opts *config.Options, buf []config.Color) {
	k := intensity(level, 0, opts.Smooth)

	n := len(buf)
	for i := range n {
		buf[n-1-i] = blend(opts.Foreground(i), opts.Background, k)
	}
}
