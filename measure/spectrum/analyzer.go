package spectrum

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-ledviz/dsp/core"
)

const (
	minSize        = 16
	rolloffPercent = 0.85
)

// Result describes one analyzed block. Frequencies are in Hz.
type Result struct {
	// Peak is the dominant frequency, refined by parabolic interpolation.
	// It is 0 for a silent block.
	Peak          float64
	PeakMagnitude float64
	Centroid      float64
	// Rolloff is the frequency below which 85% of the energy lies.
	Rolloff  float64
	Flatness float64
}

// Analyzer runs a windowed FFT over fixed-size blocks. It reuses its buffers
// and is not safe for concurrent use.
type Analyzer struct {
	size   int
	rate   float64
	plan   *algofft.Plan[complex128]
	window []float64
	frame  []float64
	in     []complex128
	out    []complex128
	re     []float64
	im     []float64
	mag    []float64
}

// Option configures an Analyzer.
type Option func(*analyzerConfig)

type analyzerConfig struct {
	window Window
}

// WithWindow selects the analysis window. The default is Hann.
func WithWindow(w Window) Option {
	return func(c *analyzerConfig) {
		c.window = w
	}
}

// NewAnalyzer returns an analyzer for blocks of size samples (a power of two,
// at least 16).
func NewAnalyzer(size int, sampleRate float64, opts ...Option) (*Analyzer, error) {
	if size < minSize || size&(size-1) != 0 {
		return nil, fmt.Errorf("spectrum size must be a power of two >= %d: %d", minSize, size)
	}

	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return nil, fmt.Errorf("spectrum sample rate must be positive and finite: %v", sampleRate)
	}

	cfg := analyzerConfig{window: WindowHann}
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, ok := windowNames[cfg.window.String()]; !ok {
		return nil, fmt.Errorf("unsupported spectrum window: %v", cfg.window)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum fft plan: %w", err)
	}

	bins := size/2 + 1
	a := &Analyzer{
		size:   size,
		rate:   sampleRate,
		plan:   plan,
		window: cfg.window.generate(size),
		frame:  make([]float64, size),
		in:     make([]complex128, size),
		out:    make([]complex128, size),
		re:     make([]float64, bins),
		im:     make([]float64, bins),
		mag:    make([]float64, bins),
	}

	return a, nil
}

// Size returns the block size.
func (a *Analyzer) Size() int { return a.size }

// BinWidth returns the spacing of spectrum bins in Hz.
func (a *Analyzer) BinWidth() float64 {
	return a.rate / float64(a.size)
}

// Magnitude returns the one-sided magnitude spectrum of the last block. The
// slice is overwritten by the next Analyze call.
func (a *Analyzer) Magnitude() []float64 {
	return a.mag
}

// Analyze transforms x. Blocks shorter than Size are zero padded; longer ones
// are truncated.
func (a *Analyzer) Analyze(x []float64) (Result, error) {
	n := copy(a.frame, x)
	clear(a.frame[n:])

	vecmath.MulBlockInPlace(a.frame, a.window)

	for i, v := range a.frame {
		a.in[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return Result{}, fmt.Errorf("spectrum fft: %w", err)
	}

	for i := range a.mag {
		a.re[i] = real(a.out[i])
		a.im[i] = imag(a.out[i])
	}

	vecmath.Magnitude(a.mag, a.re, a.im)

	return a.describe(), nil
}

func (a *Analyzer) describe() Result {
	var r Result

	peak, energy, sum := 0, 0.0, 0.0
	for i, v := range a.mag {
		sum += v
		energy += v * v

		// DC does not count as a peak.
		if i > 0 && v > a.mag[peak] {
			peak = i
		}
	}

	if peak == 0 || a.mag[peak] == 0 {
		return r
	}

	r.PeakMagnitude = a.mag[peak]
	r.Peak = (float64(peak) + a.interpolate(peak)) * a.BinWidth()
	r.Centroid = centroid(a.mag, a.BinWidth(), sum)
	r.Rolloff = rolloff(a.mag, a.BinWidth(), rolloffPercent*energy)
	r.Flatness = flatness(a.mag)

	return r
}

// interpolate returns the fractional bin offset of the true peak around bin k.
func (a *Analyzer) interpolate(k int) float64 {
	if k <= 0 || k >= len(a.mag)-1 {
		return 0
	}

	l, c, r := a.mag[k-1], a.mag[k], a.mag[k+1]

	den := l - 2*c + r
	if den == 0 {
		return 0
	}

	return core.Clamp(0.5*(l-r)/den, -0.5, 0.5)
}

// Bands sums spectral energy between consecutive edges (Hz) of the last
// block. len(edges)-1 values are returned.
func (a *Analyzer) Bands(edges []float64) []float64 {
	if len(edges) < 2 {
		return nil
	}

	out := make([]float64, len(edges)-1)
	width := a.BinWidth()

	for i, v := range a.mag {
		f := float64(i) * width

		for b := range out {
			if f >= edges[b] && f < edges[b+1] {
				out[b] += v * v
				break
			}
		}
	}

	return out
}
