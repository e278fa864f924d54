package spectrum

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Window identifies an analysis window.
type Window int

const (
	WindowHann Window = iota
	WindowRectangular
	WindowHamming
	WindowBlackmanHarris
	WindowFlatTop
)

// Cosine-sum coefficients, evaluated as sum(c[k] * cos(2*pi*k*x)).
var (
	hannCoeffs           = []float64{0.5, -0.5}
	hammingCoeffs        = []float64{0.54, -0.46}
	blackmanHarrisCoeffs = []float64{0.35875, -0.48829, 0.14128, -0.01168}
	flatTopCoeffs        = []float64{0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368}
)

var windowNames = map[string]Window{
	"hann":           WindowHann,
	"rectangular":    WindowRectangular,
	"hamming":        WindowHamming,
	"blackmanharris": WindowBlackmanHarris,
	"flattop":        WindowFlatTop,
}

// ParseWindow maps a window name to its Window. Names are case insensitive.
func ParseWindow(name string) (Window, error) {
	w, ok := windowNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unsupported spectrum window: %s", name)
	}

	return w, nil
}

// WindowNames lists the accepted window names in sorted order.
func WindowNames() []string {
	names := make([]string, 0, len(windowNames))
	for name := range windowNames {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// String returns the window name.
func (w Window) String() string {
	for name, v := range windowNames {
		if v == w {
			return name
		}
	}

	return fmt.Sprintf("Window(%d)", int(w))
}

func (w Window) coeffs() []float64 {
	switch w {
	case WindowRectangular:
		return []float64{1}
	case WindowHamming:
		return hammingCoeffs
	case WindowBlackmanHarris:
		return blackmanHarrisCoeffs
	case WindowFlatTop:
		return flatTopCoeffs
	default:
		return hannCoeffs
	}
}

// generate returns the periodic form of w, the framing used for FFT blocks.
func (w Window) generate(n int) []float64 {
	coeffs := w.coeffs()
	out := make([]float64, n)

	for i := range out {
		phase := 2 * math.Pi * float64(i) / float64(n)

		sum := 0.0
		for k, c := range coeffs {
			sum += c * math.Cos(float64(k)*phase)
		}

		out[i] = sum
	}

	return out
}
