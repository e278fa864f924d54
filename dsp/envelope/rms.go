package envelope

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// RMS returns the root mean square of x. An empty block yields 0.
//
// squares is scratch space of at least len(x) elements; pass nil to let RMS
// allocate. The square pass uses the SIMD block multiply.
func RMS(x, squares []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}

	if cap(squares) < n {
		squares = make([]float64, n)
	}

	squares = squares[:n]
	vecmath.MulBlock(squares, x, x)

	sum := 0.0
	for _, v := range squares {
		sum += v
	}

	if sum <= 0 {
		return 0
	}

	return math.Sqrt(sum / float64(n))
}
