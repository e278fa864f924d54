package spectrum

import "math"

// centroid is the magnitude-weighted mean frequency.
func centroid(mag []float64, binWidth, sum float64) float64 {
	if sum == 0 {
		return 0
	}

	weighted := 0.0
	for i, v := range mag {
		weighted += float64(i) * binWidth * v
	}

	return weighted / sum
}

// rolloff returns the frequency at which the cumulative energy reaches
// threshold.
func rolloff(mag []float64, binWidth, threshold float64) float64 {
	if threshold <= 0 {
		return 0
	}

	cum := 0.0
	for i, v := range mag {
		cum += v * v
		if cum >= threshold {
			return float64(i) * binWidth
		}
	}

	return float64(len(mag)-1) * binWidth
}

// flatness is the ratio of geometric to arithmetic mean over bins 1..N-1.
// Any empty bin makes it 0.
func flatness(mag []float64) float64 {
	if len(mag) < 2 {
		return 0
	}

	sumLin, sumLog := 0.0, 0.0

	for _, v := range mag[1:] {
		if v <= 0 {
			return 0
		}

		sumLin += v
		sumLog += math.Log(v)
	}

	n := float64(len(mag) - 1)

	return math.Exp(sumLog/n) / (sumLin / n)
}
