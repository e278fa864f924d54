package core

import "math"

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// Clamp01 limits value to [0, 1]. NaN maps to 0.
func Clamp01(value float64) float64 {
	if !(value > 0) {
		return 0
	}

	if value > 1 {
		return 1
	}

	return value
}

// ClampByte clamps an integer color component to [0, 255].
func ClampByte(v int) uint8 {
	if v < 0 {
		return 0
	}

	if v > math.MaxUint8 {
		return math.MaxUint8
	}

	return uint8(v)
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
