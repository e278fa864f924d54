package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Interleave packs equally long channel signals into one interleaved float32
// block, the layout delivered by capture sources. Shorter channels are padded
// with zeros.
func Interleave(channels ...[]float64) []float32 {
	if len(channels) == 0 {
		return nil
	}

	frames := 0
	for _, ch := range channels {
		frames = max(frames, len(ch))
	}

	out := make([]float32, frames*len(channels))
	for c, ch := range channels {
		for i, v := range ch {
			out[i*len(channels)+c] = float32(v)
		}
	}
	return out
}

// StereoDC returns an interleaved stereo block of frames with constant left
// and right values.
func StereoDC(left, right float64, frames int) []float32 {
	return Interleave(DC(left, frames), DC(right, frames))
}
