package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ledviz/internal/testutil"
)

func TestNewAnalyzerValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size int
		rate float64
	}{
		{"too small", 8, 48000},
		{"not power of two", 1000, 48000},
		{"zero rate", 1024, 0},
		{"nan rate", 1024, math.NaN()},
		{"inf rate", 1024, math.Inf(1)},
	}

	for _, tc := range tests {
		if _, err := NewAnalyzer(tc.size, tc.rate); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestAnalyzeSinePeak(t *testing.T) {
	t.Parallel()

	tests := []struct {
		freq float64
		rate float64
		size int
	}{
		{1000, 48000, 4096},
		{440, 44100, 2048},
		{5512.5, 44100, 1024},
		{60, 8000, 1024},
	}

	for _, tc := range tests {
		a, err := NewAnalyzer(tc.size, tc.rate)
		if err != nil {
			t.Fatalf("NewAnalyzer: %v", err)
		}

		res, err := a.Analyze(testutil.DeterministicSine(tc.freq, tc.rate, 0.8, tc.size))
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}

		if math.Abs(res.Peak-tc.freq) > a.BinWidth()/2 {
			t.Fatalf("%v Hz: peak=%v (bin width %v)", tc.freq, res.Peak, a.BinWidth())
		}

		if res.PeakMagnitude <= 0 {
			t.Fatalf("%v Hz: peak magnitude %v", tc.freq, res.PeakMagnitude)
		}

		if res.Flatness >= 0.1 {
			t.Fatalf("%v Hz: tone flatness too high: %v", tc.freq, res.Flatness)
		}
	}
}

func TestAnalyzeSilence(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(256, 8000)
	if err != nil {
		t.Fatal(err)
	}

	res, err := a.Analyze(make([]float64, 256))
	if err != nil {
		t.Fatal(err)
	}

	if res != (Result{}) {
		t.Fatalf("silence: got %+v", res)
	}
}

func TestAnalyzeNoiseIsFlat(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(2048, 48000)
	if err != nil {
		t.Fatal(err)
	}

	noise, err := a.Analyze(testutil.DeterministicNoise(7, 1, 2048))
	if err != nil {
		t.Fatal(err)
	}

	tone, err := a.Analyze(testutil.DeterministicSine(3000, 48000, 1, 2048))
	if err != nil {
		t.Fatal(err)
	}

	if noise.Flatness <= tone.Flatness {
		t.Fatalf("noise flatness %v should exceed tone flatness %v", noise.Flatness, tone.Flatness)
	}

	if noise.Centroid < 5000 {
		t.Fatalf("white noise centroid unexpectedly low: %v", noise.Centroid)
	}
}

func TestAnalyzeZeroPadsShortBlocks(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(1024, 8000)
	if err != nil {
		t.Fatal(err)
	}

	res, err := a.Analyze(testutil.DeterministicSine(1000, 8000, 1, 700))
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(res.Peak-1000) > 2*a.BinWidth() {
		t.Fatalf("peak=%v", res.Peak)
	}
}

func TestInterpolateStaysWithinHalfBin(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(16, 16)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		mag  []float64
		k    int
		want float64
	}{
		{[]float64{0, 1, 2, 1, 0}, 2, 0},
		{[]float64{0, 1, 3, 2, 0}, 2, 1.0 / 6},
		// Bin 1 is not a local maximum; the raw vertex lies 0.83 bins away.
		{[]float64{0, 1, 5, 0, 0}, 1, -0.5},
		{[]float64{0, 0, 5, 1, 0}, 3, 0.5},
	}

	for _, tc := range tests {
		a.mag = append(a.mag[:0], tc.mag...)

		if got := a.interpolate(tc.k); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("interpolate(%v, %d)=%v, want %v", tc.mag, tc.k, got, tc.want)
		}
	}
}

func TestBands(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(1024, 8000)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Analyze(testutil.DeterministicSine(2000, 8000, 1, 1024)); err != nil {
		t.Fatal(err)
	}

	bands := a.Bands([]float64{0, 250, 1000, 4000})
	if len(bands) != 3 {
		t.Fatalf("len=%d", len(bands))
	}

	if bands[2] <= 100*(bands[0]+bands[1]) {
		t.Fatalf("energy not concentrated in the top band: %v", bands)
	}

	if a.Bands([]float64{100}) != nil {
		t.Fatal("single edge should yield nil")
	}
}

func TestShapeHelpers(t *testing.T) {
	t.Parallel()

	mag := []float64{0, 1, 2, 1, 0}
	// Bin width 1000 Hz matches an 8 kHz rate with 8-point blocks.
	if got := centroid(mag, 1000, 4); got != 2000 {
		t.Fatalf("centroid=%v", got)
	}

	if got := rolloff(mag, 1000, 0.85*6); got != 3000 {
		t.Fatalf("rolloff=%v", got)
	}

	if got := flatness([]float64{0, 1, 1, 1, 1}); got != 1 {
		t.Fatalf("flatness=%v", got)
	}

	if got := flatness(mag); got != 0 {
		t.Fatalf("flatness with empty bin=%v", got)
	}
}
