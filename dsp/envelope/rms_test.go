package envelope

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ledviz/internal/testutil"
)

func TestRMSZeroBlock(t *testing.T) {
	if got := RMS(make([]float64, 64), nil); got != 0 {
		t.Fatalf("RMS(zeros) = %v, want exactly 0", got)
	}
}

func TestRMSEmptyBlock(t *testing.T) {
	if got := RMS(nil, nil); got != 0 {
		t.Fatalf("RMS(nil) = %v, want 0", got)
	}
}

func TestRMSKnownValues(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{name: "dc", in: testutil.DC(0.5, 128), want: 0.5},
		{name: "negative dc", in: testutil.DC(-0.25, 10), want: 0.25},
		{name: "sine", in: testutil.DeterministicSine(1000, 48000, 1, 48000), want: 1 / math.Sqrt2},
		{name: "pair", in: []float64{3, 4}, want: math.Sqrt(12.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.RequireNearlyEqual(t, RMS(tt.in, nil), tt.want, 1e-9)
		})
	}
}

func TestRMSNonNegative(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		block := testutil.DeterministicNoise(seed, 1, 257)
		if got := RMS(block, make([]float64, 0, 300)); got < 0 || math.IsNaN(got) {
			t.Fatalf("seed %d: RMS = %v, want >= 0", seed, got)
		}
	}
}

func TestRMSReusesScratch(t *testing.T) {
	block := testutil.DC(1, 16)
	scratch := make([]float64, 16)

	allocs := testing.AllocsPerRun(100, func() {
		_ = RMS(block, scratch)
	})
	if allocs != 0 {
		t.Fatalf("RMS allocated %v times per run with scratch", allocs)
	}
}
