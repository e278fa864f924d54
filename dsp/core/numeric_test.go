package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.25, 0.25},
		{1, 1},
		{7, 1},
		{math.NaN(), 0},
		{math.Inf(1), 1},
	}

	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClampByte(t *testing.T) {
	if got := ClampByte(-3); got != 0 {
		t.Fatalf("ClampByte(-3) = %d, want 0", got)
	}
	if got := ClampByte(300); got != 255 {
		t.Fatalf("ClampByte(300) = %d, want 255", got)
	}
	if got := ClampByte(128); got != 128 {
		t.Fatalf("ClampByte(128) = %d, want 128", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(3) {
		t.Fatal("3 should be finite")
	}
	if IsFinite(math.NaN()) || IsFinite(math.Inf(-1)) {
		t.Fatal("NaN and Inf are not finite")
	}
}
