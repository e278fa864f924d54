// Package config defines the visualization options record shared between the
// command interpreter and the engine loop.
//
// Options is a plain value type. Store publishes immutable snapshots of it so
// the engine can read a consistent record at the start of every cycle while
// the command thread keeps mutating it.
package config

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ledviz/dsp/core"
)

// MaxColors is the number of foreground color slots.
const MaxColors = 10

const (
	defaultGain      = 20.0
	defaultFrequency = 100
	defaultEffect    = "bars"
)

// ErrUnknownEffect is returned when an effect name is not registered.
var ErrUnknownEffect = errors.New("unknown effect")

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// RGB builds a Color from integer components, clamping each to [0, 255].
func RGB(r, g, b int) Color {
	return Color{R: core.ClampByte(r), G: core.ClampByte(g), B: core.ClampByte(b)}
}

// Hex formats c as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Options is the visualization parameter record.
type Options struct {
	Background Color
	// Colors[0] is used for every position when Multicolor is false.
	Colors     [MaxColors]Color
	Gain       float64
	Fall       float64 // level per second
	Hold       float64 // seconds, 0 disables
	Frequency  int     // cycles per second
	Smooth     bool
	Multicolor bool
	Effect     string
}

// Default returns the options used before any profile is loaded.
func Default() Options {
	o := Options{
		Background: Color{},
		Gain:       defaultGain,
		Frequency:  defaultFrequency,
		Smooth:     true,
		Multicolor: true,
		Effect:     defaultEffect,
	}
	for i := range o.Colors {
		o.Colors[i] = Color{R: 255, G: 255, B: 255}
	}

	return o
}

// Foreground returns the color for position i, honoring Multicolor.
// Positions beyond the palette wrap around it.
func (o *Options) Foreground(i int) Color {
	if !o.Multicolor || i < 0 {
		return o.Colors[0]
	}

	return o.Colors[i%MaxColors]
}

// CycleSeconds is the nominal duration of one engine cycle.
// It is 0 when Frequency is not positive.
func (o *Options) CycleSeconds() float64 {
	if o.Frequency <= 0 {
		return 0
	}

	return 1 / float64(o.Frequency)
}

// ValidateGain checks a gain value before assignment.
func ValidateGain(v float64) error {
	return validateNonNegative("gain", v)
}

// ValidateFall checks a fall rate before assignment.
func ValidateFall(v float64) error {
	return validateNonNegative("fall", v)
}

// ValidateHold checks a hold duration before assignment.
func ValidateHold(v float64) error {
	return validateNonNegative("hold", v)
}

// ValidateFrequency checks an update frequency before assignment.
func ValidateFrequency(hz int) error {
	if hz <= 0 {
		return fmt.Errorf("frequency must be positive: %d", hz)
	}

	return nil
}

func validateNonNegative(name string, v float64) error {
	if v < 0 || !core.IsFinite(v) {
		return fmt.Errorf("%s must be non-negative and finite: %v", name, v)
	}

	return nil
}
