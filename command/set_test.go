package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-ledviz/config"
	"github.com/cwbudde/algo-ledviz/effects"
)

func TestApplySet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, o *config.Options)
	}{
		{
			name: "red default index",
			args: []string{"red", "12"},
			check: func(t *testing.T, o *config.Options) {
				assert.Equal(t, config.Color{R: 12, G: 255, B: 255}, o.Colors[0])
			},
		},
		{
			name: "blue indexed clamps",
			args: []string{"blue", "4", "900"},
			check: func(t *testing.T, o *config.Options) {
				assert.Equal(t, uint8(255), o.Colors[4].B)
			},
		},
		{
			name: "green indexed negative clamps",
			args: []string{"green", "9", "-3"},
			check: func(t *testing.T, o *config.Options) {
				assert.Equal(t, config.Color{R: 255, G: 0, B: 255}, o.Colors[9])
			},
		},
		{
			name: "color default index",
			args: []string{"color", "1", "2", "3"},
			check: func(t *testing.T, o *config.Options) {
				assert.Equal(t, config.Color{R: 1, G: 2, B: 3}, o.Colors[0])
			},
		},
		{
			name: "color indexed",
			args: []string{"color", "7", "10", "20", "300"},
			check: func(t *testing.T, o *config.Options) {
				assert.Equal(t, config.Color{R: 10, G: 20, B: 255}, o.Colors[7])
			},
		},
		{
			name: "background",
			args: []string{"background", "5", "6", "7"},
			check: func(t *testing.T, o *config.Options) {
				assert.Equal(t, config.Color{R: 5, G: 6, B: 7}, o.Background)
			},
		},
		{
			name: "gain",
			args: []string{"gain", "12.5"},
			check: func(t *testing.T, o *config.Options) {
				assert.InDelta(t, 12.5, o.Gain, 0)
			},
		},
		{
			name: "fall",
			args: []string{"fall", "2"},
			check: func(t *testing.T, o *config.Options) {
				assert.InDelta(t, 2.0, o.Fall, 0)
			},
		},
		{
			name: "hold",
			args: []string{"hold", "0.25"},
			check: func(t *testing.T, o *config.Options) {
				assert.InDelta(t, 0.25, o.Hold, 0)
			},
		},
		{
			name: "frequency",
			args: []string{"frequency", "60"},
			check: func(t *testing.T, o *config.Options) {
				assert.Equal(t, 60, o.Frequency)
			},
		},
		{
			name: "smooth",
			args: []string{"smooth", "false"},
			check: func(t *testing.T, o *config.Options) {
				assert.False(t, o.Smooth)
			},
		},
		{
			name: "multicolor",
			args: []string{"multicolor", "false"},
			check: func(t *testing.T, o *config.Options) {
				assert.False(t, o.Multicolor)
			},
		},
		{
			name: "effect case insensitive",
			args: []string{"effect", "DoubleBars"},
			check: func(t *testing.T, o *config.Options) {
				assert.Equal(t, effects.NameDoubleBars, o.Effect)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			o := config.Default()
			require.NoError(t, applySet(&o, tc.args, effects.DefaultRegistry()))
			tc.check(t, &o)
		})
	}
}

func TestApplySetRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "no value", args: []string{"gain"}, msg: "usage"},
		{name: "unknown property", args: []string{"volume", "3"}, msg: "volume is not a valid property name"},
		{name: "bad number", args: []string{"gain", "loud"}, msg: "invalid number"},
		{name: "negative gain", args: []string{"gain", "-1"}, msg: "non-negative"},
		{name: "nan fall", args: []string{"fall", "NaN"}, msg: "non-negative"},
		{name: "inf hold", args: []string{"hold", "+Inf"}, msg: "non-negative"},
		{name: "zero frequency", args: []string{"frequency", "0"}, msg: "positive"},
		{name: "float frequency", args: []string{"frequency", "2.5"}, msg: "invalid integer"},
		{name: "index out of range", args: []string{"red", "10", "5"}, msg: "out of range"},
		{name: "bad index", args: []string{"color", "x", "1", "2", "3"}, msg: "invalid color index"},
		{name: "bad component", args: []string{"background", "1", "two", "3"}, msg: "invalid color value"},
		{name: "short color", args: []string{"color", "1", "2"}, msg: "expected"},
		{name: "bad bool", args: []string{"smooth", "maybe"}, msg: "true or false"},
		{name: "unknown effect", args: []string{"effect", "strobe"}, msg: "unknown effect"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			o := config.Default()
			err := applySet(&o, tc.args, effects.DefaultRegistry())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestApplySetUnknownEffectIsSentinel(t *testing.T) {
	t.Parallel()

	o := config.Default()
	err := applySet(&o, []string{"effect", "strobe"}, effects.DefaultRegistry())
	require.ErrorIs(t, err, config.ErrUnknownEffect)
	assert.Equal(t, "bars", o.Effect)
}
