package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-ledviz/config"
	"github.com/cwbudde/algo-ledviz/effects"
)

var errSetUsage = errors.New("usage: set <property> <params>")

type setter func(o *config.Options, args []string, reg *effects.Registry) error

// properties maps every settable property to its parser.
var properties = map[string]setter{
	"red":        setComponent(func(c *config.Color, v uint8) { c.R = v }),
	"green":      setComponent(func(c *config.Color, v uint8) { c.G = v }),
	"blue":       setComponent(func(c *config.Color, v uint8) { c.B = v }),
	"color":      setColor,
	"background": setBackground,
	"gain":       setFloat(config.ValidateGain, func(o *config.Options, v float64) { o.Gain = v }),
	"fall":       setFloat(config.ValidateFall, func(o *config.Options, v float64) { o.Fall = v }),
	"hold":       setFloat(config.ValidateHold, func(o *config.Options, v float64) { o.Hold = v }),
	"frequency":  setFrequency,
	"smooth":     setBool(func(o *config.Options, v bool) { o.Smooth = v }),
	"multicolor": setBool(func(o *config.Options, v bool) { o.Multicolor = v }),
	"effect":     setEffect,
}

// applySet applies "set" arguments (property first) to o. On error o may be
// partially modified; callers work on a copy.
func applySet(o *config.Options, args []string, reg *effects.Registry) error {
	if len(args) < 2 {
		return errSetUsage
	}

	fn, ok := properties[args[0]]
	if !ok {
		return fmt.Errorf("%s is not a valid property name", args[0])
	}

	if err := fn(o, args[1:], reg); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	return nil
}

func setComponent(assign func(*config.Color, uint8)) setter {
	return func(o *config.Options, args []string, _ *effects.Registry) error {
		idx := 0

		switch len(args) {
		case 1:
		case 2:
			i, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			idx, args = i, args[1:]
		default:
			return errors.New("expected [index] <value>")
		}

		v, err := parseComponent(args[0])
		if err != nil {
			return err
		}

		assign(&o.Colors[idx], v)

		return nil
	}
}

func setColor(o *config.Options, args []string, _ *effects.Registry) error {
	idx := 0

	switch len(args) {
	case 3:
	case 4:
		i, err := parseIndex(args[0])
		if err != nil {
			return err
		}

		idx, args = i, args[1:]
	default:
		return errors.New("expected [index] <r> <g> <b>")
	}

	c, err := parseRGB(args)
	if err != nil {
		return err
	}

	o.Colors[idx] = c

	return nil
}

func setBackground(o *config.Options, args []string, _ *effects.Registry) error {
	if len(args) != 3 {
		return errors.New("expected <r> <g> <b>")
	}

	c, err := parseRGB(args)
	if err != nil {
		return err
	}

	o.Background = c

	return nil
}

func setFloat(validate func(float64) error, assign func(*config.Options, float64)) setter {
	return func(o *config.Options, args []string, _ *effects.Registry) error {
		if len(args) != 1 {
			return errors.New("expected one number")
		}

		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", args[0])
		}

		if validate(v) != nil {
			return fmt.Errorf("must be non-negative and finite, got %s", args[0])
		}

		assign(o, v)

		return nil
	}
}

func setFrequency(o *config.Options, args []string, _ *effects.Registry) error {
	if len(args) != 1 {
		return errors.New("expected one integer")
	}

	hz, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid integer %q", args[0])
	}

	if config.ValidateFrequency(hz) != nil {
		return fmt.Errorf("must be positive, got %d", hz)
	}

	o.Frequency = hz

	return nil
}

func setBool(assign func(*config.Options, bool)) setter {
	return func(o *config.Options, args []string, _ *effects.Registry) error {
		if len(args) != 1 {
			return errors.New("expected true or false")
		}

		v, err := strconv.ParseBool(args[0])
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", args[0])
		}

		assign(o, v)

		return nil
	}
}

func setEffect(o *config.Options, args []string, reg *effects.Registry) error {
	if len(args) != 1 {
		return errors.New("expected an effect name")
	}

	name := strings.ToLower(args[0])
	if _, err := reg.Resolve(name); err != nil {
		return err
	}

	o.Effect = name

	return nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid color index %q", s)
	}

	if i < 0 || i >= config.MaxColors {
		return 0, fmt.Errorf("color index %d out of range [0, %d]", i, config.MaxColors-1)
	}

	return i, nil
}

// parseComponent parses an integer and clamps it to [0, 255].
func parseComponent(s string) (uint8, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid color value %q", s)
	}

	return config.RGB(v, 0, 0).R, nil
}

func parseRGB(args []string) (config.Color, error) {
	var c config.Color

	for i, dst := range []*uint8{&c.R, &c.G, &c.B} {
		v, err := parseComponent(args[i])
		if err != nil {
			return config.Color{}, err
		}

		*dst = v
	}

	return c, nil
}
