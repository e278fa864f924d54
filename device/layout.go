package device

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// dmxSlots is the number of channels in one DMX universe.
const dmxSlots = 512

// Group is one addressable LED strip, driven by one audio channel.
type Group struct {
	Name      string `yaml:"name" mapstructure:"name"`
	Positions int    `yaml:"positions" mapstructure:"positions"`
	// Universe and Slot place the group's RGB triples in Art-Net output.
	Universe uint16 `yaml:"universe" mapstructure:"universe"`
	Slot     int    `yaml:"slot" mapstructure:"slot"`
}

// Layout is the ordered list of groups.
type Layout struct {
	Groups []Group `yaml:"groups" mapstructure:"groups"`
}

// DefaultLayout returns a stereo layout of two 8-position strips.
func DefaultLayout() Layout {
	return Layout{Groups: []Group{
		{Name: "left", Positions: 8, Universe: 0},
		{Name: "right", Positions: 8, Universe: 1},
	}}
}

// Lengths returns the position count of each group.
func (l Layout) Lengths() []int {
	out := make([]int, len(l.Groups))
	for i, g := range l.Groups {
		out[i] = g.Positions
	}

	return out
}

// Validate checks group sizes and DMX placement.
func (l Layout) Validate() error {
	if len(l.Groups) == 0 {
		return fmt.Errorf("%w: no groups", ErrInvalidLayout)
	}

	for i, g := range l.Groups {
		if g.Positions <= 0 {
			return fmt.Errorf("%w: group %d has %d positions", ErrInvalidLayout, i, g.Positions)
		}

		if g.Slot < 0 || g.Slot+3*g.Positions > dmxSlots {
			return fmt.Errorf("%w: group %d does not fit a DMX universe (slot %d, %d positions)",
				ErrInvalidLayout, i, g.Slot, g.Positions)
		}
	}

	return nil
}

// ParseLayout decodes and validates a YAML layout document.
func ParseLayout(data []byte) (Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}

	for i := range l.Groups {
		if l.Groups[i].Name == "" {
			l.Groups[i].Name = fmt.Sprintf("group%d", i)
		}
	}

	if err := l.Validate(); err != nil {
		return Layout{}, err
	}

	return l, nil
}

// LoadLayout reads a YAML layout file.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}

	return ParseLayout(data)
}

// Marshal encodes the layout as YAML.
func (l Layout) Marshal() ([]byte, error) {
	return yaml.Marshal(l)
}
