package device

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-ledviz/config"
)

const terminalCell = "██"

// Terminal renders each group as one line of colored blocks and redraws in
// place on every flush.
type Terminal struct {
	out      *bufio.Writer
	renderer *lipgloss.Renderer
	layout   Layout
	staged   [][]config.Color
	label    lipgloss.Style
	drawn    bool
}

// NewTerminal returns a terminal fabric writing to w.
func NewTerminal(w io.Writer, layout Layout) *Terminal {
	r := lipgloss.NewRenderer(w)

	width := 0
	for _, g := range layout.Groups {
		width = max(width, len(g.Name))
	}

	t := &Terminal{
		out:      bufio.NewWriter(w),
		renderer: r,
		layout:   layout,
		staged:   make([][]config.Color, len(layout.Groups)),
		label:    r.NewStyle().Width(width + 1).Bold(true),
	}

	for i, g := range layout.Groups {
		t.staged[i] = make([]config.Color, g.Positions)
	}

	return t
}

// Lengths implements engine.Device.
func (t *Terminal) Lengths() []int {
	return t.layout.Lengths()
}

// SetColors implements engine.Device.
func (t *Terminal) SetColors(group int, colors []config.Color) error {
	if err := checkGroup(t.layout.Lengths(), group, len(colors)); err != nil {
		return err
	}

	copy(t.staged[group], colors)

	return nil
}

// Flush implements engine.Device.
func (t *Terminal) Flush() error {
	if t.drawn {
		// Move the cursor back to the first group line.
		fmt.Fprintf(t.out, "\x1b[%dA", len(t.staged))
	}

	for i, g := range t.staged {
		t.out.WriteString("\r")
		t.out.WriteString(t.label.Render(t.layout.Groups[i].Name))

		for _, c := range g {
			t.out.WriteString(t.renderer.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render(terminalCell))
		}

		t.out.WriteString("\x1b[K\n")
	}

	t.drawn = true

	return t.out.Flush()
}
