package command

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-ledviz/config"
	"github.com/cwbudde/algo-ledviz/effects"
)

// WriteProfile writes o in profile form. Floats use the shortest
// representation that parses back to the same value.
func WriteProfile(w io.Writer, o *config.Options) error {
	bw := bufio.NewWriter(w)

	for i, c := range o.Colors {
		fmt.Fprintf(bw, "color %d %d %d %d\n", i, c.R, c.G, c.B)
	}

	fmt.Fprintf(bw, "background %d %d %d\n", o.Background.R, o.Background.G, o.Background.B)
	fmt.Fprintf(bw, "smooth %t\n", o.Smooth)
	fmt.Fprintf(bw, "gain %s\n", formatFloat(o.Gain))
	fmt.Fprintf(bw, "fall %s\n", formatFloat(o.Fall))
	fmt.Fprintf(bw, "hold %s\n", formatFloat(o.Hold))
	fmt.Fprintf(bw, "frequency %d\n", o.Frequency)
	fmt.Fprintf(bw, "multicolor %t\n", o.Multicolor)
	fmt.Fprintf(bw, "effect %s\n", o.Effect)

	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// LineError is a profile line that could not be applied.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// ReadProfile applies every line of r to o as a set command. Blank lines and
// lines starting with '#' are skipped. Lines that fail leave o unchanged and
// are reported; the remaining lines still apply.
func ReadProfile(r io.Reader, o *config.Options, reg *effects.Registry) ([]*LineError, error) {
	var bad []*LineError

	sc := bufio.NewScanner(r)
	line := 0

	for sc.Scan() {
		line++

		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		next := *o
		if err := applySet(&next, fields, reg); err != nil {
			bad = append(bad, &LineError{Line: line, Err: err})
			continue
		}

		*o = next
	}

	if err := sc.Err(); err != nil {
		return bad, fmt.Errorf("read profile: %w", err)
	}

	return bad, nil
}
