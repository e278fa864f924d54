package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-ledviz/capture"
	"github.com/cwbudde/algo-ledviz/command"
	"github.com/cwbudde/algo-ledviz/config"
	"github.com/cwbudde/algo-ledviz/dsp/envelope"
	"github.com/cwbudde/algo-ledviz/internal/settings"
	"github.com/cwbudde/algo-ledviz/measure/spectrum"
)

type analyzeParams struct {
	profile  string
	window   string
	fftSize  int
	interval time.Duration
}

func newAnalyzeCmd() *cobra.Command {
	var p analyzeParams

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Print per-window channel levels and spectrum of an audio file",
		Long: `Run an audio file through the envelope follower offline, one engine cycle
at a time, and print the channel levels together with the dominant frequency
and spectral centroid of the mono mix at every interval.

The follower uses the default options, or the given profile.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			opts, err := analyzeOptions(cmd, s, p.profile)
			if err != nil {
				return err
			}

			raw := capture.RawFormat{SampleRate: s.Audio.SampleRate, Channels: s.Audio.Channels}

			stream, closer, err := capture.OpenFile(args[0], raw)
			if err != nil {
				return err
			}
			defer closer.Close()

			return analyze(cmd.OutOrStdout(), stream, opts, p)
		},
	}

	cmd.Flags().StringVar(&p.profile, "profile", "", "profile to take gain, fall, hold and frequency from")
	cmd.Flags().StringVar(&p.window, "window", "hann",
		"spectrum window: "+strings.Join(spectrum.WindowNames(), ", "))
	cmd.Flags().IntVar(&p.fftSize, "fft", 4096, "spectrum size in samples (power of two)")
	cmd.Flags().DurationVar(&p.interval, "interval", 100*time.Millisecond, "time between printed rows")

	return cmd
}

func analyzeOptions(cmd *cobra.Command, s *settings.Settings, profile string) (config.Options, error) {
	store := config.NewStore(config.Default())
	if profile == "" {
		return store.Snapshot(), nil
	}

	interp, err := command.New(store,
		command.WithOutput(cmd.ErrOrStderr()),
		command.WithProfileDir(s.Profiles.Dir),
	)
	if err != nil {
		return config.Options{}, err
	}

	if err := interp.Load(profile); err != nil {
		return config.Options{}, err
	}

	return store.Snapshot(), nil
}

// analyze steps one follower per channel over blocks of one engine cycle and
// prints a row every p.interval of audio.
func analyze(w io.Writer, stream capture.Stream, opts config.Options, p analyzeParams) error {
	if opts.Frequency <= 0 {
		return fmt.Errorf("frequency must be positive, got %d", opts.Frequency)
	}

	if p.interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", p.interval)
	}

	rate, channels := stream.SampleRate(), stream.Channels()

	win, err := spectrum.ParseWindow(p.window)
	if err != nil {
		return err
	}

	an, err := spectrum.NewAnalyzer(p.fftSize, float64(rate), spectrum.WithWindow(win))
	if err != nil {
		return err
	}

	period := opts.CycleSeconds()
	frames := max(int(float64(rate)*period+0.5), 1)
	every := max(int(p.interval.Seconds()/period+0.5), 1)
	params := envelope.Params{
		Gain:      opts.Gain,
		Fall:      opts.Fall,
		Hold:      opts.Hold,
		Frequency: opts.Frequency,
	}

	followers := make([]*envelope.Follower, channels)
	for i := range followers {
		followers[i] = envelope.NewFollower()
	}

	levels := make([]float64, channels)
	block := make([]float32, frames*channels)
	mono := make([]float64, 0, p.fftSize)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{"TIME"}
	for c := range channels {
		header = append(header, fmt.Sprintf("CH%d", c))
	}

	header = append(header, "PEAK HZ", "CENTROID HZ")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for cycle := 0; ; cycle++ {
		n, err := capture.ReadFrames(stream, block)
		if n > 0 {
			for c, f := range followers {
				levels[c] = f.Process(block, n, channels, c, params)
			}

			mono = appendMono(mono, block[:n*channels], channels, p.fftSize)

			if cycle%every == 0 {
				if err := writeRow(tw, an, cycle, frames, rate, levels, mono); err != nil {
					return err
				}
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return err
		}
	}

	return tw.Flush()
}

func writeRow(tw io.Writer, an *spectrum.Analyzer, cycle, frames, rate int, levels, mono []float64) error {
	res, err := an.Analyze(mono)
	if err != nil {
		return err
	}

	at := time.Duration(cycle) * time.Duration(frames) * time.Second / time.Duration(rate)

	row := []string{fmt.Sprintf("%.2fs", at.Seconds())}
	for _, l := range levels {
		row = append(row, fmt.Sprintf("%.2f", l))
	}

	row = append(row, fmt.Sprintf("%.0f", res.Peak), fmt.Sprintf("%.0f", res.Centroid))
	_, err = fmt.Fprintln(tw, strings.Join(row, "\t"))

	return err
}

// appendMono mixes interleaved frames down to mono and keeps the most recent
// size samples.
func appendMono(dst []float64, samples []float32, channels, size int) []float64 {
	scale := 1 / float64(channels)

	for i := 0; i+channels <= len(samples); i += channels {
		var sum float64
		for _, v := range samples[i : i+channels] {
			sum += float64(v)
		}

		dst = append(dst, sum*scale)
	}

	if over := len(dst) - size; over > 0 {
		dst = append(dst[:0], dst[over:]...)
	}

	return dst
}
