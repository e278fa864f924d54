package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-ledviz/capture"
	"github.com/cwbudde/algo-ledviz/command"
	"github.com/cwbudde/algo-ledviz/config"
	"github.com/cwbudde/algo-ledviz/engine"
	"github.com/cwbudde/algo-ledviz/internal/metrics"
	"github.com/cwbudde/algo-ledviz/internal/settings"
	"github.com/cwbudde/algo-ledviz/internal/watch"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the visualizer",
		Long: `Start the visualizer and read commands from standard input.

Type 'help' at the prompt for the command list. 'reset' restarts the engine
with the current options, 'quit' exits. When audio is read from stdin
(--input -) no commands are read and the visualizer runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			log, err := newLogger(cmd, s)
			if err != nil {
				return err
			}

			return runVisualizer(cmd.Context(), s, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), log)
		},
	}
}

// session is one visualizer process: the shared options, the interpreter
// editing them, and the engine runs driven from them.
type session struct {
	settings *settings.Settings
	store    *config.Store
	interp   *command.Interpreter
	dev      engine.Device
	in       io.Reader
	out      io.Writer
	log      zerolog.Logger
	lines    <-chan string
}

func runVisualizer(ctx context.Context, s *settings.Settings, in io.Reader, out, preview io.Writer, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := &session{
		settings: s,
		store:    config.NewStore(config.Default()),
		in:       in,
		out:      out,
		log:      log,
	}

	// Commands share stdin with the audio only when audio comes from a file
	// or a capture command.
	if s.Audio.Input != "-" {
		sess.lines = readLines(ctx, in)
	}

	interp, err := command.New(sess.store,
		command.WithOutput(out),
		command.WithProfileDir(s.Profiles.Dir),
		command.WithVersion(version),
		command.WithConfirm(sess.confirm),
		command.WithLogger(log),
	)
	if err != nil {
		return err
	}

	sess.interp = interp

	if err := sess.loadDefaultProfile(ctx); err != nil {
		return err
	}

	dev, closer, err := openDevice(s.Device, preview)
	if err != nil {
		return err
	}
	defer closer.Close()

	sess.dev = dev

	if s.Metrics.Listen != "" {
		go func() {
			if err := metrics.Serve(ctx, s.Metrics.Listen, log); err != nil {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	for {
		action, err := sess.runOnce(ctx)
		if err != nil {
			return err
		}

		if action != command.ActionReset {
			return nil
		}

		fmt.Fprintln(out, "Restarting...")
	}
}

// loadDefaultProfile applies the default profile if it exists and, when
// enabled, keeps reapplying it on change.
func (s *session) loadDefaultProfile(ctx context.Context) error {
	name := s.settings.Profiles.Default
	if name == "" {
		return nil
	}

	path := s.interp.ProfilePath(name)
	if _, err := os.Stat(path); err != nil {
		s.log.Debug().Str("profile", path).Msg("no default profile")
		return nil
	}

	if err := s.interp.Load(name); err != nil {
		return err
	}

	if !s.settings.Profiles.Watch {
		return nil
	}

	w, err := watch.New(path, func() error { return s.interp.Load(name) }, s.log)
	if err != nil {
		return err
	}

	go func() {
		if err := w.Run(ctx); err != nil {
			s.log.Error().Err(err).Msg("profile watcher stopped")
		}
	}()

	return nil
}

// runOnce runs one engine until the user quits or resets, or ctx ends.
func (s *session) runOnce(ctx context.Context) (command.Action, error) {
	src, err := openSource(ctx, s.settings.Audio, s.in, s.log)
	if err != nil {
		return command.ActionNone, err
	}
	defer src.Close()

	eng, err := engine.New(s.store, src, s.dev, engine.WithLogger(s.log))
	if err != nil {
		return command.ActionNone, err
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- eng.Run(runCtx) }()

	fmt.Fprintln(s.out, "Starting...")

	if s.lines != nil {
		fmt.Fprint(s.out, "Enter a command\nType 'help' for a list of commands, 'quit' to exit\n> ")
	}

	running := true

	for {
		select {
		case <-ctx.Done():
			stop()

			if running {
				<-done
			}

			return command.ActionQuit, nil

		case err := <-done:
			running = false

			if s.lines == nil {
				return command.ActionQuit, engineResult(err)
			}

			s.reportStop(err)

		case line, ok := <-s.lines:
			if !ok {
				line = "quit"
			}

			action := s.interp.Execute(line)
			if action == command.ActionNone {
				fmt.Fprint(s.out, "> ")
				continue
			}

			stop()

			if running {
				if err := <-done; err != nil {
					s.log.Warn().Err(err).Msg("engine ended with error during shutdown")
				}
			}

			return action, nil
		}
	}
}

func (s *session) reportStop(err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, capture.ErrEndOfStream):
		fmt.Fprint(s.out, "\nEnd of audio. Type 'reset' to play again or 'quit' to exit\n> ")
	default:
		fmt.Fprintf(s.out, "\nEngine stopped: %v\nType 'reset' to restart or 'quit' to exit\n> ", err)
	}
}

// engineResult maps the end of an engine run without a command loop to the
// process result. Running out of audio is a normal exit.
func engineResult(err error) error {
	if errors.Is(err, capture.ErrEndOfStream) {
		return nil
	}

	return err
}

// confirm prompts on the output and reads the answer from the command input.
func (s *session) confirm(prompt string) bool {
	if s.lines == nil {
		return false
	}

	for {
		fmt.Fprintln(s.out, prompt)

		answer, ok := <-s.lines
		if !ok {
			return false
		}

		switch strings.TrimSpace(answer) {
		case "y", "Y":
			return true
		case "", "n", "N":
			return false
		}
	}
}

// readLines forwards input lines until EOF or ctx ends.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	return lines
}
