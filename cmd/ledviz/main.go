// Command ledviz drives addressable LED groups from live or recorded audio.
//
// Usage:
//
//	ledviz run [flags]            start the visualizer and read commands from stdin
//	ledviz analyze [flags] FILE   print per-window levels and spectrum of a file
//	ledviz effects                list the available effects
//	ledviz settings init [PATH]   write the default settings file
//	ledviz version
//
// Examples:
//
//	ledviz run --device terminal
//	ledviz run --input song.ogg --loop --device artnet --address 10.0.0.20
//	parec --raw --format=float32le --rate=48000 --channels=2 | ledviz run --input -
//	ledviz analyze --profile party song.wav
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
)

// version is set at build time.
var version = "0.1.1"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
