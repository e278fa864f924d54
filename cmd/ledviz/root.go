package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-ledviz/internal/logging"
	"github.com/cwbudde/algo-ledviz/internal/settings"
)

// settingFlags maps setting keys to the persistent flags overriding them.
var settingFlags = map[string]string{
	"log.level":      "log-level",
	"audio.input":    "input",
	"audio.loop":     "loop",
	"device.kind":    "device",
	"device.layout":  "layout",
	"device.address": "address",
	"profiles.dir":   "profiles",
	"profiles.watch": "watch",
	"metrics.listen": "metrics-listen",
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ledviz",
		Short: "Audio-reactive LED visualizer",
		Long: titleStyle.Render("ledviz") + `

Turns the loudness of each audio channel into bar, pulse or double bar
animations on LED groups. Settings come from ledviz.yaml, LEDVIZ_*
environment variables and the flags below.

` + dimStyle.Render("Use 'ledviz [command] --help' for more information."),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "settings file (default ./ledviz.yaml or ~/.config/ledviz/ledviz.yaml)")
	pf.String("log-level", "", "log level: trace, debug, info, warn, error")
	pf.String("input", "", "audio file, or - for raw float32le PCM on stdin")
	pf.Bool("loop", false, "loop file playback")
	pf.String("device", "", "lighting fabric: memory, terminal or artnet")
	pf.String("layout", "", "YAML group layout file")
	pf.String("address", "", "Art-Net node address")
	pf.String("profiles", "", "profile directory")
	pf.Bool("watch", false, "reload the default profile when it changes")
	pf.String("metrics-listen", "", "serve Prometheus metrics on this address")

	root.AddCommand(
		newRunCmd(),
		newAnalyzeCmd(),
		newEffectsCmd(),
		newSettingsCmd(),
		newVersionCmd(),
	)

	return root
}

// loadSettings reads the settings honoring --config and the bound flags.
func loadSettings(cmd *cobra.Command) (*settings.Settings, error) {
	path, _ := cmd.Flags().GetString("config")
	return settings.Load(path, cmd.Flags(), settingFlags)
}

func newLogger(cmd *cobra.Command, s *settings.Settings) (zerolog.Logger, error) {
	return logging.New(s.Log, cmd.ErrOrStderr())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ledviz v%s\n", version)
		},
	}
}
