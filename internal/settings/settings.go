// Package settings loads the application settings: where audio comes from,
// which lighting fabric to drive, where profiles live, logging and metrics.
//
// Settings are read with viper from a YAML file and LEDVIZ_* environment
// variables (LEDVIZ_DEVICE_KIND overrides device.kind), with command line
// flags taking precedence when bound.
package settings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-ledviz/internal/logging"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LEDVIZ"

// Device kinds.
const (
	DeviceMemory   = "memory"
	DeviceTerminal = "terminal"
	DeviceArtNet   = "artnet"
)

// Settings is the complete application configuration.
type Settings struct {
	Log      logging.Config `mapstructure:"log" yaml:"log"`
	Audio    Audio          `mapstructure:"audio" yaml:"audio"`
	Device   Device         `mapstructure:"device" yaml:"device"`
	Profiles Profiles       `mapstructure:"profiles" yaml:"profiles"`
	Metrics  Metrics        `mapstructure:"metrics" yaml:"metrics"`
}

// Audio selects the capture source.
type Audio struct {
	// Input is an audio file path, or "-" for raw PCM on stdin. When empty
	// Command is started and its stdout is read.
	Input      string   `mapstructure:"input" yaml:"input"`
	Command    []string `mapstructure:"command" yaml:"command"`
	SampleRate int      `mapstructure:"sample_rate" yaml:"sample_rate"`
	Channels   int      `mapstructure:"channels" yaml:"channels"`
	Buffer     string   `mapstructure:"buffer" yaml:"buffer"`
	Loop       bool     `mapstructure:"loop" yaml:"loop"`
}

// BufferDuration parses Buffer.
func (a Audio) BufferDuration() (time.Duration, error) {
	d, err := time.ParseDuration(a.Buffer)
	if err != nil {
		return 0, fmt.Errorf("audio.buffer: %w", err)
	}

	if d <= 0 {
		return 0, fmt.Errorf("audio.buffer must be positive: %s", a.Buffer)
	}

	return d, nil
}

// Device selects and configures the lighting fabric.
type Device struct {
	Kind string `mapstructure:"kind" yaml:"kind"`
	// Layout is a YAML group layout file; empty uses two 8-position groups.
	Layout  string `mapstructure:"layout" yaml:"layout"`
	Address string `mapstructure:"address" yaml:"address"`
	Sync    bool   `mapstructure:"sync" yaml:"sync"`
}

// Profiles configures profile storage.
type Profiles struct {
	Dir     string `mapstructure:"dir" yaml:"dir"`
	Default string `mapstructure:"default" yaml:"default"`
	Watch   bool   `mapstructure:"watch" yaml:"watch"`
}

// Metrics configures the Prometheus endpoint.
type Metrics struct {
	// Listen is the HTTP address for /metrics; empty disables it.
	Listen string `mapstructure:"listen" yaml:"listen"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Log: logging.Config{Level: "info", Console: true},
		Audio: Audio{
			Command: []string{
				"parec", "--raw", "--format=float32le", "--rate=48000", "--channels=2",
				"--device=@DEFAULT_MONITOR@",
			},
			SampleRate: 48000,
			Channels:   2,
			Buffer:     "10ms",
		},
		Device: Device{
			Kind: DeviceTerminal,
			Sync: true,
		},
		Profiles: Profiles{
			Dir:     ".",
			Default: "default",
		},
	}
}

// Validate checks value ranges and cross references.
func (s *Settings) Validate() error {
	var errs []error

	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		errs = append(errs, err)
	}

	if s.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive: %d", s.Audio.SampleRate))
	}

	if s.Audio.Channels <= 0 {
		errs = append(errs, fmt.Errorf("audio.channels must be positive: %d", s.Audio.Channels))
	}

	if _, err := s.Audio.BufferDuration(); err != nil {
		errs = append(errs, err)
	}

	if s.Audio.Input == "" && len(s.Audio.Command) == 0 {
		errs = append(errs, errors.New("audio.input or audio.command is required"))
	}

	switch s.Device.Kind {
	case DeviceMemory, DeviceTerminal:
	case DeviceArtNet:
		if s.Device.Address == "" {
			errs = append(errs, errors.New("device.address is required for artnet"))
		}
	default:
		errs = append(errs, fmt.Errorf("device.kind must be memory, terminal or artnet: %q", s.Device.Kind))
	}

	return errors.Join(errs...)
}

// Load reads settings. An explicit path must exist; otherwise ledviz.yaml is
// looked up in the working directory and $HOME/.config/ledviz, and a missing
// file leaves the defaults in place. flags maps setting keys to flags of fs
// that override them when set.
func Load(path string, fs *pflag.FlagSet, flags map[string]string) (*Settings, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ledviz")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/ledviz")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}

	for key, name := range flags {
		if fs == nil {
			break
		}

		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &s, nil
}

func setDefaults(v *viper.Viper, d Settings) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.console", d.Log.Console)
	v.SetDefault("audio.input", d.Audio.Input)
	v.SetDefault("audio.command", d.Audio.Command)
	v.SetDefault("audio.sample_rate", d.Audio.SampleRate)
	v.SetDefault("audio.channels", d.Audio.Channels)
	v.SetDefault("audio.buffer", d.Audio.Buffer)
	v.SetDefault("audio.loop", d.Audio.Loop)
	v.SetDefault("device.kind", d.Device.Kind)
	v.SetDefault("device.layout", d.Device.Layout)
	v.SetDefault("device.address", d.Device.Address)
	v.SetDefault("device.sync", d.Device.Sync)
	v.SetDefault("profiles.dir", d.Profiles.Dir)
	v.SetDefault("profiles.default", d.Profiles.Default)
	v.SetDefault("profiles.watch", d.Profiles.Watch)
	v.SetDefault("metrics.listen", d.Metrics.Listen)
}

// Write encodes s as YAML.
func Write(w io.Writer, s *Settings) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	return enc.Close()
}

// WriteFile writes s to path, refusing to replace an existing file unless
// force is set.
func WriteFile(path string, s *Settings, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create settings file: %w", err)
	}

	if err := Write(f, s); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
