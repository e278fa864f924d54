package settings

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	s := Default()
	require.NoError(t, s.Validate())

	d, err := s.Audio.BufferDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, d)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, `
log:
  level: debug
audio:
  input: song.ogg
  loop: true
device:
  kind: artnet
  address: 10.0.0.5
profiles:
  dir: /tmp/profiles
metrics:
  listen: ":9100"
`)

	s, err := Load(path, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", s.Log.Level)
	assert.True(t, s.Log.Console, "unset keys keep their defaults")
	assert.Equal(t, "song.ogg", s.Audio.Input)
	assert.True(t, s.Audio.Loop)
	assert.Equal(t, 48000, s.Audio.SampleRate)
	assert.Equal(t, DeviceArtNet, s.Device.Kind)
	assert.Equal(t, "10.0.0.5", s.Device.Address)
	assert.Equal(t, "/tmp/profiles", s.Profiles.Dir)
	assert.Equal(t, "default", s.Profiles.Default)
	assert.Equal(t, ":9100", s.Metrics.Listen)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LEDVIZ_DEVICE_KIND", "memory")
	t.Setenv("LEDVIZ_AUDIO_SAMPLE_RATE", "44100")

	s, err := Load(writeSettings(t, "device:\n  kind: terminal\n"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DeviceMemory, s.Device.Kind)
	assert.Equal(t, 44100, s.Audio.SampleRate)
}

func TestLoadFlagOverride(t *testing.T) {
	t.Parallel()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("device", "", "")
	fs.String("input", "", "")
	require.NoError(t, fs.Parse([]string{"--device", "memory"}))

	s, err := Load(writeSettings(t, "audio:\n  input: a.wav\n"), fs, map[string]string{
		"device.kind": "device",
		"audio.input": "input",
	})
	require.NoError(t, err)
	assert.Equal(t, DeviceMemory, s.Device.Kind)
	assert.Equal(t, "a.wav", s.Audio.Input, "unset flags do not override")
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil, nil)
	require.Error(t, err)

	_, err = Load(writeSettings(t, "device:\n  kind: laser\n"), nil, nil)
	require.ErrorContains(t, err, "device.kind")

	_, err = Load(writeSettings(t, "device:\n  kind: artnet\n"), nil, nil)
	require.ErrorContains(t, err, "device.address")

	_, err = Load(writeSettings(t, "audio:\n  buffer: soon\n"), nil, nil)
	require.ErrorContains(t, err, "audio.buffer")

	_, err = Load(writeSettings(t, "audio:\n  channels: 0\n"), nil, nil)
	require.ErrorContains(t, err, "audio.channels")
}

func TestWriteRoundTrip(t *testing.T) {
	t.Parallel()

	want := Default()
	want.Device.Kind = DeviceMemory
	want.Audio.Input = "-"

	path := filepath.Join(t.TempDir(), "sub", "ledviz.yaml")
	require.NoError(t, WriteFile(path, &want, false))
	require.Error(t, WriteFile(path, &want, false))
	require.NoError(t, WriteFile(path, &want, true))

	got, err := Load(path, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, &want))
	assert.Contains(t, buf.String(), "sample_rate: 48000")
	assert.Contains(t, buf.String(), "buffer: 10ms")
}
