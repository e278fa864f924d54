package capture

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/require"
)

// writeWAV encodes interleaved 16-bit samples to a file in a temp dir.
func writeWAV(t *testing.T, rate, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.wav")

	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	return path
}

// stereoFrames repeats one (left, right) frame n times.
func stereoFrames(left, right, n int) []int {
	out := make([]int, 0, 2*n)
	for range n {
		out = append(out, left, right)
	}

	return out
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
