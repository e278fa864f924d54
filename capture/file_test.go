package capture

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openPaced(t *testing.T, path string, clock *fakeClock, opts ...Option) *FileSource {
	t.Helper()

	opts = append([]Option{WithClock(clock.Now), WithBuffer(10 * time.Millisecond)}, opts...)

	s, err := OpenFileSource(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

// consume acquires and releases the pending packet, returning its first frame.
func consume(t *testing.T, s *FileSource, frames int) []float32 {
	t.Helper()

	b, err := s.Acquire()
	require.NoError(t, err)
	require.Equal(t, frames, b.Frames)
	require.Len(t, b.Samples, frames*s.Channels())

	first := append([]float32(nil), b.Samples[:s.Channels()]...)
	require.NoError(t, s.Release(b.Frames))

	return first
}

func TestFileSourcePacing(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := openPaced(t, writeWAV(t, 1000, 2, stereoFrames(16384, -8192, 25)), clock)

	assert.Equal(t, 2, s.Channels())
	assert.Equal(t, 10*time.Millisecond, s.BufferDuration())

	n, err := s.NextPacketSize()
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = s.Acquire()
	require.ErrorIs(t, err, ErrNoPacket)
	require.ErrorIs(t, s.Release(0), ErrNoPacket)

	clock.Advance(11 * time.Millisecond)

	n, err = s.NextPacketSize()
	require.NoError(t, err)
	require.Equal(t, 10, n)

	// Repeated queries report the same pending packet.
	n, err = s.NextPacketSize()
	require.NoError(t, err)
	require.Equal(t, 10, n)

	assert.Equal(t, []float32{0.5, -0.25}, consume(t, s, 10))

	n, err = s.NextPacketSize()
	require.NoError(t, err)
	assert.Zero(t, n, "next packet is not due yet")

	clock.Advance(10 * time.Millisecond)
	n, err = s.NextPacketSize()
	require.NoError(t, err)
	require.Equal(t, 10, n)
	consume(t, s, 10)

	clock.Advance(10 * time.Millisecond)
	n, err = s.NextPacketSize()
	require.NoError(t, err)
	require.Equal(t, 5, n)
	consume(t, s, 5)

	clock.Advance(10 * time.Millisecond)
	_, err = s.NextPacketSize()
	require.ErrorIs(t, err, ErrEndOfStream)
}

func TestFileSourceLoops(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := openPaced(t, writeWAV(t, 1000, 2, stereoFrames(16384, 0, 15)), clock, WithLoop(true))

	clock.Advance(time.Millisecond)
	_, err := s.NextPacketSize()
	require.NoError(t, err)

	want := []int{10, 5, 10, 5, 10}
	for i, frames := range want {
		clock.Advance(10 * time.Millisecond)

		n, err := s.NextPacketSize()
		require.NoError(t, err, "packet %d", i)
		require.Equal(t, frames, n, "packet %d", i)
		assert.Equal(t, []float32{0.5, 0}, consume(t, s, frames))
	}
}

func TestFileSourceCloseAfterFailedRewind(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	path := writeWAV(t, 1000, 2, stereoFrames(16384, 0, 10))

	s, err := OpenFileSource(path, WithClock(clock.Now), WithBuffer(10*time.Millisecond), WithLoop(true))
	require.NoError(t, err)

	clock.Advance(time.Millisecond)
	_, err = s.NextPacketSize()
	require.NoError(t, err)

	clock.Advance(10 * time.Millisecond)
	n, err := s.NextPacketSize()
	require.NoError(t, err)
	require.Equal(t, 10, n)
	consume(t, s, n)

	// The open stream keeps working; only reopening for the loop fails.
	require.NoError(t, os.Remove(path))

	clock.Advance(10 * time.Millisecond)
	_, err = s.NextPacketSize()
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrEndOfStream)

	require.NoError(t, s.Close())
}

func TestFileSourceSkipsBacklog(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := openPaced(t, writeWAV(t, 1000, 1, make([]int, 50)), clock)

	_, err := s.NextPacketSize()
	require.NoError(t, err)

	clock.Advance(time.Second)

	n, err := s.NextPacketSize()
	require.NoError(t, err)
	require.Equal(t, 10, n)
	consume(t, s, 10)

	n, err = s.NextPacketSize()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFileSourceRaw(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "capture.f32")
	require.NoError(t, os.WriteFile(path, EncodeFloat32LE(nil, []float32{0.75, 0.75, 0.75, 0.75}), 0o600))

	clock := newFakeClock()
	s := openPaced(t, path, clock,
		WithRawFormat(RawFormat{SampleRate: 100, Channels: 1}),
		WithBuffer(20*time.Millisecond))

	assert.Equal(t, 100, s.SampleRate())

	_, err := s.NextPacketSize()
	require.NoError(t, err)

	clock.Advance(25 * time.Millisecond)

	n, err := s.NextPacketSize()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	assert.Equal(t, []float32{0.75}, consume(t, s, 2))
}

func TestFileSourceReleaseMismatch(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := openPaced(t, writeWAV(t, 1000, 1, make([]int, 20)), clock)

	_, err := s.NextPacketSize()
	require.NoError(t, err)
	clock.Advance(11 * time.Millisecond)

	n, err := s.NextPacketSize()
	require.NoError(t, err)

	_, err = s.Acquire()
	require.NoError(t, err)
	require.Error(t, s.Release(n-1))
	require.NoError(t, s.Release(n))
}

func TestOpenFileSourceErrors(t *testing.T) {
	t.Parallel()

	_, err := OpenFileSource(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)

	_, err = OpenFileSource("song.flac")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = OpenFileSource(writeWAV(t, 1000, 1, make([]int, 4)), WithBuffer(0))
	require.Error(t, err)
}
