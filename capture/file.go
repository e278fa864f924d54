package capture

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/cwbudde/algo-ledviz/engine"
)

// maxBacklog is the number of packets a FileSource lets accumulate before it
// skips ahead to the wall clock.
const maxBacklog = 8

// FileSource plays an audio file in real time. It implements engine.Source.
type FileSource struct {
	path     string
	raw      RawFormat
	loop     bool
	buffer   time.Duration
	now      func() time.Time
	log      zerolog.Logger
	stream   Stream
	closer   io.Closer
	rate     int
	channels int
	packet   int
	buf      []float32
	start    time.Time
	emitted  int64
	ready    int
	acquired bool
}

// OpenFileSource opens path and prepares paced playback. The clock starts at
// the first NextPacketSize call.
func OpenFileSource(path string, opts ...Option) (*FileSource, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	stream, closer, err := OpenFile(path, o.raw)
	if err != nil {
		return nil, err
	}

	s := &FileSource{
		path:     path,
		raw:      o.raw,
		loop:     o.loop,
		buffer:   o.buffer,
		now:      o.now,
		log:      o.log.With().Str("file", path).Logger(),
		stream:   stream,
		closer:   closer,
		rate:     stream.SampleRate(),
		channels: stream.Channels(),
	}

	if s.rate <= 0 || s.channels <= 0 {
		closer.Close()
		return nil, fmt.Errorf("%w: %d Hz, %d channels", ErrUnsupportedFormat, s.rate, s.channels)
	}

	s.packet = packetFrames(o.buffer, s.rate)
	s.buf = make([]float32, s.packet*s.channels)

	s.log.Debug().Int("rate", s.rate).Int("channels", s.channels).Int("packet", s.packet).Msg("file source opened")

	return s, nil
}

// SampleRate returns the stream sample rate.
func (s *FileSource) SampleRate() int { return s.rate }

// Channels implements engine.Source.
func (s *FileSource) Channels() int { return s.channels }

// BufferDuration implements engine.Source.
func (s *FileSource) BufferDuration() time.Duration { return s.buffer }

// NextPacketSize implements engine.Source. It reports a packet once a full
// buffer period of audio is due by the wall clock.
func (s *FileSource) NextPacketSize() (int, error) {
	if s.ready > 0 {
		return s.ready, nil
	}

	now := s.now()
	if s.start.IsZero() {
		s.start = now
	}

	elapsed := int64(now.Sub(s.start).Seconds() * float64(s.rate))
	due := elapsed - s.emitted

	if due > maxBacklog*int64(s.packet) {
		s.log.Debug().Int64("frames", due-int64(s.packet)).Msg("skipping ahead")
		s.emitted = elapsed - int64(s.packet)
		due = int64(s.packet)
	}

	if due < int64(s.packet) {
		return 0, nil
	}

	n, err := s.fill()
	if err != nil {
		return 0, err
	}

	s.ready = n

	return n, nil
}

// fill reads the next packet, rewinding at the end when looping.
func (s *FileSource) fill() (int, error) {
	n, err := ReadFrames(s.stream, s.buf)
	if n > 0 {
		return n, nil
	}

	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read %s: %w", s.path, err)
	}

	if !s.loop {
		return 0, ErrEndOfStream
	}

	if err := s.rewind(); err != nil {
		return 0, err
	}

	n, err = ReadFrames(s.stream, s.buf)
	if n > 0 {
		return n, nil
	}

	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read %s: %w", s.path, err)
	}

	// Nothing to loop over.
	return 0, ErrEndOfStream
}

func (s *FileSource) rewind() error {
	s.closer.Close()
	s.closer = nopCloser{}

	stream, closer, err := OpenFile(s.path, s.raw)
	if err != nil {
		return err
	}

	if stream.SampleRate() != s.rate || stream.Channels() != s.channels {
		closer.Close()
		return fmt.Errorf("%s changed format while looping", s.path)
	}

	s.stream, s.closer = stream, closer
	s.log.Debug().Msg("looping")

	return nil
}

// Acquire implements engine.Source.
func (s *FileSource) Acquire() (engine.Batch, error) {
	if s.ready == 0 || s.acquired {
		return engine.Batch{}, ErrNoPacket
	}

	s.acquired = true

	return engine.Batch{Frames: s.ready, Samples: s.buf[:s.ready*s.channels]}, nil
}

// Release implements engine.Source.
func (s *FileSource) Release(frames int) error {
	if !s.acquired {
		return ErrNoPacket
	}

	if frames != s.ready {
		return fmt.Errorf("release of %d frames, %d acquired", frames, s.ready)
	}

	s.emitted += int64(frames)
	s.ready = 0
	s.acquired = false

	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Close releases the file.
func (s *FileSource) Close() error {
	return s.closer.Close()
}
