package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBuffer = 10 * time.Millisecond
	defaultQueue  = 64
)

var (
	// ErrUnsupportedFormat is returned for files that cannot be decoded.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrEndOfStream is returned once a non-looping source is exhausted.
	ErrEndOfStream = errors.New("end of audio stream")
	// ErrNoPacket is returned by Acquire or Release without a pending packet.
	ErrNoPacket = errors.New("no packet pending")

	errClosed = errors.New("source closed")
)

// RawFormat describes headerless float32 little-endian PCM.
type RawFormat struct {
	SampleRate int `mapstructure:"sample_rate" yaml:"sample_rate"`
	Channels   int `mapstructure:"channels" yaml:"channels"`
}

// DefaultRawFormat is 48 kHz stereo.
func DefaultRawFormat() RawFormat {
	return RawFormat{SampleRate: 48000, Channels: 2}
}

func (f RawFormat) validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %d", f.SampleRate)
	}

	if f.Channels <= 0 {
		return fmt.Errorf("channel count must be positive: %d", f.Channels)
	}

	return nil
}

type options struct {
	buffer time.Duration
	loop   bool
	raw    RawFormat
	queue  int
	now    func() time.Time
	log    zerolog.Logger
}

func defaultOptions() options {
	return options{
		buffer: defaultBuffer,
		raw:    DefaultRawFormat(),
		queue:  defaultQueue,
		now:    time.Now,
		log:    zerolog.Nop(),
	}
}

func applyOptions(opts []Option) (options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.buffer <= 0 {
		return o, fmt.Errorf("buffer duration must be positive: %s", o.buffer)
	}

	if o.queue <= 0 {
		return o, fmt.Errorf("queue length must be positive: %d", o.queue)
	}

	return o, nil
}

// Option configures a source.
type Option func(*options)

// WithBuffer sets the packet length. The engine tick is derived from it.
func WithBuffer(d time.Duration) Option {
	return func(o *options) { o.buffer = d }
}

// WithLoop restarts file playback at the end instead of reporting
// ErrEndOfStream.
func WithLoop(loop bool) Option {
	return func(o *options) { o.loop = loop }
}

// WithRawFormat sets the layout of headerless input.
func WithRawFormat(f RawFormat) Option {
	return func(o *options) { o.raw = f }
}

// WithQueue sets how many packets a live source buffers before dropping.
func WithQueue(n int) Option {
	return func(o *options) { o.queue = n }
}

// WithClock replaces time.Now for pacing.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the source logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

func packetFrames(buffer time.Duration, rate int) int {
	return max(1, int(buffer.Seconds()*float64(rate)))
}
