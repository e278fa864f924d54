package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cwbudde/algo-ledviz/engine"
	"github.com/cwbudde/algo-ledviz/internal/metrics"
)

// PipeSource reads raw float32 little-endian PCM from a reader on a worker
// goroutine. It implements engine.Source. Every packet read is delivered in
// order; once the queue is full the worker stops reading and the pipe holds
// the backlog.
type PipeSource struct {
	format  RawFormat
	buffer  time.Duration
	packet  int
	log     zerolog.Logger
	r       io.Reader
	packets chan []float32
	free    chan []float32
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once

	mu  sync.Mutex
	err error

	current  []float32
	acquired bool

	closer io.Closer
	cmd    *exec.Cmd
}

// NewPipeSource starts reading r. If r is an io.Closer it is closed by Close.
func NewPipeSource(r io.Reader, opts ...Option) (*PipeSource, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	if err := o.raw.validate(); err != nil {
		return nil, err
	}

	s := &PipeSource{
		format:  o.raw,
		buffer:  o.buffer,
		packet:  packetFrames(o.buffer, o.raw.SampleRate),
		log:     o.log,
		r:       r,
		packets: make(chan []float32, o.queue),
		free:    make(chan []float32, o.queue+1),
		done:    make(chan struct{}),
	}

	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}

	s.wg.Add(1)
	go s.read()

	return s, nil
}

// StartCommand runs argv and reads its standard output. The command is
// killed by Close or when ctx is cancelled.
func StartCommand(ctx context.Context, argv []string, opts ...Option) (*PipeSource, error) {
	if len(argv) == 0 {
		return nil, errors.New("capture command is empty")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("capture command stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start capture command: %w", err)
	}

	s, err := NewPipeSource(out, opts...)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()

		return nil, err
	}

	s.closer = nil
	s.cmd = cmd
	s.log.Info().Strs("argv", argv).Int("pid", cmd.Process.Pid).Msg("capture command started")

	return s, nil
}

func (s *PipeSource) read() {
	defer s.wg.Done()
	defer close(s.packets)

	ch := s.format.Channels
	raw := make([]byte, 4*s.packet*ch)

	for {
		n, err := io.ReadFull(s.r, raw)

		if frames := n / (4 * ch); frames > 0 {
			buf := s.take()[:frames*ch]
			decodeFloat32LE(buf, raw)

			if !s.deliver(buf) {
				return
			}
		}

		if err != nil {
			select {
			case <-s.done:
				s.setErr(errClosed)
			default:
				if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
					s.setErr(ErrEndOfStream)
				} else {
					s.log.Error().Err(err).Msg("capture read failed")
					s.setErr(fmt.Errorf("read capture pipe: %w", err))
				}
			}

			return
		}
	}
}

// deliver queues buf, waiting for the engine when the queue is full. It
// reports false when the source was closed first.
func (s *PipeSource) deliver(buf []float32) bool {
	select {
	case s.packets <- buf:
		return true
	default:
	}

	metrics.CaptureStalls.Inc()

	select {
	case <-s.done:
		return false
	case s.packets <- buf:
		return true
	}
}

func (s *PipeSource) take() []float32 {
	select {
	case buf := <-s.free:
		return buf[:cap(buf)]
	default:
		return make([]float32, s.packet*s.format.Channels)
	}
}

func (s *PipeSource) recycle(buf []float32) {
	select {
	case s.free <- buf:
	default:
	}
}

func (s *PipeSource) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err == nil {
		s.err = err
	}
}

func (s *PipeSource) loadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err == nil {
		return errClosed
	}

	return s.err
}

// Channels implements engine.Source.
func (s *PipeSource) Channels() int { return s.format.Channels }

// BufferDuration implements engine.Source.
func (s *PipeSource) BufferDuration() time.Duration { return s.buffer }

// NextPacketSize implements engine.Source. It never blocks. After the pipe
// ends and every queued packet is consumed it returns ErrEndOfStream or the
// read error.
func (s *PipeSource) NextPacketSize() (int, error) {
	if s.current != nil {
		return len(s.current) / s.format.Channels, nil
	}

	select {
	case buf, ok := <-s.packets:
		if !ok {
			return 0, s.loadErr()
		}

		s.current = buf

		return len(buf) / s.format.Channels, nil
	default:
		return 0, nil
	}
}

// Acquire implements engine.Source.
func (s *PipeSource) Acquire() (engine.Batch, error) {
	if s.current == nil || s.acquired {
		return engine.Batch{}, ErrNoPacket
	}

	s.acquired = true

	return engine.Batch{Frames: len(s.current) / s.format.Channels, Samples: s.current}, nil
}

// Release implements engine.Source.
func (s *PipeSource) Release(frames int) error {
	if !s.acquired {
		return ErrNoPacket
	}

	if want := len(s.current) / s.format.Channels; frames != want {
		return fmt.Errorf("release of %d frames, %d acquired", frames, want)
	}

	s.recycle(s.current)
	s.current = nil
	s.acquired = false

	return nil
}

// Close stops the worker and, for commands, kills and reaps the process. A
// reader that is not an io.Closer is abandoned; the worker exits on its next
// read.
func (s *PipeSource) Close() error {
	var err error

	s.once.Do(func() {
		close(s.done)

		switch {
		case s.cmd != nil:
			_ = s.cmd.Process.Kill()
		case s.closer != nil:
			err = s.closer.Close()
		default:
			return
		}

		s.wg.Wait()

		if s.cmd != nil {
			_ = s.cmd.Wait()
		}
	})

	return err
}
