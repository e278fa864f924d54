package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cwbudde/algo-ledviz/config"
	"github.com/cwbudde/algo-ledviz/dsp/envelope"
	"github.com/cwbudde/algo-ledviz/effects"
	"github.com/cwbudde/algo-ledviz/internal/metrics"
)

const minTick = time.Millisecond

var (
	// ErrNotIdle is returned by Run on an engine that already ran.
	ErrNotIdle = errors.New("engine is not idle")
	// ErrNoChannels is returned by New when the device reports no groups.
	ErrNoChannels = errors.New("device has no channel groups")
)

// Engine is one run of the lighting loop. Build a new Engine to restart.
type Engine struct {
	store    *config.Store
	src      Source
	dev      Device
	registry *effects.Registry
	log      zerolog.Logger
	sleep    SleepFunc

	state atomic.Int32

	followers []*envelope.Follower
	buffers   [][]config.Color
	levels    []float64
	renderer  effects.Renderer
	rejected  string
}

// New builds an idle engine. The device topology is read here and fixes the
// number of channels for the engine's lifetime.
func New(store *config.Store, src Source, dev Device, opts ...Option) (*Engine, error) {
	if store == nil || src == nil || dev == nil {
		return nil, errors.New("engine requires a store, a source and a device")
	}

	if ch := src.Channels(); ch <= 0 {
		return nil, fmt.Errorf("source channel count must be positive: %d", ch)
	}

	lengths := dev.Lengths()
	if len(lengths) == 0 {
		return nil, ErrNoChannels
	}

	e := &Engine{
		store:    store,
		src:      src,
		dev:      dev,
		registry: effects.DefaultRegistry(),
		log:      zerolog.Nop(),
		sleep:    sleepContext,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.followers = make([]*envelope.Follower, len(lengths))
	e.buffers = make([][]config.Color, len(lengths))
	e.levels = make([]float64, len(lengths))

	for i, n := range lengths {
		if n < 0 {
			return nil, fmt.Errorf("group %d has negative length: %d", i, n)
		}

		e.followers[i] = envelope.NewFollower()
		e.buffers[i] = make([]config.Color, n)
	}

	return e, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Channels returns the number of channel groups.
func (e *Engine) Channels() int {
	return len(e.buffers)
}

// Levels returns a copy of the last level computed for each channel. It
// returns nil while Run is executing; the levels are then live in the
// ledviz_channel_level gauge.
func (e *Engine) Levels() []float64 {
	if e.State() == StateRunning {
		return nil
	}

	return append([]float64(nil), e.levels...)
}

// Run executes the loop until ctx is cancelled or the source or device
// fails. Cancellation returns nil and leaves the engine Cancelled; a failure
// returns the wrapped error and leaves it Faulted.
func (e *Engine) Run(ctx context.Context) error {
	if !e.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrNotIdle
	}

	log := e.log.With().Str("run", uuid.NewString()).Logger()
	log.Info().Int("channels", len(e.buffers)).Msg("engine started")

	metrics.Running.Set(1)
	defer metrics.Running.Set(0)

	for {
		if ctx.Err() != nil {
			return e.stop(log)
		}

		opts := e.store.Snapshot()

		if err := e.sleep(ctx, e.tick(&opts)); err != nil {
			return e.stop(log)
		}

		metrics.Cycles.Inc()

		if err := e.drain(&opts, log); err != nil {
			e.state.Store(int32(StateFaulted))
			log.Error().Err(err).Msg("engine faulted")

			return err
		}
	}
}

func (e *Engine) stop(log zerolog.Logger) error {
	e.state.Store(int32(StateCancelled))
	log.Info().Msg("engine stopped")

	return nil
}

// tick is the sleep between cycles: the source buffer length divided by the
// update frequency.
func (e *Engine) tick(opts *config.Options) time.Duration {
	d := e.src.BufferDuration()
	if opts.Frequency > 0 {
		d /= time.Duration(opts.Frequency)
	}

	return max(d, minTick)
}

func (e *Engine) drain(opts *config.Options, log zerolog.Logger) error {
	for {
		n, err := e.src.NextPacketSize()
		if err != nil {
			metrics.Faults.WithLabelValues("source").Inc()
			return fmt.Errorf("next packet size: %w", err)
		}

		if n == 0 {
			return nil
		}

		batch, err := e.src.Acquire()
		if err != nil {
			metrics.Faults.WithLabelValues("source").Inc()
			return fmt.Errorf("acquire batch: %w", err)
		}

		procErr := e.process(batch, opts, log)

		if err := e.src.Release(batch.Frames); err != nil {
			metrics.Faults.WithLabelValues("source").Inc()
			return errors.Join(procErr, fmt.Errorf("release batch: %w", err))
		}

		if procErr != nil {
			metrics.Faults.WithLabelValues("device").Inc()
			return procErr
		}
	}
}

// process runs one batch through every channel and flushes the device.
func (e *Engine) process(b Batch, opts *config.Options, log zerolog.Logger) error {
	rd := e.resolveRenderer(opts.Effect, log)
	params := envelope.Params{
		Gain:      opts.Gain,
		Fall:      opts.Fall,
		Hold:      opts.Hold,
		Frequency: opts.Frequency,
	}
	stride := e.src.Channels()

	for c, buf := range e.buffers {
		level := e.followers[c].Process(b.Samples, b.Frames, stride, c%stride, params)
		e.levels[c] = level
		metrics.ChannelLevel.WithLabelValues(metrics.ChannelLabel(c)).Set(level)

		rd.Render(level, opts, buf)

		if err := e.dev.SetColors(c, buf); err != nil {
			return fmt.Errorf("set colors for group %d: %w", c, err)
		}
	}

	start := time.Now()
	if err := e.dev.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	metrics.FlushDuration.Observe(time.Since(start).Seconds())

	metrics.Batches.Inc()
	metrics.Frames.Add(float64(b.Frames))

	return nil
}

// resolveRenderer returns the renderer for name. An unknown name keeps the
// previous renderer, falling back to bars on the first batch.
func (e *Engine) resolveRenderer(name string, log zerolog.Logger) effects.Renderer {
	if e.renderer != nil && e.renderer.Name() == name {
		return e.renderer
	}

	rd, ok := e.registry.Lookup(name)
	if !ok {
		if e.renderer == nil {
			e.renderer = effects.Bars{}
		}

		if e.rejected != name {
			e.rejected = name
			log.Warn().Str("effect", name).Str("active", e.renderer.Name()).Msg("unknown effect, keeping active effect")
		}

		return e.renderer
	}

	e.rejected = ""

	if e.renderer != nil {
		log.Debug().Str("from", e.renderer.Name()).Str("to", rd.Name()).Msg("effect switched")
	}

	e.renderer = rd

	return rd
}
