package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cwbudde/algo-ledviz/effects"
)

// SleepFunc waits for d or until ctx is done, returning ctx.Err() in the
// latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithRegistry sets the renderer registry used to resolve effect names.
func WithRegistry(r *effects.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithSleep replaces the inter-cycle sleep, mainly for tests.
func WithSleep(fn SleepFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.sleep = fn
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
