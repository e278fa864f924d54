package envelope

import "github.com/cwbudde/algo-ledviz/dsp/core"

// holdEpsilon absorbs the rounding left after repeatedly subtracting the cycle
// period from the hold timer, so a hold of k periods lasts exactly k cycles.
const holdEpsilon = 1e-9

// Params are the follower settings read once per cycle.
type Params struct {
	Gain      float64
	Fall      float64 // maximum decrease in level per second, scaled by Gain
	Hold      float64 // seconds; 0 disables the hold stage
	Frequency int     // cycles per second
}

// State is a copy of the follower's per-channel state.
type State struct {
	Last      float64
	Hold      float64
	HoldTimer float64
}

// Follower is the envelope state machine for one channel.
//
// It is not safe for concurrent use; the engine owns one Follower per channel.
type Follower struct {
	last      float64
	hold      float64
	holdTimer float64

	channel []float64
	squares []float64
}

// NewFollower returns a Follower with all state at zero.
func NewFollower() *Follower {
	return &Follower{}
}

// Process measures channel ch of an interleaved block with the given stride
// and feeds the block RMS through Step. frames is clamped to the complete
// frames present in samples; zero frames yield an RMS of 0.
func (f *Follower) Process(samples []float32, frames, stride, ch int, p Params) float64 {
	f.channel = core.Deinterleave(f.channel, samples, stride, ch, frames)
	f.squares = core.EnsureLen(f.squares, len(f.channel))

	return f.Step(RMS(f.channel, f.squares), p)
}

// Step advances the state machine by one cycle with a pre-computed RMS value.
func (f *Follower) Step(rms float64, p Params) float64 {
	level := rms * p.Gain
	if p.Frequency <= 0 {
		return level
	}

	cycle := 1 / float64(p.Frequency)

	if p.Hold > 0 {
		switch {
		case level > f.hold:
			f.hold = level
			f.holdTimer = p.Hold
		case f.holdTimer <= holdEpsilon:
			f.hold = 0
		default:
			level = f.hold
			f.holdTimer -= cycle
		}
	}

	if p.Fall > 0 {
		level = max(level, f.last-p.Fall*p.Gain*cycle)
		f.last = level
	}

	return level
}

// State returns a copy of the current state.
func (f *Follower) State() State {
	return State{Last: f.last, Hold: f.hold, HoldTimer: f.holdTimer}
}
