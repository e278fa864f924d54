package engine

import (
	"time"

	"github.com/cwbudde/algo-ledviz/config"
)

// Batch is one block of interleaved float PCM. Samples holds at least
// Frames*Channels values and is only valid until the batch is released.
type Batch struct {
	Frames  int
	Samples []float32
}

// Source delivers captured audio in arrival order.
type Source interface {
	// Channels is the number of interleaved channels per frame.
	Channels() int
	// BufferDuration is the native buffer length of the source; the engine
	// tick is BufferDuration divided by the configured frequency.
	BufferDuration() time.Duration
	// NextPacketSize reports the frame count of the next pending batch,
	// or 0 when nothing is pending. It must not block.
	NextPacketSize() (int, error)
	// Acquire returns the next pending batch.
	Acquire() (Batch, error)
	// Release hands a batch obtained from Acquire back to the source.
	Release(frames int) error
}

// Device is the lighting fabric.
type Device interface {
	// Lengths returns the number of positions of each channel group. It is
	// read once when the engine is built.
	Lengths() []int
	// SetColors stages the colors of one group for the next Flush.
	SetColors(group int, colors []config.Color) error
	// Flush commits every staged group.
	Flush() error
}
