package device

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-ledviz/config"
)

const defaultMemoryKeep = 1024

// Memory is an in-process fabric that records flushed frames.
// It is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	lengths []int
	staged  [][]config.Color
	frames  [][][]config.Color
	keep    int
	flushes int
}

// NewMemory returns a fabric with one group per length. It keeps the most
// recent 1024 frames.
func NewMemory(lengths ...int) *Memory {
	m := &Memory{
		lengths: append([]int(nil), lengths...),
		staged:  make([][]config.Color, len(lengths)),
		keep:    defaultMemoryKeep,
	}

	for i, n := range lengths {
		m.staged[i] = make([]config.Color, n)
	}

	return m
}

// Lengths implements engine.Device.
func (m *Memory) Lengths() []int {
	return append([]int(nil), m.lengths...)
}

// SetColors implements engine.Device.
func (m *Memory) SetColors(group int, colors []config.Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := checkGroup(m.lengths, group, len(colors)); err != nil {
		return err
	}

	copy(m.staged[group], colors)

	return nil
}

// Flush implements engine.Device.
func (m *Memory) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	frame := make([][]config.Color, len(m.staged))
	for i, g := range m.staged {
		frame[i] = append([]config.Color(nil), g...)
	}

	m.frames = append(m.frames, frame)
	if len(m.frames) > m.keep {
		m.frames = m.frames[len(m.frames)-m.keep:]
	}

	m.flushes++

	return nil
}

// Flushes returns the number of Flush calls so far.
func (m *Memory) Flushes() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.flushes
}

// Frames returns the retained frames, oldest first.
func (m *Memory) Frames() [][][]config.Color {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([][][]config.Color(nil), m.frames...)
}

// Last returns the most recent frame, or nil before the first flush.
func (m *Memory) Last() [][]config.Color {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.frames) == 0 {
		return nil
	}

	return m.frames[len(m.frames)-1]
}

func checkGroup(lengths []int, group, n int) error {
	if group < 0 || group >= len(lengths) {
		return fmt.Errorf("%w: %d of %d", ErrGroupIndex, group, len(lengths))
	}

	if n != lengths[group] {
		return fmt.Errorf("%w: group %d has %d positions, got %d", ErrGroupLength, group, lengths[group], n)
	}

	return nil
}
