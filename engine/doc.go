// Package engine runs the audio-reactive lighting loop.
//
// Each cycle the engine sleeps one tick, then drains every pending frame
// batch from a Source. For each batch it runs one envelope follower per
// channel, renders the configured effect into that channel's position buffer,
// hands the buffers to a Device and flushes once.
//
// The engine owns the follower state and the position buffers. The options
// store is the only thing shared with other goroutines; it is read once per
// cycle. Cancellation is cooperative: an in-flight cycle always completes.
package engine
