// Package envelope turns blocks of interleaved PCM into one smoothed loudness
// level per channel.
//
// A Follower holds the per-channel state (last output, held peak, hold timer)
// and applies, in order: block RMS, gain, peak hold and fall limiting. Time
// constants are expressed in engine cycles: the hold timer is decremented by
// 1/Frequency on every held cycle regardless of wall-clock time.
package envelope
