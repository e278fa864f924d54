// Package capture provides audio sources for the engine.
//
// FileSource plays a decoded file (WAV, AIFF, MP3, Ogg Vorbis or raw
// float32 little-endian PCM) paced by the wall clock, handing out one packet
// per buffer period the way a loopback capture client would. PipeSource reads
// raw float32 PCM from a pipe, typically the stdout of a capture command such
// as parec or pw-record, on a worker goroutine and passes packets to the
// engine over a channel.
package capture
