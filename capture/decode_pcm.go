package capture

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xfffe
)

type pcmDecoder interface {
	PCMBuffer(buf *audio.IntBuffer) (int, error)
}

// intStream adapts the go-audio integer decoders.
type intStream struct {
	dec      pcmDecoder
	rate     int
	channels int
	offset   int
	scale    float32
	buf      *audio.IntBuffer
}

func newIntStream(dec pcmDecoder, f *audio.Format, bitDepth int, unsigned bool) (*intStream, error) {
	if f == nil || f.NumChannels <= 0 || f.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing format chunk", ErrUnsupportedFormat)
	}

	if bitDepth != 8 && bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}

	s := &intStream{
		dec:      dec,
		rate:     f.SampleRate,
		channels: f.NumChannels,
		scale:    1 / float32(int64(1)<<(bitDepth-1)),
		buf:      &audio.IntBuffer{Format: f, SourceBitDepth: bitDepth},
	}
	if unsigned {
		s.offset = 1 << (bitDepth - 1)
	}

	return s, nil
}

func (s *intStream) SampleRate() int { return s.rate }
func (s *intStream) Channels() int   { return s.channels }

func (s *intStream) Read(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < len(dst) {
		s.buf.Data = make([]int, len(dst))
	}
	s.buf.Data = s.buf.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, fmt.Errorf("read pcm: %w", err)
	}

	if n == 0 {
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		dst[i] = float32(v-s.offset) * s.scale
	}

	return n, nil
}

func decodeWAV(r io.ReadSeeker) (Stream, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a wav file", ErrUnsupportedFormat)
	}

	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("%w: wav encoding %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	// 8-bit wav samples are unsigned.
	return newIntStream(dec, dec.Format(), int(dec.BitDepth), dec.BitDepth == 8)
}

func decodeAIFF(r io.ReadSeeker) (Stream, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not an aiff file", ErrUnsupportedFormat)
	}

	dec.ReadInfo()

	return newIntStream(dec, dec.Format(), int(dec.BitDepth), false)
}
