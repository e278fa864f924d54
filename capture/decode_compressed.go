package capture

import (
	"encoding/binary"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// go-mp3 always produces 16-bit little-endian stereo.
const mp3Channels = 2

type mp3Stream struct {
	dec  *gomp3.Decoder
	raw  []byte
	tail []byte
}

func decodeMP3(r io.Reader) (Stream, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	return &mp3Stream{dec: dec}, nil
}

func (s *mp3Stream) SampleRate() int { return s.dec.SampleRate() }
func (s *mp3Stream) Channels() int   { return mp3Channels }

func (s *mp3Stream) Read(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := 2 * len(dst)
	if cap(s.raw) < need {
		s.raw = make([]byte, need)
	}

	// An odd byte left by the previous read starts this one.
	raw := s.raw[:need]
	carry := copy(raw, s.tail)
	s.tail = s.tail[:0]

	n, err := s.dec.Read(raw[carry:])
	n += carry

	samples := n / 2
	if n%2 == 1 {
		s.tail = append(s.tail, raw[n-1])
	}

	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(raw[2*i:]))) / 32768
	}

	if samples == 0 && err == nil {
		err = io.EOF
	}

	return samples, err
}

type oggStream struct {
	dec *oggvorbis.Reader
}

func decodeOgg(r io.Reader) (Stream, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}

	return &oggStream{dec: dec}, nil
}

func (s *oggStream) SampleRate() int { return s.dec.SampleRate() }
func (s *oggStream) Channels() int   { return s.dec.Channels() }

func (s *oggStream) Read(dst []float32) (int, error) {
	return s.dec.Read(dst)
}
