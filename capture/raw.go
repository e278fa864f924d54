package capture

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

const rawReadBuffer = 64 << 10

// rawStream decodes headerless float32 little-endian PCM.
type rawStream struct {
	r      *bufio.Reader
	format RawFormat
	buf    []byte
}

func newRawStream(r io.Reader, f RawFormat) (*rawStream, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	return &rawStream{r: bufio.NewReaderSize(r, rawReadBuffer), format: f}, nil
}

func (s *rawStream) SampleRate() int { return s.format.SampleRate }
func (s *rawStream) Channels() int   { return s.format.Channels }

func (s *rawStream) Read(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	need := 4 * len(dst)
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}

	n, err := io.ReadFull(s.r, s.buf[:need])
	samples := n / 4
	decodeFloat32LE(dst[:samples], s.buf)

	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}

	if samples > 0 && errors.Is(err, io.EOF) {
		return samples, nil
	}

	return samples, err
}

func decodeFloat32LE(dst []float32, src []byte) {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
	}
}

// EncodeFloat32LE appends samples to dst as float32 little-endian bytes.
func EncodeFloat32LE(dst []byte, samples []float32) []byte {
	for _, v := range samples {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
	}

	return dst
}
