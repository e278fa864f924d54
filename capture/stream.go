package capture

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Stream is a decoded stream of interleaved float PCM in [-1, 1].
type Stream interface {
	SampleRate() int
	Channels() int
	// Read fills dst with interleaved samples and returns the number of
	// values written. It returns io.EOF once the stream is exhausted.
	Read(dst []float32) (int, error)
}

// Format names accepted by Decode.
const (
	FormatWAV  = "wav"
	FormatAIFF = "aiff"
	FormatMP3  = "mp3"
	FormatOgg  = "ogg"
	FormatRaw  = "raw"
)

// FormatFromPath maps a file extension to a format name.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return FormatWAV, nil
	case ".aif", ".aiff":
		return FormatAIFF, nil
	case ".mp3":
		return FormatMP3, nil
	case ".ogg", ".oga":
		return FormatOgg, nil
	case ".raw", ".f32", ".pcm":
		return FormatRaw, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Decode wraps r in a decoder for format. raw is only used for FormatRaw.
func Decode(r io.ReadSeeker, format string, raw RawFormat) (Stream, error) {
	switch format {
	case FormatWAV:
		return decodeWAV(r)
	case FormatAIFF:
		return decodeAIFF(r)
	case FormatMP3:
		return decodeMP3(r)
	case FormatOgg:
		return decodeOgg(r)
	case FormatRaw:
		return newRawStream(r, raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// OpenFile opens and decodes path by its extension. Closing the returned
// closer releases the file.
func OpenFile(path string, raw RawFormat) (Stream, io.Closer, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open audio file: %w", err)
	}

	s, err := Decode(f, format, raw)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	return s, f, nil
}

// ReadFrames reads until dst holds whole frames or the stream ends. It
// returns the number of complete frames read.
func ReadFrames(s Stream, dst []float32) (int, error) {
	ch := s.Channels()
	want := len(dst) - len(dst)%ch
	got := 0

	for got < want {
		n, err := s.Read(dst[got:want])
		got += n

		if err != nil {
			return got / ch, err
		}

		if n == 0 {
			return got / ch, io.EOF
		}
	}

	return got / ch, nil
}
