package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
// Contents of a reused slice are not cleared.
func EnsureLen[T any](buf []T, n int) []T {
	if n <= 0 {
		return buf[:0]
	}

	if cap(buf) >= n {
		return buf[:n]
	}

	return make([]T, n)
}

// Deinterleave copies channel ch of an interleaved buffer with the given stride
// into dst as float64 and returns the filled prefix. frames bounds the copy.
func Deinterleave(dst []float64, interleaved []float32, stride, ch, frames int) []float64 {
	if stride <= 0 || ch < 0 || ch >= stride {
		return dst[:0]
	}

	if avail := len(interleaved) / stride; frames > avail {
		frames = avail
	}

	dst = EnsureLen(dst, frames)
	for i := range dst {
		dst[i] = float64(interleaved[i*stride+ch])
	}

	return dst
}
