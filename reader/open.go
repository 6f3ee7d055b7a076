package reader

// windowModeThreshold is the size above which Open prefers the Windowed
// implementation over slurping the whole source into memory.
const windowModeThreshold = 256 * 1024 * 1024

// Open picks Buffered (copying the whole source into memory) when
// src.Len() is at most windowModeThreshold, and Windowed otherwise; the
// choice depends on the length only, not on the kind of Source.
func Open(src Source) Reader {
	return OpenWithConfig(src, windowModeThreshold, windowSize)
}

// OpenWithConfig is Open with a caller-chosen buffered/windowed size
// threshold and Windowed sliding-window size (either <= 0 falls back to
// the package default).
func OpenWithConfig(src Source, threshold int64, windowSize int) Reader {
	if threshold <= 0 {
		threshold = windowModeThreshold
	}
	if src.Len() <= threshold {
		buf := make([]byte, src.Len())
		if _, err := src.ReadAt(buf, 0); err == nil {
			return NewBuffered(buf)
		}
	}
	return NewWindowedSize(src, windowSize)
}

// sliceSource adapts a []byte to Source, for callers that already hold
// the whole file in memory (e.g. tests).
type sliceSource struct{ data []byte }

// NewSliceSource wraps data as a Source.
func NewSliceSource(data []byte) Source { return &sliceSource{data: data} }

func (s *sliceSource) Len() int64 { return int64(len(s.data)) }

func (s *sliceSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(s.data)) {
		return 0, truncated(off, len(p))
	}
	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, truncated(off, len(p))
	}
	return n, nil
}
