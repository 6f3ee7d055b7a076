package hdf5

import "github.com/marrow-data/hdf5decode/internal/filter"

// OpenOption configures how Open constructs its Reader and decodes
// filtered chunks.
type OpenOption func(*openOptions)

type openOptions struct {
	forceWindowed bool
	forceBuffered bool
	windowSize    int
	windowThresh  int64
	inflater      filter.Inflater
}

func defaultOpenOptions() *openOptions {
	return &openOptions{}
}

// WithWindowed bypasses the buffered/windowed size heuristic and always
// uses the sliding-window reader, useful for exercising window mode
// against small fixtures in tests or for bounding memory on a source
// Open would otherwise buffer whole.
func WithWindowed() OpenOption {
	return func(o *openOptions) {
		o.forceWindowed = true
	}
}

// WithBuffered bypasses the buffered/windowed size heuristic and always
// slurps src into memory, even past the default window-mode threshold.
func WithBuffered() OpenOption {
	return func(o *openOptions) {
		o.forceBuffered = true
	}
}

// WithWindowSize sets the Windowed reader's sliding-window size in
// bytes, in place of the package default. Only takes effect when the
// Windowed reader is actually selected.
func WithWindowSize(n int) OpenOption {
	return func(o *openOptions) {
		o.windowSize = n
	}
}

// WithWindowThreshold sets the source size, in bytes, above which Open
// prefers the Windowed reader over buffering the whole source, in
// place of the package default.
func WithWindowThreshold(n int64) OpenOption {
	return func(o *openOptions) {
		o.windowThresh = n
	}
}

// WithInflater substitutes a custom DEFLATE decompressor for the
// default klauspost/compress/zlib-backed one, used to decode any
// deflate-filtered chunk a variable's data layout references.
func WithInflater(inflater filter.Inflater) OpenOption {
	return func(o *openOptions) {
		o.inflater = inflater
	}
}
