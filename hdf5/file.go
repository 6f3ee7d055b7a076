package hdf5

import (
	"bytes"

	"github.com/marrow-data/hdf5decode/internal/filter"
	"github.com/marrow-data/hdf5decode/internal/heap"
	"github.com/marrow-data/hdf5decode/internal/message"
	"github.com/marrow-data/hdf5decode/internal/object"
	"github.com/marrow-data/hdf5decode/internal/superblock"
	"github.com/marrow-data/hdf5decode/reader"
)

// File is an open, read-only HDF5 file.
type File struct {
	r        reader.Reader
	sb       *superblock.Superblock
	widths   message.Widths
	root     *Group
	inflater filter.Inflater

	globalHeaps map[uint64]*heap.GlobalHeap
}

// Open parses src's superblock and opens the root group. A source
// whose first 8 bytes do not match the HDF5 signature is not an
// error: Open returns (nil, nil) to mean "not an HDF5 file".
func Open(src reader.Source, opts ...OpenOption) (*File, error) {
	cfg := defaultOpenOptions()
	for _, opt := range opts {
		opt(cfg)
	}

	sig := make([]byte, len(superblock.Signature))
	n, _ := src.ReadAt(sig, 0)
	if n < len(sig) || !bytes.Equal(sig, superblock.Signature) {
		return nil, nil
	}

	var r reader.Reader
	switch {
	case cfg.forceWindowed:
		r = reader.NewWindowedSize(src, cfg.windowSize)
	case cfg.forceBuffered:
		r = reader.OpenWithConfig(src, src.Len(), cfg.windowSize)
	default:
		r = reader.OpenWithConfig(src, cfg.windowThresh, cfg.windowSize)
	}

	sb, err := superblock.Read(r)
	if err != nil {
		return nil, err
	}

	f := &File{
		r:           r,
		sb:          sb,
		widths:      message.Widths{OffsetSize: sb.OffsetSize, LengthSize: sb.LengthSize},
		inflater:    cfg.inflater,
		globalHeaps: make(map[uint64]*heap.GlobalHeap),
	}

	root, err := f.openGroupAt(sb.RootEntry.ObjectHeaderAddress, "", sb.RootEntry)
	if err != nil {
		return nil, err
	}
	f.root = root

	return f, nil
}

// OpenBytes is a convenience wrapper for opening an in-memory slab.
func OpenBytes(data []byte, opts ...OpenOption) (*File, error) {
	return Open(reader.NewSliceSource(data), opts...)
}

// Root returns the root group of the file.
func (f *File) Root() *Group { return f.root }

// Version reports the superblock version (0-3).
func (f *File) Version() int { return int(f.sb.Version) }

func (f *File) openGroupAt(address uint64, path string, rootEntry superblock.RootEntry) (*Group, error) {
	hdr, err := object.Read(f.r, address, f.widths)
	if err != nil {
		return nil, err
	}
	g := &Group{file: f, path: path, header: hdr}
	if path == "" {
		g.rootEntry = &rootEntry
	}
	return g, nil
}

func (f *File) openHeaderAt(address uint64) (*object.Header, error) {
	return object.Read(f.r, address, f.widths)
}

// GetGlobalHeapObject implements dtype.GlobalHeapSource, lazily
// opening and caching one heap.GlobalHeap per collection address.
func (f *File) GetGlobalHeapObject(collectionAddress uint64, objectIndex uint16) ([]byte, error) {
	gh, ok := f.globalHeaps[collectionAddress]
	if !ok {
		gh = heap.OpenGlobalHeap(f.r, collectionAddress)
		f.globalHeaps[collectionAddress] = gh
	}
	return gh.Get(objectIndex)
}
