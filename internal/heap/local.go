// Package heap implements HDF5's two heap structures: the local heap
// (group member names) and the global heap (variable-length element
// blobs referenced by {collection address, object index} pairs).
package heap

import (
	"github.com/marrow-data/hdf5decode/internal/hdf5err"
	"github.com/marrow-data/hdf5decode/reader"
)

var localHeapSignature = []byte{'H', 'E', 'A', 'P'}

// LocalHeap holds a group's member-name data segment, addressed by
// byte offset from symbol-table entries.
type LocalHeap struct {
	r        reader.Reader
	dataAddr uint64
	dataSize uint64
}

// ReadLocalHeap parses the local-heap header at address; the name data
// segment itself is read lazily, on each GetString call.
func ReadLocalHeap(r reader.Reader, address uint64) (*LocalHeap, error) {
	saved := r.Position()
	defer r.Seek(saved)

	if err := r.Seek(int64(address)); err != nil {
		return nil, err
	}
	if err := r.Expect(localHeapSignature, "local-heap"); err != nil {
		return nil, err
	}
	version, err := r.Byte()
	if err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, &hdf5err.UnsupportedVersion{Context: "local-heap", Version: version}
	}
	if err := r.Skip(3); err != nil { // reserved
		return nil, err
	}
	dataSize, _, err := r.Length()
	if err != nil {
		return nil, err
	}
	if _, _, err := r.Length(); err != nil { // free list head offset, unused for read-only access
		return nil, err
	}
	dataAddr, _, err := r.Offset()
	if err != nil {
		return nil, err
	}

	return &LocalHeap{r: r, dataAddr: dataAddr, dataSize: dataSize}, nil
}

// GetString reads a NUL-terminated name at the given offset within the
// heap's data segment. It returns "" if the offset is out of range,
// rather than erroring, since the root group's self-referential "."
// entry has no name to resolve.
func (h *LocalHeap) GetString(offset uint64) string {
	if offset >= h.dataSize {
		return ""
	}
	saved := h.r.Position()
	defer h.r.Seek(saved)

	if err := h.r.Seek(int64(h.dataAddr + offset)); err != nil {
		return ""
	}
	var name []byte
	for {
		b, err := h.r.Byte()
		if err != nil || b == 0 {
			break
		}
		name = append(name, b)
	}
	return string(name)
}
