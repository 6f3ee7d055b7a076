package heap

import (
	"fmt"

	"github.com/marrow-data/hdf5decode/internal/hdf5err"
	"github.com/marrow-data/hdf5decode/reader"
)

var globalHeapSignature = []byte{'G', 'C', 'O', 'L'}

// GlobalHeap is a collection of variable-length object blobs, lazily
// parsed into an index-keyed map on first access.
type GlobalHeap struct {
	r       reader.Reader
	address uint64
	objects map[uint16][]byte
}

// GlobalHeapID identifies one object within a global-heap collection.
type GlobalHeapID struct {
	CollectionAddress uint64
	ObjectIndex       uint16
}

// ParseGlobalHeapID decodes a {collection address, object index} pair
// from a variable-length element's fixed-size reference bytes.
func ParseGlobalHeapID(r reader.Reader, raw []byte, offsetSize int) (GlobalHeapID, error) {
	if len(raw) < offsetSize+2 {
		return GlobalHeapID{}, &hdf5err.Truncated{Offset: 0, Want: offsetSize + 2}
	}
	var addr uint64
	for i := offsetSize - 1; i >= 0; i-- {
		addr = addr<<8 | uint64(raw[i])
	}
	index := uint16(raw[offsetSize]) | uint16(raw[offsetSize+1])<<8
	return GlobalHeapID{CollectionAddress: addr, ObjectIndex: index}, nil
}

// OpenGlobalHeap returns a handle to the collection at address. Parsing
// of the collection body is deferred until Get is first called.
func OpenGlobalHeap(r reader.Reader, address uint64) *GlobalHeap {
	return &GlobalHeap{r: r, address: address}
}

// Get returns the raw bytes of object index within the collection,
// decompressing nothing (global-heap objects are never filtered).
func (g *GlobalHeap) Get(index uint16) ([]byte, error) {
	if g.objects == nil {
		if err := g.parse(); err != nil {
			return nil, err
		}
	}
	obj, ok := g.objects[index]
	if !ok {
		return nil, fmt.Errorf("hdf5: global heap collection at %d has no object with index %d", g.address, index)
	}
	return obj, nil
}

func (g *GlobalHeap) parse() error {
	saved := g.r.Position()
	defer g.r.Seek(saved)

	if err := g.r.Seek(int64(g.address)); err != nil {
		return err
	}
	if err := g.r.Expect(globalHeapSignature, "global-heap"); err != nil {
		return err
	}
	version, err := g.r.Byte()
	if err != nil {
		return err
	}
	if version != 1 {
		return &hdf5err.UnsupportedVersion{Context: "global-heap", Version: version}
	}
	if err := g.r.Skip(3); err != nil { // reserved
		return err
	}
	collectionSize, _, err := g.r.Length()
	if err != nil {
		return err
	}
	end := g.address + collectionSize

	g.objects = make(map[uint16][]byte)
	for uint64(g.r.Position()) < end {
		index, err := g.r.Uint16()
		if err != nil {
			return err
		}
		if _, err := g.r.Uint16(); err != nil { // reference count
			return err
		}
		if err := g.r.Skip(4); err != nil { // reserved
			return err
		}
		size, _, err := g.r.Length()
		if err != nil {
			return err
		}
		if index == 0 {
			// Terminator object: zero-size free-space marker closing the
			// collection, not a real blob.
			break
		}
		data, err := g.r.Read(int(size))
		if err != nil {
			return err
		}
		g.objects[index] = data
		if err := g.r.Align(8); err != nil {
			return err
		}
	}
	return nil
}
