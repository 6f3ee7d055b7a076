// Package btree implements HDF5 v1 B-tree traversal: group-entry
// indexes (node type 0) and raw-chunk indexes (node type 1). V2 and
// fractal-heap indexes are not read here; a group whose links live in
// dense storage is rejected by hdf5.Group.Children.
package btree

import (
	"github.com/marrow-data/hdf5decode/internal/hdf5err"
	"github.com/marrow-data/hdf5decode/reader"
)

var (
	treeSignature = []byte{'T', 'R', 'E', 'E'}
	snodSignature = []byte{'S', 'N', 'O', 'D'}
)

// GroupEntry is one leaf of a v1 group B-tree, naming a child object.
type GroupEntry struct {
	Name          string
	ObjectAddress uint64
}

// LocalHeapNames resolves a symbol-table-entry name offset into a
// string, implemented by internal/heap.LocalHeap.
type LocalHeapNames interface {
	GetString(offset uint64) string
}

// ReadGroupEntries flattens every leaf entry reachable from the group
// B-tree rooted at address.
func ReadGroupEntries(r reader.Reader, address uint64, heap LocalHeapNames) ([]GroupEntry, error) {
	return readGroupNode(r, address, heap)
}

func readGroupNode(r reader.Reader, address uint64, heap LocalHeapNames) ([]GroupEntry, error) {
	saved := r.Position()
	defer r.Seek(saved)

	if err := r.Seek(int64(address)); err != nil {
		return nil, err
	}
	if err := r.Expect(treeSignature, "btree-v1"); err != nil {
		return nil, err
	}
	nodeType, err := r.Byte()
	if err != nil {
		return nil, err
	}
	if nodeType != 0 {
		return nil, &hdf5err.UnsupportedBTreeType{Type: nodeType}
	}
	level, err := r.Byte()
	if err != nil {
		return nil, err
	}
	entriesUsed, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if _, _, err := r.Offset(); err != nil { // left sibling
		return nil, err
	}
	if _, _, err := r.Offset(); err != nil { // right sibling
		return nil, err
	}

	var entries []GroupEntry
	for i := uint16(0); i < entriesUsed; i++ {
		if _, _, err := r.Length(); err != nil { // key
			return nil, err
		}
		childAddr, _, err := r.Offset()
		if err != nil {
			return nil, err
		}
		if level == 0 {
			snodEntries, err := readSymbolTableNode(r, childAddr, heap)
			if err != nil {
				return nil, err
			}
			entries = append(entries, snodEntries...)
		} else {
			childEntries, err := readGroupNode(r, childAddr, heap)
			if err != nil {
				return nil, err
			}
			entries = append(entries, childEntries...)
		}
	}
	return entries, nil
}

func readSymbolTableNode(r reader.Reader, address uint64, heap LocalHeapNames) ([]GroupEntry, error) {
	saved := r.Position()
	defer r.Seek(saved)

	if err := r.Seek(int64(address)); err != nil {
		return nil, err
	}
	if err := r.Expect(snodSignature, "symbol-table-node"); err != nil {
		return nil, err
	}
	version, err := r.Byte()
	if err != nil {
		return nil, err
	}
	if version != 1 {
		return nil, &hdf5err.UnsupportedVersion{Context: "symbol-table-node", Version: version}
	}
	if err := r.Skip(1); err != nil { // reserved
		return nil, err
	}
	numSymbols, err := r.Uint16()
	if err != nil {
		return nil, err
	}

	entries := make([]GroupEntry, 0, numSymbols)
	for i := uint16(0); i < numSymbols; i++ {
		entry, err := readSymbolTableEntry(r, heap)
		if err != nil {
			return nil, err
		}
		if entry.Name != "" {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

const (
	cacheTypeNone  uint32 = 0
	cacheTypeBTree uint32 = 1
)

func readSymbolTableEntry(r reader.Reader, heap LocalHeapNames) (GroupEntry, error) {
	nameOffset, _, err := r.Offset()
	if err != nil {
		return GroupEntry{}, err
	}
	objAddr, _, err := r.Offset()
	if err != nil {
		return GroupEntry{}, err
	}
	cacheType, err := r.Uint32()
	if err != nil {
		return GroupEntry{}, err
	}
	if err := r.Skip(4); err != nil { // reserved
		return GroupEntry{}, err
	}
	if _, err := r.Read(16); err != nil { // scratch-pad, unused for hard-link entries
		return GroupEntry{}, err
	}

	switch cacheType {
	case cacheTypeNone, cacheTypeBTree:
		return GroupEntry{Name: heap.GetString(nameOffset), ObjectAddress: objAddr}, nil
	default:
		return GroupEntry{}, &hdf5err.UnsupportedCacheType{CacheType: cacheType}
	}
}

// ChunkEntry is one leaf of a v1 chunk B-tree: a raw (possibly
// filtered) chunk's storage address, byte size, and its offset within
// the dataset in element units, including the trailing stripped
// element-size axis.
type ChunkEntry struct {
	Size       uint32
	FilterMask uint32
	Offset     []uint64
	Address    uint64
}

// ReadChunkEntries flattens every leaf chunk entry reachable from the
// chunk B-tree rooted at address. dimensionality is the number of
// offset axes per entry, including the trailing element-size axis.
func ReadChunkEntries(r reader.Reader, address uint64, dimensionality int) ([]ChunkEntry, error) {
	return readChunkNode(r, address, dimensionality)
}

func readChunkNode(r reader.Reader, address uint64, dimensionality int) ([]ChunkEntry, error) {
	saved := r.Position()
	defer r.Seek(saved)

	if err := r.Seek(int64(address)); err != nil {
		return nil, err
	}
	if err := r.Expect(treeSignature, "btree-v1"); err != nil {
		return nil, err
	}
	nodeType, err := r.Byte()
	if err != nil {
		return nil, err
	}
	if nodeType != 1 {
		return nil, &hdf5err.UnsupportedBTreeType{Type: nodeType}
	}
	level, err := r.Byte()
	if err != nil {
		return nil, err
	}
	entriesUsed, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if _, _, err := r.Offset(); err != nil { // left sibling
		return nil, err
	}
	if _, _, err := r.Offset(); err != nil { // right sibling
		return nil, err
	}

	var entries []ChunkEntry
	for i := uint16(0); i < entriesUsed; i++ {
		size, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		filterMask, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		offsets := make([]uint64, dimensionality)
		for d := 0; d < dimensionality; d++ {
			v, err := r.Uint64()
			if err != nil {
				return nil, err
			}
			offsets[d] = v
		}
		childAddr, _, err := r.Offset()
		if err != nil {
			return nil, err
		}

		if level == 0 {
			entries = append(entries, ChunkEntry{Size: size, FilterMask: filterMask, Offset: offsets, Address: childAddr})
		} else {
			childEntries, err := readChunkNode(r, childAddr, dimensionality)
			if err != nil {
				return nil, err
			}
			entries = append(entries, childEntries...)
		}
	}
	return entries, nil
}
