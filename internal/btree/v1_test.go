package btree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marrow-data/hdf5decode/reader"
)

type fakeHeap struct {
	strings map[uint64]string
}

func (f *fakeHeap) GetString(offset uint64) string { return f.strings[offset] }

func le(v uint64, size int) []byte {
	b := make([]byte, size)
	for i := 0; i < size; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

// buildGroupBTree lays out a single-level (level 0) group B-tree node
// at address 0 pointing at one SNOD at address 200 with one entry.
func buildGroupBTree() []byte {
	buf := make([]byte, 512)

	// SNOD at 200
	snod := buf[200:]
	copy(snod, "SNOD")
	snod[4] = 1 // version
	snod[5] = 0 // reserved
	snod[6] = 1 // numSymbols = 1
	snod[7] = 0
	entry := snod[8:]
	copy(entry[0:8], le(16, 8))  // name offset in local heap
	copy(entry[8:16], le(300, 8)) // object address
	copy(entry[16:20], le(0, 4))  // cache type = 0 (none)
	// bytes 20:24 reserved, 24:40 scratch pad, left zeroed

	// TREE node at 0
	tree := buf[0:]
	copy(tree, "TREE")
	tree[4] = 0 // node type = group
	tree[5] = 0 // level 0
	tree[6] = 1 // entries used = 1
	tree[7] = 0
	copy(tree[8:16], le(reader.UndefinedOffset, 8))  // left sibling
	copy(tree[16:24], le(reader.UndefinedOffset, 8)) // right sibling
	copy(tree[24:32], le(0, 8))                       // key 0 (length-sized)
	copy(tree[32:40], le(200, 8))                     // child address -> SNOD

	return buf
}

func TestReadGroupEntries(t *testing.T) {
	buf := buildGroupBTree()
	r := reader.NewBuffered(buf)
	r.Initialize(8, 8)

	heap := &fakeHeap{strings: map[uint64]string{16: "widget"}}
	entries, err := ReadGroupEntries(r, 0, heap)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "widget", entries[0].Name)
	require.Equal(t, uint64(300), entries[0].ObjectAddress)
}

func TestReadGroupEntriesBadSignatureFails(t *testing.T) {
	buf := make([]byte, 64)
	r := reader.NewBuffered(buf)
	r.Initialize(8, 8)
	_, err := ReadGroupEntries(r, 0, &fakeHeap{})
	require.Error(t, err)
}

func TestReadGroupEntriesUnsupportedCacheTypeFails(t *testing.T) {
	buf := buildGroupBTree()
	// flip the cache type of the single SNOD entry to something unsupported
	copy(buf[200+8+16:200+8+20], le(2, 4))
	r := reader.NewBuffered(buf)
	r.Initialize(8, 8)
	_, err := ReadGroupEntries(r, 0, &fakeHeap{strings: map[uint64]string{16: "widget"}})
	require.Error(t, err)
}

// buildChunkBTree lays out a single-level chunk B-tree with one leaf
// entry over a 2-dimensional (rank 1 + trailing element-size axis) chunk index.
func buildChunkBTree() []byte {
	buf := make([]byte, 256)
	tree := buf[0:]
	copy(tree, "TREE")
	tree[4] = 1 // node type = chunk
	tree[5] = 0 // level 0
	tree[6] = 1 // entries used = 1
	tree[7] = 0
	copy(tree[8:16], le(reader.UndefinedOffset, 8))
	copy(tree[16:24], le(reader.UndefinedOffset, 8))
	off := 24
	copy(buf[off:off+4], le(64, 4))  // chunk size
	copy(buf[off+4:off+8], le(0, 4)) // filter mask
	copy(buf[off+8:off+16], le(0, 8))  // offset axis 0
	copy(buf[off+16:off+24], le(0, 8)) // offset axis 1 (element size, always 0)
	copy(buf[off+24:off+32], le(128, 8)) // chunk data address
	return buf
}

func TestReadChunkEntries(t *testing.T) {
	buf := buildChunkBTree()
	r := reader.NewBuffered(buf)
	r.Initialize(8, 8)

	entries, err := ReadChunkEntries(r, 0, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, uint32(64), entries[0].Size)
	require.Equal(t, uint64(128), entries[0].Address)
	require.Equal(t, []uint64{0, 0}, entries[0].Offset)
}

func TestReadChunkEntriesWrongNodeTypeFails(t *testing.T) {
	buf := buildGroupBTree() // node type 0, not a chunk tree
	r := reader.NewBuffered(buf)
	r.Initialize(8, 8)
	_, err := ReadChunkEntries(r, 0, 2)
	require.Error(t, err)
}
