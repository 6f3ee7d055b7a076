// Package superblock parses the HDF5 superblock, the entry point of any
// HDF5 file: format version, offset/length widths, and the address that
// roots the object graph.
package superblock

import (
	"github.com/marrow-data/hdf5decode/internal/hdf5err"
	"github.com/marrow-data/hdf5decode/reader"
)

// Signature is the fixed 8-byte HDF5 file marker.
var Signature = []byte{0x89, 'H', 'D', 'F', '\r', '\n', 0x1a, '\n'}

// RootEntry carries the information needed to locate the root group, in
// whichever form the superblock version provides it: either a v0/v1
// SymbolTableEntry (B-tree + local heap) or, for v2/v3, a direct
// object-header address.
type RootEntry struct {
	// ObjectHeaderAddress is always populated.
	ObjectHeaderAddress uint64

	// BTreeAddress/LocalHeapAddress are populated only when the root
	// entry's scratch-pad cache type is 1 (v0/v1 superblocks); zero
	// otherwise.
	BTreeAddress    uint64
	LocalHeapAddress uint64
}

// Superblock holds the fields every consumer needs after open.
type Superblock struct {
	Version    uint8
	OffsetSize int
	LengthSize int

	BaseAddress   uint64
	EOFAddress    uint64
	RootEntry     RootEntry
}

// Read verifies the signature at the start of src and parses whichever
// superblock version follows it.
func Read(r reader.Reader) (*Superblock, error) {
	if err := r.Seek(0); err != nil {
		return nil, err
	}
	if err := r.Expect(Signature, "superblock"); err != nil {
		return nil, err
	}

	version, err := r.Byte()
	if err != nil {
		return nil, err
	}

	switch version {
	case 0, 1:
		return readV0V1(r, version)
	case 2, 3:
		return readV2V3(r, version)
	default:
		return nil, &hdf5err.UnsupportedVersion{Context: "superblock", Version: version}
	}
}

func readV0V1(r reader.Reader, version uint8) (*Superblock, error) {
	if _, err := r.Byte(); err != nil { // free-space storage version
		return nil, err
	}
	if _, err := r.Byte(); err != nil { // root group symbol table entry version
		return nil, err
	}
	if _, err := r.Byte(); err != nil { // reserved
		return nil, err
	}
	if _, err := r.Byte(); err != nil { // shared header message format version
		return nil, err
	}
	offsetSize, err := r.Byte()
	if err != nil {
		return nil, err
	}
	lengthSize, err := r.Byte()
	if err != nil {
		return nil, err
	}
	if _, err := r.Byte(); err != nil { // reserved
		return nil, err
	}
	if _, err := r.Uint16(); err != nil { // group leaf node K
		return nil, err
	}
	if _, err := r.Uint16(); err != nil { // group internal node K
		return nil, err
	}
	if _, err := r.Uint32(); err != nil { // file consistency flags
		return nil, err
	}
	if version == 1 {
		if _, err := r.Uint16(); err != nil { // indexed storage internal K
			return nil, err
		}
		if _, err := r.Uint16(); err != nil { // reserved
			return nil, err
		}
	}

	r.Initialize(int(offsetSize), int(lengthSize))

	baseAddr, _, err := r.Offset()
	if err != nil {
		return nil, err
	}
	if baseAddr != 0 {
		return nil, &hdf5err.NonZeroBaseAddress{Address: baseAddr}
	}
	if _, _, err := r.Offset(); err != nil { // free-space info address
		return nil, err
	}
	eofAddr, _, err := r.Offset()
	if err != nil {
		return nil, err
	}
	if _, _, err := r.Offset(); err != nil { // driver info block address
		return nil, err
	}

	entry, err := readSymbolTableEntry(r)
	if err != nil {
		return nil, err
	}

	return &Superblock{
		Version:    version,
		OffsetSize: int(offsetSize),
		LengthSize: int(lengthSize),
		BaseAddress: baseAddr,
		EOFAddress:  eofAddr,
		RootEntry:   entry,
	}, nil
}

func readV2V3(r reader.Reader, version uint8) (*Superblock, error) {
	offsetSize, err := r.Byte()
	if err != nil {
		return nil, err
	}
	lengthSize, err := r.Byte()
	if err != nil {
		return nil, err
	}
	if _, err := r.Byte(); err != nil { // file consistency flags
		return nil, err
	}

	r.Initialize(int(offsetSize), int(lengthSize))

	baseAddr, _, err := r.Offset()
	if err != nil {
		return nil, err
	}
	if _, _, err := r.Offset(); err != nil { // superblock extension address
		return nil, err
	}
	eofAddr, _, err := r.Offset()
	if err != nil {
		return nil, err
	}
	rootAddr, _, err := r.Offset()
	if err != nil {
		return nil, err
	}
	if _, err := r.Uint32(); err != nil { // superblock checksum
		return nil, err
	}

	return &Superblock{
		Version:     version,
		OffsetSize:  int(offsetSize),
		LengthSize:  int(lengthSize),
		BaseAddress: baseAddr,
		EOFAddress:  eofAddr,
		RootEntry:   RootEntry{ObjectHeaderAddress: rootAddr},
	}, nil
}

// Symbol table entry cache types (spec §4.2, §4.10).
const (
	cacheTypeNone     uint32 = 0
	cacheTypeBTree    uint32 = 1
	cacheTypeSoftLink uint32 = 2
)

// readSymbolTableEntry decodes the root group's SymbolTableEntry,
// including its 16-byte scratch-pad whose meaning depends on cache
// type: type 1 carries the B-tree and local heap addresses needed to
// enumerate the root group's children.
func readSymbolTableEntry(r reader.Reader) (RootEntry, error) {
	if _, _, err := r.Offset(); err != nil { // link name offset (always 0 for root)
		return RootEntry{}, err
	}
	objAddr, _, err := r.Offset()
	if err != nil {
		return RootEntry{}, err
	}
	cacheType, err := r.Uint32()
	if err != nil {
		return RootEntry{}, err
	}
	if _, err := r.Uint32(); err != nil { // reserved
		return RootEntry{}, err
	}
	scratch, err := r.Read(16)
	if err != nil {
		return RootEntry{}, err
	}

	entry := RootEntry{ObjectHeaderAddress: objAddr}
	switch cacheType {
	case cacheTypeNone:
		// no cached b-tree/heap addresses
	case cacheTypeBTree:
		entry.BTreeAddress = leUint64From(scratch[0:8])
		entry.LocalHeapAddress = leUint64From(scratch[8:16])
	case cacheTypeSoftLink:
		// scratch holds an offset into the local heap for the link
		// value; the root entry can never itself be a soft link, so
		// this is treated the same as "no cache" for our purposes.
	default:
		return RootEntry{}, &hdf5err.UnsupportedCacheType{CacheType: cacheType}
	}
	return entry, nil
}

func leUint64From(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = (v << 8) | uint64(b[i])
	}
	return v
}
