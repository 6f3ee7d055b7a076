// Package hdf5err defines the typed error taxonomy returned by every layer
// of the decoder. Callers can use errors.As to recover the specific kind.
package hdf5err

import "fmt"

// Truncated means a read ran past the end of the underlying source.
type Truncated struct {
	Offset int64
	Want   int
}

func (e *Truncated) Error() string {
	return fmt.Sprintf("hdf5: truncated read at offset %d wanting %d bytes", e.Offset, e.Want)
}

// BadMagic means a fixed signature did not match what was expected.
type BadMagic struct {
	Context string
	Got     []byte
}

func (e *BadMagic) Error() string {
	return fmt.Sprintf("hdf5: bad magic in %s: got %x", e.Context, e.Got)
}

// UnsupportedVersion means a structure version outside the decoded range.
type UnsupportedVersion struct {
	Context string
	Version uint8
}

func (e *UnsupportedVersion) Error() string {
	return fmt.Sprintf("hdf5: unsupported %s version %d", e.Context, e.Version)
}

// UnsupportedLayoutClass means a data-layout class this decoder cannot read.
type UnsupportedLayoutClass struct {
	Class uint8
}

func (e *UnsupportedLayoutClass) Error() string {
	return fmt.Sprintf("hdf5: unsupported layout class %d", e.Class)
}

// UnsupportedFilter means a filter pipeline ID this decoder cannot invert.
type UnsupportedFilter struct {
	ID uint16
}

func (e *UnsupportedFilter) Error() string {
	return fmt.Sprintf("hdf5: unsupported filter id %d", e.ID)
}

// UnsupportedDatatype means a datatype class/combination this decoder
// declines to interpret (e.g. nested variable-length members).
type UnsupportedDatatype struct {
	Reason string
}

func (e *UnsupportedDatatype) Error() string {
	return fmt.Sprintf("hdf5: unsupported datatype: %s", e.Reason)
}

// UnsupportedMessageType means an object-header message type code this
// decoder does not recognize; per spec this is fatal, not skippable.
type UnsupportedMessageType struct {
	Type uint16
}

func (e *UnsupportedMessageType) Error() string {
	return fmt.Sprintf("hdf5: unsupported message type 0x%04x", e.Type)
}

// UnsupportedCharacterSet means a string datatype's character-set field
// named something other than ASCII or UTF-8.
type UnsupportedCharacterSet struct {
	CSet uint8
}

func (e *UnsupportedCharacterSet) Error() string {
	return fmt.Sprintf("hdf5: unsupported character set %d", e.CSet)
}

// UnsupportedCacheType means a SymbolTableEntry cache-type code other than
// 0 (no cache) or 1 (b-tree/heap cache).
type UnsupportedCacheType struct {
	CacheType uint32
}

func (e *UnsupportedCacheType) Error() string {
	return fmt.Sprintf("hdf5: unsupported symbol table entry cache type %d", e.CacheType)
}

// UnsupportedBTreeType means a B-tree node type this decoder does not
// traverse (e.g. a v2 B-tree, or a v1 type outside {0,1}).
type UnsupportedBTreeType struct {
	Type uint8
}

func (e *UnsupportedBTreeType) Error() string {
	return fmt.Sprintf("hdf5: unsupported b-tree type %d", e.Type)
}

// NonZeroBaseAddress means a v0/v1 superblock's base address was not 0,
// which this decoder (deliberately, per scope) refuses to offset against.
type NonZeroBaseAddress struct {
	Address uint64
}

func (e *NonZeroBaseAddress) Error() string {
	return fmt.Sprintf("hdf5: non-zero base address %d is unsupported", e.Address)
}

// IntegerOverflow means a length/count field could not be represented in
// the platform's int without overflow.
type IntegerOverflow struct {
	Context string
	Value   uint64
}

func (e *IntegerOverflow) Error() string {
	return fmt.Sprintf("hdf5: integer overflow in %s: %d", e.Context, e.Value)
}

// CorruptedCompressedData means a filter's decompressor rejected its input,
// or (Filter "object-header-v2-checksum") a v2 object header failed its
// checksum.
type CorruptedCompressedData struct {
	Filter string
	Cause  error
}

func (e *CorruptedCompressedData) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("hdf5: corrupted %s compressed data: %v", e.Filter, e.Cause)
	}
	return fmt.Sprintf("hdf5: corrupted %s compressed data", e.Filter)
}

func (e *CorruptedCompressedData) Unwrap() error { return e.Cause }

// PermutedOrUnequalMaxSize means a dataspace's max-dimensions vector was
// present but did not match the rank/ordering this decoder assumes.
type PermutedOrUnequalMaxSize struct {
	Rank int
}

func (e *PermutedOrUnequalMaxSize) Error() string {
	return fmt.Sprintf("hdf5: dataspace max-size vector of rank %d is permuted or mismatched", e.Rank)
}
