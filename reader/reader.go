// Package reader provides the random-access primitive-read abstraction
// every other layer of the decoder builds on: positioned reads of
// integers, floats, offsets, lengths, and strings, over either an
// in-memory byte slab or a seekable stream.
package reader

import (
	"math"

	"github.com/marrow-data/hdf5decode/internal/hdf5err"
)

// Encoding names a string character set, mirroring the datatype message's
// character-set field. String() accepts it but decodes both sets the same
// way.
type Encoding uint8

const (
	ASCII Encoding = 0
	UTF8  Encoding = 1
)

// UndefinedOffset is the all-ones sentinel HDF5 uses to mean "no address".
const UndefinedOffset = ^uint64(0)

// Reader is the shared contract implemented by Buffered and Windowed.
// Every component that needs to read at a position other than the
// current one must save Position(), Seek, read, then Seek back: the
// Reader has exactly one cursor and is not safe for concurrent use.
type Reader interface {
	// Initialize configures the width (2, 4, or 8 bytes) used by Offset
	// and Length, normally taken from the superblock. It may be called
	// only once; calling it again is a programmer error.
	Initialize(offsetSize, lengthSize int)

	Position() int64
	Len() int64

	Seek(pos int64) error
	Skip(n int64) error
	Align(m int64) error

	Byte() (byte, error)
	Int8() (int8, error)
	Uint16() (uint16, error)
	Int16() (int16, error)
	Uint32() (uint32, error)
	Int32() (int32, error)
	Uint64() (uint64, error)
	Int64() (int64, error)
	Float16() (float32, error)
	Float32() (float32, error)
	Float64() (float64, error)

	// Offset and Length consume the width set by Initialize. The
	// returned ok is false when the wire value was the all-ones
	// "undefined" sentinel for that width.
	Offset() (value uint64, ok bool, err error)
	Length() (value uint64, ok bool, err error)

	// Read returns the next n bytes and advances the cursor.
	Read(n int) ([]byte, error)
	// Peek returns the next n bytes without advancing the cursor.
	Peek(n int) ([]byte, error)
	// Stream returns an independent Reader over the next n bytes,
	// positioned at its own offset 0, and advances this cursor past them.
	Stream(n int) (Reader, error)

	// String reads a fixed-width string of size bytes (trailing NULs
	// stripped) when size > 0, or scans to a NUL terminator when
	// size <= 0.
	String(size int, enc Encoding) (string, error)

	// Match reports whether the next len(sig) bytes equal sig, without
	// advancing the cursor.
	Match(sig []byte) (bool, error)
	// Expect consumes len(sig) bytes and fails with BadMagic if they do
	// not equal sig.
	Expect(sig []byte, context string) error

	// Size scans forward (without permanently advancing the cursor)
	// until it finds terminator, returning the number of bytes before it.
	Size(terminator byte) (int, error)
}

// decodeFloat16 implements the IEEE 754 half-precision bit layout:
// sign=bit15, exponent=bits14..10, mantissa=bits9..0.
func decodeFloat16(bits uint16) float32 {
	sign := uint32(bits>>15) & 0x1
	exp := uint32(bits>>10) & 0x1F
	mant := uint32(bits) & 0x3FF

	var f32bits uint32
	switch {
	case exp == 0 && mant == 0:
		f32bits = sign << 31
	case exp == 0: // subnormal half -> normalize into float32
		// Find the shift needed to normalize the mantissa.
		e := -1
		m := mant
		for m&0x400 == 0 {
			m <<= 1
			e++
		}
		m &= 0x3FF
		exp32 := uint32(127 - 15 - e)
		f32bits = (sign << 31) | (exp32 << 23) | (m << 13)
	case exp == 0x1F:
		if mant == 0 {
			f32bits = (sign << 31) | (0xFF << 23) // +-Inf
		} else {
			f32bits = (sign << 31) | (0xFF << 23) | (mant << 13) // NaN
		}
	default:
		exp32 := exp - 15 + 127
		f32bits = (sign << 31) | (exp32 << 23) | (mant << 13)
	}
	return math.Float32frombits(f32bits)
}

func truncated(offset int64, want int) error {
	return &hdf5err.Truncated{Offset: offset, Want: want}
}
