package reader

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/marrow-data/hdf5decode/internal/hdf5err"
)

// Buffered implements Reader over an in-memory byte slab. Peek never
// copies; Stream shares the backing array with its parent.
type Buffered struct {
	buf        []byte
	pos        int64
	offsetSize int
	lengthSize int
}

// NewBuffered wraps buf for random-access reads starting at position 0.
func NewBuffered(buf []byte) *Buffered {
	return &Buffered{buf: buf}
}

func (b *Buffered) Initialize(offsetSize, lengthSize int) {
	b.offsetSize = offsetSize
	b.lengthSize = lengthSize
}

func (b *Buffered) Position() int64 { return b.pos }
func (b *Buffered) Len() int64      { return int64(len(b.buf)) }

func (b *Buffered) Seek(pos int64) error {
	if pos < 0 || pos > int64(len(b.buf)) {
		return truncated(pos, 0)
	}
	b.pos = pos
	return nil
}

func (b *Buffered) Skip(n int64) error { return b.Seek(b.pos + n) }

func (b *Buffered) Align(m int64) error {
	if m <= 1 {
		return nil
	}
	if r := b.pos % m; r != 0 {
		return b.Seek(b.pos + (m - r))
	}
	return nil
}

func (b *Buffered) bytes(n int) ([]byte, error) {
	if n < 0 || b.pos < 0 || b.pos+int64(n) > int64(len(b.buf)) {
		return nil, truncated(b.pos, n)
	}
	return b.buf[b.pos : b.pos+int64(n)], nil
}

func (b *Buffered) Read(n int) ([]byte, error) {
	bs, err := b.bytes(n)
	if err != nil {
		return nil, err
	}
	b.pos += int64(n)
	return bs, nil
}

func (b *Buffered) Peek(n int) ([]byte, error) {
	return b.bytes(n)
}

func (b *Buffered) Stream(n int) (Reader, error) {
	bs, err := b.Read(n)
	if err != nil {
		return nil, err
	}
	sub := NewBuffered(bs)
	sub.offsetSize = b.offsetSize
	sub.lengthSize = b.lengthSize
	return sub, nil
}

func (b *Buffered) Byte() (byte, error) {
	bs, err := b.Read(1)
	if err != nil {
		return 0, err
	}
	return bs[0], nil
}

func (b *Buffered) Int8() (int8, error) {
	v, err := b.Byte()
	return int8(v), err
}

func (b *Buffered) Uint16() (uint16, error) {
	bs, err := b.Read(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(bs), nil
}

func (b *Buffered) Int16() (int16, error) {
	v, err := b.Uint16()
	return int16(v), err
}

func (b *Buffered) Uint32() (uint32, error) {
	bs, err := b.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(bs), nil
}

func (b *Buffered) Int32() (int32, error) {
	v, err := b.Uint32()
	return int32(v), err
}

func (b *Buffered) Uint64() (uint64, error) {
	bs, err := b.Read(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(bs), nil
}

func (b *Buffered) Int64() (int64, error) {
	v, err := b.Uint64()
	return int64(v), err
}

func (b *Buffered) Float16() (float32, error) {
	v, err := b.Uint16()
	if err != nil {
		return 0, err
	}
	return decodeFloat16(v), nil
}

func (b *Buffered) Float32() (float32, error) {
	v, err := b.Uint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (b *Buffered) Float64() (float64, error) {
	v, err := b.Uint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (b *Buffered) readWidth(size int) (uint64, error) {
	bs, err := b.Read(size)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := size - 1; i >= 0; i-- {
		v = (v << 8) | uint64(bs[i])
	}
	return v, nil
}

func (b *Buffered) Offset() (uint64, bool, error) {
	v, err := b.readWidth(b.offsetSize)
	if err != nil {
		return 0, false, err
	}
	return v, !isAllOnes(v, b.offsetSize), nil
}

func (b *Buffered) Length() (uint64, bool, error) {
	v, err := b.readWidth(b.lengthSize)
	if err != nil {
		return 0, false, err
	}
	return v, !isAllOnes(v, b.lengthSize), nil
}

func (b *Buffered) String(size int, enc Encoding) (string, error) {
	if size > 0 {
		bs, err := b.Read(size)
		if err != nil {
			return "", err
		}
		return string(bytes.TrimRight(bs, "\x00")), nil
	}
	n, err := b.Size(0)
	if err != nil {
		return "", err
	}
	bs, err := b.Read(n)
	if err != nil {
		return "", err
	}
	if err := b.Skip(1); err != nil { // consume the terminator
		return "", err
	}
	return string(bs), nil
}

func (b *Buffered) Match(sig []byte) (bool, error) {
	bs, err := b.Peek(len(sig))
	if err != nil {
		return false, nil
	}
	return bytes.Equal(bs, sig), nil
}

func (b *Buffered) Expect(sig []byte, context string) error {
	bs, err := b.Read(len(sig))
	if err != nil {
		return err
	}
	if !bytes.Equal(bs, sig) {
		return &hdf5err.BadMagic{Context: context, Got: bs}
	}
	return nil
}

func (b *Buffered) Size(terminator byte) (int, error) {
	for i := int64(0); b.pos+i < int64(len(b.buf)); i++ {
		if b.buf[b.pos+i] == terminator {
			return int(i), nil
		}
	}
	return 0, truncated(b.pos, 1)
}

func isAllOnes(v uint64, width int) bool {
	if width <= 0 || width >= 8 {
		return v == ^uint64(0)
	}
	mask := uint64(1<<(uint(width)*8)) - 1
	return v&mask == mask
}
