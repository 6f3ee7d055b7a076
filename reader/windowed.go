package reader

import (
	"bytes"
	"math"

	"github.com/marrow-data/hdf5decode/internal/hdf5err"
)

// Source is a seekable byte source: a file, a network range-reader, or
// anything else addressable by absolute offset.
type Source interface {
	ReadAt(p []byte, off int64) (int, error)
	Len() int64
}

// windowSize is the default size of the Windowed sliding cache, kept small
// per the bounded-memory requirement for stream-backed sources.
const windowSize = 256

// Windowed implements Reader over a Source, keeping a small sliding
// window of bytes around the current position and refilling it on a
// cache miss rather than holding the whole source in memory.
type Windowed struct {
	src        Source
	pos        int64
	offsetSize int
	lengthSize int
	winSize    int

	winStart int64
	winData  []byte
}

// NewWindowed wraps src for random-access reads starting at position 0,
// using the default window size.
func NewWindowed(src Source) *Windowed {
	return NewWindowedSize(src, windowSize)
}

// NewWindowedSize wraps src with a caller-chosen sliding window size. A
// size <= 0 falls back to the default.
func NewWindowedSize(src Source, size int) *Windowed {
	if size <= 0 {
		size = windowSize
	}
	return &Windowed{src: src, winStart: -1, winSize: size}
}

func (w *Windowed) Initialize(offsetSize, lengthSize int) {
	w.offsetSize = offsetSize
	w.lengthSize = lengthSize
}

func (w *Windowed) Position() int64 { return w.pos }
func (w *Windowed) Len() int64      { return w.src.Len() }

func (w *Windowed) Seek(pos int64) error {
	if pos < 0 || pos > w.src.Len() {
		return truncated(pos, 0)
	}
	w.pos = pos
	return nil
}

func (w *Windowed) Skip(n int64) error { return w.Seek(w.pos + n) }

func (w *Windowed) Align(m int64) error {
	if m <= 1 {
		return nil
	}
	if r := w.pos % m; r != 0 {
		return w.Seek(w.pos + (m - r))
	}
	return nil
}

// fill ensures w.winData covers [w.pos, w.pos+n) and returns that slice.
func (w *Windowed) fill(n int) ([]byte, error) {
	if n < 0 || w.pos < 0 || w.pos+int64(n) > w.src.Len() {
		return nil, truncated(w.pos, n)
	}
	if w.winStart >= 0 && w.pos >= w.winStart && w.pos+int64(n) <= w.winStart+int64(len(w.winData)) {
		off := w.pos - w.winStart
		return w.winData[off : off+int64(n)], nil
	}

	size := w.winSize
	if size < n {
		size = n
	}
	start := w.pos
	if int64(size) > w.src.Len()-start {
		size = int(w.src.Len() - start)
	}
	buf := make([]byte, size)
	if _, err := w.src.ReadAt(buf, start); err != nil {
		return nil, err
	}
	w.winStart = start
	w.winData = buf
	return w.winData[:n], nil
}

func (w *Windowed) Read(n int) ([]byte, error) {
	bs, err := w.fill(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, bs)
	w.pos += int64(n)
	return out, nil
}

func (w *Windowed) Peek(n int) ([]byte, error) {
	bs, err := w.fill(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, bs)
	return out, nil
}

func (w *Windowed) Stream(n int) (Reader, error) {
	bs, err := w.Read(n)
	if err != nil {
		return nil, err
	}
	sub := NewBuffered(bs)
	sub.offsetSize = w.offsetSize
	sub.lengthSize = w.lengthSize
	return sub, nil
}

func (w *Windowed) Byte() (byte, error) {
	bs, err := w.Read(1)
	if err != nil {
		return 0, err
	}
	return bs[0], nil
}

func (w *Windowed) Int8() (int8, error) {
	v, err := w.Byte()
	return int8(v), err
}

func (w *Windowed) Uint16() (uint16, error) {
	bs, err := w.Read(2)
	if err != nil {
		return 0, err
	}
	return uint16(bs[0]) | uint16(bs[1])<<8, nil
}

func (w *Windowed) Int16() (int16, error) {
	v, err := w.Uint16()
	return int16(v), err
}

func (w *Windowed) Uint32() (uint32, error) {
	bs, err := w.Read(4)
	if err != nil {
		return 0, err
	}
	return uint32(bs[0]) | uint32(bs[1])<<8 | uint32(bs[2])<<16 | uint32(bs[3])<<24, nil
}

func (w *Windowed) Int32() (int32, error) {
	v, err := w.Uint32()
	return int32(v), err
}

func (w *Windowed) Uint64() (uint64, error) {
	bs, err := w.Read(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = (v << 8) | uint64(bs[i])
	}
	return v, nil
}

func (w *Windowed) Int64() (int64, error) {
	v, err := w.Uint64()
	return int64(v), err
}

func (w *Windowed) Float16() (float32, error) {
	v, err := w.Uint16()
	if err != nil {
		return 0, err
	}
	return decodeFloat16(v), nil
}

func (w *Windowed) Float32() (float32, error) {
	v, err := w.Uint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (w *Windowed) Float64() (float64, error) {
	v, err := w.Uint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (w *Windowed) readWidth(size int) (uint64, error) {
	bs, err := w.Read(size)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := size - 1; i >= 0; i-- {
		v = (v << 8) | uint64(bs[i])
	}
	return v, nil
}

func (w *Windowed) Offset() (uint64, bool, error) {
	v, err := w.readWidth(w.offsetSize)
	if err != nil {
		return 0, false, err
	}
	return v, !isAllOnes(v, w.offsetSize), nil
}

func (w *Windowed) Length() (uint64, bool, error) {
	v, err := w.readWidth(w.lengthSize)
	if err != nil {
		return 0, false, err
	}
	return v, !isAllOnes(v, w.lengthSize), nil
}

func (w *Windowed) String(size int, enc Encoding) (string, error) {
	if size > 0 {
		bs, err := w.Read(size)
		if err != nil {
			return "", err
		}
		return string(bytes.TrimRight(bs, "\x00")), nil
	}
	n, err := w.Size(0)
	if err != nil {
		return "", err
	}
	bs, err := w.Read(n)
	if err != nil {
		return "", err
	}
	if err := w.Skip(1); err != nil {
		return "", err
	}
	return string(bs), nil
}

func (w *Windowed) Match(sig []byte) (bool, error) {
	bs, err := w.Peek(len(sig))
	if err != nil {
		return false, nil
	}
	return bytes.Equal(bs, sig), nil
}

func (w *Windowed) Expect(sig []byte, context string) error {
	bs, err := w.Read(len(sig))
	if err != nil {
		return err
	}
	if !bytes.Equal(bs, sig) {
		return &hdf5err.BadMagic{Context: context, Got: bs}
	}
	return nil
}

func (w *Windowed) Size(terminator byte) (int, error) {
	for i := int64(0); w.pos+i < w.src.Len(); i++ {
		b, err := w.Peek2(w.pos + i)
		if err != nil {
			return 0, err
		}
		if b == terminator {
			return int(i), nil
		}
	}
	return 0, truncated(w.pos, 1)
}

// Peek2 reads a single byte at an absolute offset without disturbing pos.
func (w *Windowed) Peek2(at int64) (byte, error) {
	saved := w.pos
	w.pos = at
	bs, err := w.fill(1)
	w.pos = saved
	if err != nil {
		return 0, err
	}
	return bs[0], nil
}
