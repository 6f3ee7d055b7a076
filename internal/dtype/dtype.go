// Package dtype turns raw element bytes into Go values according to a
// decoded Datatype, and resolves variable-length global-heap
// references in a second pass.
package dtype

import (
	"math"

	"github.com/marrow-data/hdf5decode/internal/hdf5err"
	"github.com/marrow-data/hdf5decode/internal/message"
)

// GlobalHeapSource resolves a {collection address, object index} pair
// to the raw bytes it names, opening and caching collections on
// demand. Implemented by hdf5.File so this package need not depend on
// the reader.Reader directly.
type GlobalHeapSource interface {
	GetGlobalHeapObject(collectionAddress uint64, objectIndex uint16) ([]byte, error)
}

// VarLenRef is the not-yet-resolved shape of a variable-length
// element: the global-heap collection address and object index of its
// blob. The element count stored beside the pointer is not kept; Decode
// derives the count from the blob length.
type VarLenRef struct {
	CollectionAddress uint64
	ObjectIndex       uint16
}

// Read consumes exactly dt.Size bytes from raw (raw must be at least
// that long) and produces a value: a decoded scalar for fixed-size
// classes, or a VarLenRef for class 9 pending Decode.
func Read(dt *message.Datatype, raw []byte, offsetSize int) (interface{}, error) {
	if len(raw) < int(dt.Size) {
		return nil, &hdf5err.Truncated{Offset: 0, Want: int(dt.Size)}
	}
	raw = raw[:dt.Size]

	switch dt.Kind {
	case message.KindUint8:
		return raw[0], nil
	case message.KindInt8:
		return int8(raw[0]), nil
	case message.KindUint16:
		return order16(raw, dt.LittleEndian), nil
	case message.KindInt16:
		return int16(order16(raw, dt.LittleEndian)), nil
	case message.KindUint32:
		return order32(raw, dt.LittleEndian), nil
	case message.KindInt32:
		return int32(order32(raw, dt.LittleEndian)), nil
	case message.KindUint64:
		return order64(raw, dt.LittleEndian), nil
	case message.KindInt64:
		return int64(order64(raw, dt.LittleEndian)), nil
	case message.KindFloat16:
		return decodeFloat16(uint16(order16(raw, dt.LittleEndian))), nil
	case message.KindFloat32:
		return math.Float32frombits(order32(raw, dt.LittleEndian)), nil
	case message.KindFloat64:
		return math.Float64frombits(order64(raw, dt.LittleEndian)), nil
	case message.KindString:
		return trimNulString(raw), nil
	case message.KindOpaque:
		return append([]byte(nil), raw...), nil
	case message.KindCompound:
		return append([]byte(nil), raw...), nil
	case message.KindBoolean:
		return decodeEnumValue(dt, raw) == "TRUE", nil
	case message.KindEnum:
		return decodeEnumValue(dt, raw), nil
	case message.KindVarLenString, message.KindVarLenSequence:
		return readVarLenRef(raw, offsetSize)
	default:
		return nil, &hdf5err.UnsupportedDatatype{Reason: "no element reader for this kind"}
	}
}

// Decode resolves a value produced by Read: identity for everything
// except VarLenRef, which is chased into the global heap and, for a
// variable-length string, converted to a Go string; for a
// variable-length sequence, decoded element-by-element using the
// datatype's base type.
func Decode(dt *message.Datatype, value interface{}, gh GlobalHeapSource, offsetSize int) (interface{}, error) {
	ref, ok := value.(VarLenRef)
	if !ok {
		return value, nil
	}
	blob, err := gh.GetGlobalHeapObject(ref.CollectionAddress, ref.ObjectIndex)
	if err != nil {
		return nil, err
	}
	if dt.VarLenIsString {
		return trimNulString(blob), nil
	}

	base := dt.VarLenBase
	if base == nil || base.Size == 0 {
		return nil, &hdf5err.UnsupportedDatatype{Reason: "variable-length sequence missing base type"}
	}
	if base.Kind == message.KindVarLenString || base.Kind == message.KindVarLenSequence {
		return nil, &hdf5err.UnsupportedDatatype{Reason: "nested variable-length sequence"}
	}
	count := len(blob) / int(base.Size)
	out := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		elem, err := Read(base, blob[i*int(base.Size):], offsetSize)
		if err != nil {
			return nil, err
		}
		decoded, err := Decode(base, elem, gh, offsetSize)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

func readVarLenRef(raw []byte, offsetSize int) (interface{}, error) {
	if len(raw) < 4+offsetSize+2 {
		return nil, &hdf5err.Truncated{Offset: 0, Want: 4 + offsetSize + 2}
	}
	// raw[0:4] is the element/byte count of the referenced blob; the
	// blob's own length (read back from the global heap collection)
	// makes this redundant for decode, so it is not retained here.
	var addr uint64
	for i := offsetSize - 1; i >= 0; i-- {
		addr = addr<<8 | uint64(raw[4+i])
	}
	index := uint16(raw[4+offsetSize]) | uint16(raw[4+offsetSize+1])<<8
	return VarLenRef{CollectionAddress: addr, ObjectIndex: index}, nil
}

func decodeEnumValue(dt *message.Datatype, raw []byte) string {
	value := orderN(raw, dt.EnumBase.LittleEndian, int(dt.EnumBase.Size))
	for _, m := range dt.EnumMembers {
		if m.Value == value {
			return m.Name
		}
	}
	return ""
}

func trimNulString(raw []byte) string {
	end := len(raw)
	for end > 0 && raw[end-1] == 0 {
		end--
	}
	return string(raw[:end])
}

func order16(b []byte, littleEndian bool) uint16 {
	if littleEndian {
		return uint16(b[0]) | uint16(b[1])<<8
	}
	return uint16(b[1]) | uint16(b[0])<<8
}

func order32(b []byte, littleEndian bool) uint32 {
	if littleEndian {
		return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	}
	return uint32(b[3]) | uint32(b[2])<<8 | uint32(b[1])<<16 | uint32(b[0])<<24
}

func order64(b []byte, littleEndian bool) uint64 {
	if littleEndian {
		var v uint64
		for i := 7; i >= 0; i-- {
			v = v<<8 | uint64(b[i])
		}
		return v
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func orderN(b []byte, littleEndian bool, n int) uint64 {
	switch n {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(order16(b, littleEndian))
	case 4:
		return uint64(order32(b, littleEndian))
	case 8:
		return order64(b, littleEndian)
	default:
		var v uint64
		if littleEndian {
			for i := n - 1; i >= 0; i-- {
				v = v<<8 | uint64(b[i])
			}
		} else {
			for i := 0; i < n; i++ {
				v = v<<8 | uint64(b[i])
			}
		}
		return v
	}
}

// decodeFloat16 mirrors reader.decodeFloat16; duplicated here since
// dtype decodes standalone byte slices, not a live Reader cursor.
func decodeFloat16(bits uint16) float32 {
	sign := uint32(bits>>15) & 0x1
	exp := uint32(bits>>10) & 0x1F
	mant := uint32(bits) & 0x3FF

	var f32bits uint32
	switch {
	case exp == 0 && mant == 0:
		f32bits = sign << 31
	case exp == 0:
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
			f32bits = (sign << 31) | (0xFF << 23)
		} else {
			f32bits = (sign << 31) | (0xFF << 23) | (mant << 13)
		}
	default:
		exp32 := exp - 15 + 127
		f32bits = (sign << 31) | (exp32 << 23) | (mant << 13)
	}
	return math.Float32frombits(f32bits)
}
