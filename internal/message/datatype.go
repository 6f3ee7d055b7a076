package message

import "github.com/marrow-data/hdf5decode/internal/hdf5err"

// Class is an HDF5 datatype class code.
type Class uint8

const (
	ClassFixedPoint Class = 0
	ClassFloatPoint Class = 1
	ClassString     Class = 3
	ClassOpaque     Class = 5
	ClassCompound   Class = 6
	ClassEnum       Class = 8
	ClassVarLen     Class = 9
)

// Kind is the user-visible element kind this decoder exposes, collapsing
// class+size+signedness into the handful of concrete element shapes
// spec §4.4 names.
type Kind uint8

const (
	KindUint8 Kind = iota
	KindUint16
	KindUint32
	KindUint64
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat16
	KindFloat32
	KindFloat64
	KindString
	KindOpaque
	KindCompound
	KindEnum
	KindBoolean
	KindVarLenString
	KindVarLenSequence
)

// Encoding mirrors reader.Encoding without importing the reader package.
type Encoding uint8

const (
	EncodingASCII Encoding = 0
	EncodingUTF8  Encoding = 1
)

func (k Kind) String() string {
	switch k {
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat16:
		return "float16"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindOpaque:
		return "opaque"
	case KindCompound:
		return "compound"
	case KindEnum:
		return "enum"
	case KindBoolean:
		return "boolean"
	case KindVarLenString:
		return "varlen-string"
	case KindVarLenSequence:
		return "varlen-sequence"
	default:
		return "unknown"
	}
}

// EnumMember is one name/value pair of an enumerated datatype.
type EnumMember struct {
	Name  string
	Value uint64
}

// Datatype is the decoded element format of a dataset or attribute
// (type 0x0003).
type Datatype struct {
	Class     Class
	ClassBits uint32
	Size      uint32
	Kind      Kind

	LittleEndian bool // fixed-point / float only
	Signed       bool // fixed-point only

	StringEncoding Encoding // string / varlen-string

	EnumBase    *Datatype
	EnumMembers []EnumMember

	VarLenIsString bool
	VarLenBase     *Datatype
}

func (m *Datatype) Type() Type { return TypeDatatype }

// parseDatatype parses a top-level datatype message (its data slice is
// exactly the message payload).
func parseDatatype(data []byte) (*Datatype, int, error) {
	return parseDatatypeWithSize(data)
}

func parseDatatypeWithSize(data []byte) (*Datatype, int, error) {
	if len(data) < 8 {
		return nil, 0, &hdf5err.Truncated{Offset: 0, Want: 8}
	}
	version := data[0] >> 4
	class := Class(data[0] & 0x0F)
	if version != 1 && version != 2 {
		return nil, 0, &hdf5err.UnsupportedVersion{Context: "datatype", Version: version}
	}

	classBits := uint32(data[1]) | uint32(data[2])<<8 | uint32(data[3])<<16
	size := leUint32(data[4:8])
	props := data[8:]

	dt := &Datatype{Class: class, ClassBits: classBits, Size: size}

	switch class {
	case ClassFixedPoint:
		dt.LittleEndian = classBits&0x01 == 0
		dt.Signed = classBits&0x08 != 0
		if len(props) < 4 {
			return nil, 0, &hdf5err.Truncated{Offset: 8, Want: 4}
		}
		kind, err := fixedPointKind(size, dt.Signed)
		if err != nil {
			return nil, 0, err
		}
		dt.Kind = kind
		return dt, 8 + 4, nil

	case ClassFloatPoint:
		dt.LittleEndian = classBits&0x01 == 0
		kind, err := floatKind(size, classBits)
		if err != nil {
			return nil, 0, err
		}
		dt.Kind = kind
		return dt, 8 + 12, nil

	case ClassString:
		enc := Encoding((classBits >> 8) & 0x0F)
		if enc != EncodingASCII && enc != EncodingUTF8 {
			return nil, 0, &hdf5err.UnsupportedCharacterSet{CSet: uint8(enc)}
		}
		dt.StringEncoding = enc
		dt.Kind = KindString
		return dt, 8, nil

	case ClassOpaque:
		tagEnd := 0
		for tagEnd < len(props) && props[tagEnd] != 0 {
			tagEnd++
		}
		dt.Kind = KindOpaque
		return dt, 8 + tagEnd + 1, nil

	case ClassCompound:
		dt.Kind = KindCompound
		return dt, len(data), nil

	case ClassEnum:
		base, baseConsumed, err := parseDatatypeWithSize(props)
		if err != nil {
			return nil, 0, err
		}
		dt.EnumBase = base
		dt.Kind = KindEnum
		offset := baseConsumed
		numPairs := int(classBits & 0xFFFF)
		members := make([]EnumMember, 0, numPairs)
		for i := 0; i < numPairs; i++ {
			nameEnd := offset
			for nameEnd < len(props) && props[nameEnd] != 0 {
				nameEnd++
			}
			name := string(props[offset:nameEnd])
			offset = nameEnd + 1
			if offset%8 != 0 {
				offset += 8 - offset%8
			}
			if offset+int(base.Size) > len(props) {
				return nil, 0, &hdf5err.Truncated{Offset: int64(offset), Want: int(base.Size)}
			}
			value := leUint(props[offset:], int(base.Size))
			offset += int(base.Size)
			members = append(members, EnumMember{Name: name, Value: value})
		}
		dt.EnumMembers = members
		if isBooleanEnum(members, base) {
			dt.Kind = KindBoolean
		}
		return dt, 8 + offset, nil

	case ClassVarLen:
		dt.VarLenIsString = classBits&0x0F == 1
		dt.StringEncoding = Encoding((classBits >> 8) & 0x0F)
		base, baseConsumed, err := parseDatatypeWithSize(props)
		if err != nil {
			return nil, 0, err
		}
		dt.VarLenBase = base
		if dt.VarLenIsString {
			dt.Kind = KindVarLenString
		} else {
			dt.Kind = KindVarLenSequence
		}
		return dt, 8 + baseConsumed, nil

	default:
		return nil, 0, &hdf5err.UnsupportedDatatype{Reason: "unrecognized datatype class"}
	}
}

func fixedPointKind(size uint32, signed bool) (Kind, error) {
	switch {
	case size == 1 && !signed:
		return KindUint8, nil
	case size == 2 && !signed:
		return KindUint16, nil
	case size == 4 && !signed:
		return KindUint32, nil
	case size == 8 && !signed:
		return KindUint64, nil
	case size == 1 && signed:
		return KindInt8, nil
	case size == 2 && signed:
		return KindInt16, nil
	case size == 4 && signed:
		return KindInt32, nil
	case size == 8 && signed:
		return KindInt64, nil
	default:
		return 0, &hdf5err.UnsupportedDatatype{Reason: "fixed-point size outside {1,2,4,8}"}
	}
}

func floatKind(size uint32, classBits uint32) (Kind, error) {
	switch {
	case size == 2 && classBits == 0x0F20:
		return KindFloat16, nil
	case size == 4 && classBits == 0x1F20:
		return KindFloat32, nil
	case size == 8 && classBits == 0x3F20:
		return KindFloat64, nil
	default:
		return 0, &hdf5err.UnsupportedDatatype{Reason: "unrecognized floating-point bit layout"}
	}
}

func isBooleanEnum(members []EnumMember, base *Datatype) bool {
	if base.Kind != KindInt8 || len(members) != 2 {
		return false
	}
	var sawFalse0, sawTrue1 bool
	for _, m := range members {
		switch {
		case m.Name == "FALSE" && m.Value == 0:
			sawFalse0 = true
		case m.Name == "TRUE" && m.Value == 1:
			sawTrue1 = true
		}
	}
	return sawFalse0 && sawTrue1
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
