// Package message decodes HDF5 object-header messages: dataspace,
// datatype, data layout, filter pipeline, attribute, link, symbol
// table, and continuation records.
package message

import (
	"github.com/marrow-data/hdf5decode/internal/hdf5err"
)

// Type is an HDF5 header message type code.
type Type uint16

const (
	TypeNIL                      Type = 0x0000
	TypeDataspace                Type = 0x0001
	TypeLinkInfo                 Type = 0x0002
	TypeDatatype                 Type = 0x0003
	TypeFillValueOld             Type = 0x0004
	TypeFillValue                Type = 0x0005
	TypeLink                     Type = 0x0006
	TypeExternalDataFiles        Type = 0x0007
	TypeDataLayout               Type = 0x0008
	TypeBogus                    Type = 0x0009
	TypeGroupInfo                Type = 0x000A
	TypeFilterPipeline           Type = 0x000B
	TypeAttribute                Type = 0x000C
	TypeObjectComment            Type = 0x000D
	TypeObjectModTime            Type = 0x000E
	TypeSharedMessageTable       Type = 0x000F
	TypeObjectHeaderContinuation Type = 0x0010
	TypeSymbolTable              Type = 0x0011
	TypeObjectModTimeOld         Type = 0x0012
	TypeBTreeKValues             Type = 0x0013
	TypeDriverInfo               Type = 0x0014
	TypeAttributeInfo            Type = 0x0015
	TypeObjectRefCount           Type = 0x0016
)

// recognized is the set of message types this decoder knows how to
// interpret or deliberately ignore; anything else is fatal per spec.
var recognized = map[Type]bool{
	TypeNIL:                      true,
	TypeDataspace:                true,
	TypeLinkInfo:                 true,
	TypeDatatype:                 true,
	TypeFillValueOld:             true,
	TypeFillValue:                true,
	TypeLink:                     true,
	TypeDataLayout:               true,
	TypeGroupInfo:                true,
	TypeFilterPipeline:           true,
	TypeAttribute:                true,
	TypeObjectComment:            true,
	TypeObjectModTime:            true,
	TypeObjectHeaderContinuation: true,
	TypeSymbolTable:              true,
	TypeObjectModTimeOld:         true,
	TypeBTreeKValues:             true,
	TypeAttributeInfo:            true,
	TypeObjectRefCount:           true,
}

// Message is implemented by every decoded header message.
type Message interface {
	Type() Type
}

// Widths carries the superblock-derived offset/length byte widths that
// several message classes need to decode their address/size fields.
type Widths struct {
	OffsetSize int
	LengthSize int
}

// Parse dispatches on message type. flags is the message record's own
// flags byte; only the dataspace placeholder rule currently reads it.
// Types this decoder does not recognize are rejected outright (spec
// policy: reject, don't skip); types it recognizes but treats as inert
// (NIL, link info, fill value, comment, mod time, group info, btree K
// values, attribute info, ref count) decode to an Unknown carrying the
// raw bytes.
func Parse(typ Type, data []byte, w Widths, flags uint8) (Message, error) {
	if !recognized[typ] {
		return nil, &hdf5err.UnsupportedMessageType{Type: uint16(typ)}
	}
	switch typ {
	case TypeDataspace:
		ds, err := parseDataspace(data, w, flags)
		if err != nil {
			return nil, err
		}
		if ds == nil {
			return nil, nil
		}
		return ds, nil
	case TypeDatatype:
		dt, _, err := parseDatatype(data)
		return dt, err
	case TypeDataLayout:
		return parseDataLayout(data, w)
	case TypeFilterPipeline:
		return parseFilterPipeline(data)
	case TypeAttribute:
		return parseAttribute(data, w)
	case TypeLink:
		return parseLink(data, w)
	case TypeSymbolTable:
		return parseSymbolTable(data, w)
	case TypeObjectHeaderContinuation:
		return parseContinuation(data, w)
	default:
		return &Unknown{typ: typ, data: data}, nil
	}
}

// Unknown carries the raw bytes of a recognized-but-uninterpreted
// message (e.g. fill value, object comment).
type Unknown struct {
	typ  Type
	data []byte
}

func (m *Unknown) Type() Type   { return m.typ }
func (m *Unknown) Data() []byte { return m.data }

func leUint(buf []byte, size int) uint64 {
	var v uint64
	for i := size - 1; i >= 0; i-- {
		v = (v << 8) | uint64(buf[i])
	}
	return v
}
