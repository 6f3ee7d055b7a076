package message

import "github.com/marrow-data/hdf5decode/internal/hdf5err"

// LayoutClass names where and how a dataset's bytes are stored.
type LayoutClass uint8

const (
	LayoutCompact    LayoutClass = 0
	LayoutContiguous LayoutClass = 1
	LayoutChunked    LayoutClass = 2
)

// DataLayout is the decoded storage-layout message (type 0x0008).
type DataLayout struct {
	Version uint8
	Class   LayoutClass

	CompactData []byte

	Address uint64
	Size    uint64

	// ChunkDims includes the trailing element-size pseudo-dimension;
	// callers strip the last entry before comparing against a
	// dataspace's rank.
	ChunkDims      []uint32
	ChunkIndexAddr uint64
}

func (m *DataLayout) Type() Type { return TypeDataLayout }

func parseDataLayout(data []byte, w Widths) (*DataLayout, error) {
	if len(data) < 2 {
		return nil, &hdf5err.Truncated{Offset: 0, Want: 2}
	}
	version := data[0]
	layout := &DataLayout{Version: version}

	switch version {
	case 1, 2:
		return parseLayoutV1V2(data, w, layout)
	case 3:
		return parseLayoutV3(data, w, layout)
	default:
		return nil, &hdf5err.UnsupportedVersion{Context: "data-layout", Version: version}
	}
}

func parseLayoutV1V2(data []byte, w Widths, layout *DataLayout) (*DataLayout, error) {
	if len(data) < 4 {
		return nil, &hdf5err.Truncated{Offset: 0, Want: 4}
	}
	ndims := int(data[1])
	layout.Class = LayoutClass(data[2])
	offset := 4

	switch layout.Class {
	case LayoutCompact:
		if offset+4 > len(data) {
			return nil, &hdf5err.Truncated{Offset: int64(offset), Want: 4}
		}
		size := leUint32(data[offset:])
		offset += 4
		if offset+int(size) > len(data) {
			return nil, &hdf5err.Truncated{Offset: int64(offset), Want: int(size)}
		}
		layout.CompactData = append([]byte(nil), data[offset:offset+int(size)]...)

	case LayoutContiguous:
		need := w.OffsetSize + w.LengthSize
		if offset+need > len(data) {
			return nil, &hdf5err.Truncated{Offset: int64(offset), Want: need}
		}
		layout.Address = leUint(data[offset:], w.OffsetSize)
		offset += w.OffsetSize
		layout.Size = leUint(data[offset:], w.LengthSize)

	case LayoutChunked:
		if offset+w.OffsetSize > len(data) {
			return nil, &hdf5err.Truncated{Offset: int64(offset), Want: w.OffsetSize}
		}
		layout.ChunkIndexAddr = leUint(data[offset:], w.OffsetSize)
		offset += w.OffsetSize
		layout.ChunkDims = make([]uint32, ndims)
		for i := 0; i < ndims; i++ {
			if offset+4 > len(data) {
				return nil, &hdf5err.Truncated{Offset: int64(offset), Want: 4}
			}
			layout.ChunkDims[i] = leUint32(data[offset:])
			offset += 4
		}

	default:
		return nil, &hdf5err.UnsupportedLayoutClass{Class: uint8(layout.Class)}
	}
	return layout, nil
}

func parseLayoutV3(data []byte, w Widths, layout *DataLayout) (*DataLayout, error) {
	layout.Class = LayoutClass(data[1])
	offset := 2

	switch layout.Class {
	case LayoutCompact:
		if offset+2 > len(data) {
			return nil, &hdf5err.Truncated{Offset: int64(offset), Want: 2}
		}
		size := uint16(data[offset]) | uint16(data[offset+1])<<8
		offset += 2
		if offset+int(size) > len(data) {
			return nil, &hdf5err.Truncated{Offset: int64(offset), Want: int(size)}
		}
		layout.CompactData = append([]byte(nil), data[offset:offset+int(size)]...)

	case LayoutContiguous:
		need := w.OffsetSize + w.LengthSize
		if offset+need > len(data) {
			return nil, &hdf5err.Truncated{Offset: int64(offset), Want: need}
		}
		layout.Address = leUint(data[offset:], w.OffsetSize)
		offset += w.OffsetSize
		layout.Size = leUint(data[offset:], w.LengthSize)

	case LayoutChunked:
		if offset+1 > len(data) {
			return nil, &hdf5err.Truncated{Offset: int64(offset), Want: 1}
		}
		dimensionality := int(data[offset])
		offset++
		if offset+w.OffsetSize > len(data) {
			return nil, &hdf5err.Truncated{Offset: int64(offset), Want: w.OffsetSize}
		}
		layout.ChunkIndexAddr = leUint(data[offset:], w.OffsetSize)
		offset += w.OffsetSize
		layout.ChunkDims = make([]uint32, dimensionality)
		for i := 0; i < dimensionality; i++ {
			if offset+4 > len(data) {
				return nil, &hdf5err.Truncated{Offset: int64(offset), Want: 4}
			}
			layout.ChunkDims[i] = leUint32(data[offset:])
			offset += 4
		}

	default:
		return nil, &hdf5err.UnsupportedLayoutClass{Class: uint8(layout.Class)}
	}
	return layout, nil
}
