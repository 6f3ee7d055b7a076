package message

import "github.com/marrow-data/hdf5decode/internal/hdf5err"

// SpaceType is the dataspace's shape kind.
type SpaceType uint8

const (
	SpaceScalar SpaceType = 0
	SpaceSimple SpaceType = 1
	SpaceNull   SpaceType = 2
)

// Dataspace is the decoded shape of a dataset or attribute (type 0x0001).
type Dataspace struct {
	Version    uint8
	SpaceType  SpaceType
	Dimensions []uint64
	MaxDims    []uint64 // nil unless the message carried its own max-size vector
}

func (m *Dataspace) Type() Type { return TypeDataspace }

// NumElements returns the element count implied by Dimensions.
func (m *Dataspace) NumElements() uint64 {
	switch m.SpaceType {
	case SpaceNull:
		return 0
	case SpaceScalar:
		return 1
	default:
		n := uint64(1)
		for _, d := range m.Dimensions {
			n *= d
		}
		return n
	}
}

// parseDataspace decodes a dataspace message. flags is the enclosing
// message record's flags byte; a 4-byte payload with flags bit 0 set is
// a placeholder (size=4, flags=1) and carries no dataspace at all, per
// the object-header message dispatch table.
func parseDataspace(data []byte, w Widths, flags uint8) (*Dataspace, error) {
	if len(data) == 4 && flags&0x01 != 0 {
		return nil, nil
	}
	if len(data) < 4 {
		return nil, &hdf5err.Truncated{Offset: 0, Want: 4}
	}
	version := data[0]
	if version != 1 && version != 2 {
		return nil, &hdf5err.UnsupportedVersion{Context: "dataspace", Version: version}
	}
	rank := int(data[1])
	dsFlags := data[2]
	hasMaxDims := dsFlags&0x01 != 0
	if dsFlags&0x02 != 0 {
		return nil, &hdf5err.PermutedOrUnequalMaxSize{Rank: rank}
	}

	ds := &Dataspace{Version: version}
	if version == 2 {
		ds.SpaceType = SpaceType(data[3])
	} else if rank == 0 {
		ds.SpaceType = SpaceScalar
	} else {
		ds.SpaceType = SpaceSimple
	}

	if ds.SpaceType != SpaceSimple || rank == 0 {
		return ds, nil
	}

	offset := 4
	if version == 1 {
		offset = 8 // 4 reserved bytes after the flags/type byte
	}

	lengthSize := w.LengthSize
	ds.Dimensions = make([]uint64, rank)
	for i := 0; i < rank; i++ {
		if offset+lengthSize > len(data) {
			return nil, &hdf5err.Truncated{Offset: int64(offset), Want: lengthSize}
		}
		ds.Dimensions[i] = leUint(data[offset:], lengthSize)
		offset += lengthSize
	}

	if hasMaxDims {
		max := make([]uint64, rank)
		for i := 0; i < rank; i++ {
			if offset+lengthSize > len(data) {
				return nil, &hdf5err.Truncated{Offset: int64(offset), Want: lengthSize}
			}
			max[i] = leUint(data[offset:], lengthSize)
			offset += lengthSize
		}
		for i := range max {
			if max[i] == ds.Dimensions[i] {
				continue
			}
			// Only version 2 permits the unbounded-size sentinel; version
			// 1's max-size vector must equal the current dimensions.
			if version == 2 && max[i] == 0xFFFFFFFFFFFFFFFF {
				continue
			}
			return nil, &hdf5err.PermutedOrUnequalMaxSize{Rank: rank}
		}
		ds.MaxDims = max
	}

	return ds, nil
}
