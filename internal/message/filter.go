package message

import "github.com/marrow-data/hdf5decode/internal/hdf5err"

// Filter IDs this decoder recognizes; any other ID is rejected at
// decode time by the internal/filter package.
const (
	FilterDeflate uint16 = 1
	FilterLZF     uint16 = 32000
)

// FilterInfo is one stage of a filter pipeline.
type FilterInfo struct {
	ID         uint16
	Flags      uint16
	Name       string
	ClientData []uint32
}

// Optional reports whether the filter may be skipped when its ID is
// unrecognized by the reading application (bit 0 of Flags).
func (f *FilterInfo) Optional() bool { return f.Flags&0x01 != 0 }

// FilterPipeline is the decoded filter-pipeline message (type 0x000B).
type FilterPipeline struct {
	Version uint8
	Filters []FilterInfo
}

func (m *FilterPipeline) Type() Type { return TypeFilterPipeline }

func parseFilterPipeline(data []byte) (*FilterPipeline, error) {
	if len(data) < 2 {
		return nil, &hdf5err.Truncated{Offset: 0, Want: 2}
	}
	version := data[0]
	if version != 1 {
		return nil, &hdf5err.UnsupportedVersion{Context: "filter-pipeline", Version: version}
	}
	count := int(data[1])
	offset := 8 // version(1) + count(1) + 6 reserved

	fp := &FilterPipeline{Version: version, Filters: make([]FilterInfo, 0, count)}
	for i := 0; i < count; i++ {
		f, consumed, err := parseFilterInfo(data[offset:])
		if err != nil {
			return nil, err
		}
		fp.Filters = append(fp.Filters, f)
		offset += consumed
	}
	return fp, nil
}

func parseFilterInfo(data []byte) (FilterInfo, int, error) {
	if len(data) < 8 {
		return FilterInfo{}, 0, &hdf5err.Truncated{Offset: 0, Want: 8}
	}
	var f FilterInfo
	f.ID = uint16(data[0]) | uint16(data[1])<<8
	nameLen := uint16(data[2]) | uint16(data[3])<<8
	f.Flags = uint16(data[4]) | uint16(data[5])<<8
	numCD := uint16(data[6]) | uint16(data[7])<<8
	offset := 8

	if nameLen > 0 {
		if offset+int(nameLen) > len(data) {
			return FilterInfo{}, 0, &hdf5err.Truncated{Offset: int64(offset), Want: int(nameLen)}
		}
		nameEnd := offset
		for nameEnd < offset+int(nameLen) && data[nameEnd] != 0 {
			nameEnd++
		}
		f.Name = string(data[offset:nameEnd])
		offset += int(nameLen)
		if nameLen%8 != 0 {
			offset += 8 - int(nameLen%8)
		}
	}

	f.ClientData = make([]uint32, numCD)
	for i := 0; i < int(numCD); i++ {
		if offset+4 > len(data) {
			return FilterInfo{}, 0, &hdf5err.Truncated{Offset: int64(offset), Want: 4}
		}
		f.ClientData[i] = leUint32(data[offset:])
		offset += 4
	}
	if numCD%2 != 0 {
		offset += 4
	}

	return f, offset, nil
}
