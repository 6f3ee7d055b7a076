package message

import "github.com/marrow-data/hdf5decode/internal/hdf5err"

// Attribute is a decoded attribute message (type 0x000C): a named
// value attached to a group or dataset.
type Attribute struct {
	Version   uint8
	Name      string
	Datatype  *Datatype
	Dataspace *Dataspace
	Data      []byte
}

func (m *Attribute) Type() Type { return TypeAttribute }

func parseAttribute(data []byte, w Widths) (*Attribute, error) {
	if len(data) < 8 {
		return nil, &hdf5err.Truncated{Offset: 0, Want: 8}
	}
	version := data[0]
	switch version {
	case 1:
		return parseAttributeV1(data, w)
	case 2:
		return parseAttributeV2(data, w)
	case 3:
		return parseAttributeV3(data, w)
	default:
		return nil, &hdf5err.UnsupportedVersion{Context: "attribute", Version: version}
	}
}

func parseAttributeV1(data []byte, w Widths) (*Attribute, error) {
	nameSize := int(uint16(data[2]) | uint16(data[3])<<8)
	dtSize := int(uint16(data[4]) | uint16(data[5])<<8)
	dsSize := int(uint16(data[6]) | uint16(data[7])<<8)
	offset := 8

	name, offset, err := readPaddedName(data, offset, nameSize, 8)
	if err != nil {
		return nil, err
	}
	dt, offset, err := readDatatypeBlock(data, offset, dtSize, 8)
	if err != nil {
		return nil, err
	}
	ds, offset, err := readDataspaceBlock(data, offset, dsSize, w, 8)
	if err != nil {
		return nil, err
	}

	return &Attribute{Version: 1, Name: name, Datatype: dt, Dataspace: ds, Data: append([]byte(nil), data[offset:]...)}, nil
}

func parseAttributeV2(data []byte, w Widths) (*Attribute, error) {
	nameSize := int(uint16(data[2]) | uint16(data[3])<<8)
	dtSize := int(uint16(data[4]) | uint16(data[5])<<8)
	dsSize := int(uint16(data[6]) | uint16(data[7])<<8)
	offset := 8

	name, offset, err := readPaddedName(data, offset, nameSize, 1)
	if err != nil {
		return nil, err
	}
	dt, offset, err := readDatatypeBlock(data, offset, dtSize, 1)
	if err != nil {
		return nil, err
	}
	ds, offset, err := readDataspaceBlock(data, offset, dsSize, w, 1)
	if err != nil {
		return nil, err
	}

	return &Attribute{Version: 2, Name: name, Datatype: dt, Dataspace: ds, Data: append([]byte(nil), data[offset:]...)}, nil
}

func parseAttributeV3(data []byte, w Widths) (*Attribute, error) {
	if len(data) < 9 {
		return nil, &hdf5err.Truncated{Offset: 0, Want: 9}
	}
	nameSize := int(uint16(data[2]) | uint16(data[3])<<8)
	dtSize := int(uint16(data[4]) | uint16(data[5])<<8)
	dsSize := int(uint16(data[6]) | uint16(data[7])<<8)
	cset := data[8]
	if cset != 0 && cset != 1 {
		return nil, &hdf5err.UnsupportedCharacterSet{CSet: cset}
	}
	offset := 9

	name, offset, err := readPaddedName(data, offset, nameSize, 1)
	if err != nil {
		return nil, err
	}
	dt, offset, err := readDatatypeBlock(data, offset, dtSize, 1)
	if err != nil {
		return nil, err
	}
	ds, offset, err := readDataspaceBlock(data, offset, dsSize, w, 1)
	if err != nil {
		return nil, err
	}

	return &Attribute{Version: 3, Name: name, Datatype: dt, Dataspace: ds, Data: append([]byte(nil), data[offset:]...)}, nil
}

func readPaddedName(data []byte, offset, size, align int) (string, int, error) {
	if offset+size > len(data) {
		return "", 0, &hdf5err.Truncated{Offset: int64(offset), Want: size}
	}
	end := offset
	for end < offset+size && data[end] != 0 {
		end++
	}
	name := string(data[offset:end])
	offset += size
	if align > 1 && offset%align != 0 {
		offset += align - offset%align
	}
	return name, offset, nil
}

func readDatatypeBlock(data []byte, offset, size, align int) (*Datatype, int, error) {
	if offset+size > len(data) {
		return nil, 0, &hdf5err.Truncated{Offset: int64(offset), Want: size}
	}
	dt, _, err := parseDatatypeWithSize(data[offset : offset+size])
	if err != nil {
		return nil, 0, err
	}
	offset += size
	if align > 1 && offset%align != 0 {
		offset += align - offset%align
	}
	return dt, offset, nil
}

func readDataspaceBlock(data []byte, offset, size int, w Widths, align int) (*Dataspace, int, error) {
	if offset+size > len(data) {
		return nil, 0, &hdf5err.Truncated{Offset: int64(offset), Want: size}
	}
	ds, err := parseDataspace(data[offset:offset+size], w, 0)
	if err != nil {
		return nil, 0, err
	}
	offset += size
	if align > 1 && offset%align != 0 {
		offset += align - offset%align
	}
	return ds, offset, nil
}
