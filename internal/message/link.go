package message

import "github.com/marrow-data/hdf5decode/internal/hdf5err"

// LinkType is the kind of target a Link message resolves to.
type LinkType uint8

const (
	LinkTypeHard LinkType = 0
	LinkTypeSoft LinkType = 1
)

// Link is a decoded link message (type 0x0006), naming a child of a
// group. Only hard links carry a usable ObjectAddress; this decoder
// does not resolve soft or external link targets (out of scope).
type Link struct {
	Version  uint8
	LinkType LinkType
	Name     string

	ObjectAddress uint64 // valid when LinkType == LinkTypeHard
}

func (m *Link) Type() Type      { return TypeLink }
func (m *Link) IsHard() bool    { return m.LinkType == LinkTypeHard }

func parseLink(data []byte, w Widths) (*Link, error) {
	if len(data) < 2 {
		return nil, &hdf5err.Truncated{Offset: 0, Want: 2}
	}
	link := &Link{Version: data[0]}
	flags := data[1]
	offset := 2

	nameLenSize := 1 << (flags & 0x03)

	if flags&0x08 != 0 {
		if offset >= len(data) {
			return nil, &hdf5err.Truncated{Offset: int64(offset), Want: 1}
		}
		link.LinkType = LinkType(data[offset])
		offset++
	}
	if flags&0x04 != 0 { // creation order
		offset += 8
	}
	if flags&0x10 != 0 { // charset
		offset++
	}

	if offset+nameLenSize > len(data) {
		return nil, &hdf5err.Truncated{Offset: int64(offset), Want: nameLenSize}
	}
	nameLen := int(leUint(data[offset:], nameLenSize))
	offset += nameLenSize

	if offset+nameLen > len(data) {
		return nil, &hdf5err.Truncated{Offset: int64(offset), Want: nameLen}
	}
	link.Name = string(data[offset : offset+nameLen])
	offset += nameLen

	if link.LinkType == LinkTypeHard {
		if offset+w.OffsetSize > len(data) {
			return nil, &hdf5err.Truncated{Offset: int64(offset), Want: w.OffsetSize}
		}
		link.ObjectAddress = leUint(data[offset:], w.OffsetSize)
	}
	// Soft/external link targets are parsed far enough to get the name
	// and are otherwise not resolved.

	return link, nil
}
