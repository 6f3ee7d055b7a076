// Package object parses HDF5 object headers: the per-object metadata
// block holding a sequence of typed messages (dataspace, datatype,
// layout, filters, attributes, links).
package object

import (
	"github.com/marrow-data/hdf5decode/internal/hdf5err"
	"github.com/marrow-data/hdf5decode/internal/message"
	"github.com/marrow-data/hdf5decode/reader"
)

var ohdrSignature = []byte{'O', 'H', 'D', 'R'}
var ochkSignature = []byte{'O', 'C', 'H', 'K'}

// Header is a parsed object header, flattened across any continuation
// blocks it spans.
type Header struct {
	Version  uint8
	Address  uint64
	Messages []message.Message
}

// GetMessage returns the first message of the given type, or nil.
func (h *Header) GetMessage(typ message.Type) message.Message {
	for _, m := range h.Messages {
		if m.Type() == typ {
			return m
		}
	}
	return nil
}

// GetMessages returns all messages of the given type.
func (h *Header) GetMessages(typ message.Type) []message.Message {
	var out []message.Message
	for _, m := range h.Messages {
		if m.Type() == typ {
			out = append(out, m)
		}
	}
	return out
}

func (h *Header) Dataspace() *message.Dataspace {
	if m := h.GetMessage(message.TypeDataspace); m != nil {
		return m.(*message.Dataspace)
	}
	return nil
}

func (h *Header) Datatype() *message.Datatype {
	if m := h.GetMessage(message.TypeDatatype); m != nil {
		return m.(*message.Datatype)
	}
	return nil
}

func (h *Header) DataLayout() *message.DataLayout {
	if m := h.GetMessage(message.TypeDataLayout); m != nil {
		return m.(*message.DataLayout)
	}
	return nil
}

func (h *Header) FilterPipeline() *message.FilterPipeline {
	if m := h.GetMessage(message.TypeFilterPipeline); m != nil {
		return m.(*message.FilterPipeline)
	}
	return nil
}

func (h *Header) SymbolTable() *message.SymbolTable {
	if m := h.GetMessage(message.TypeSymbolTable); m != nil {
		return m.(*message.SymbolTable)
	}
	return nil
}

// Read parses an object header at address, dispatching to the v1 or v2
// wire format based on the leading signature/version byte.
func Read(r reader.Reader, address uint64, w message.Widths) (*Header, error) {
	if err := r.Seek(int64(address)); err != nil {
		return nil, err
	}
	peek, err := r.Peek(4)
	if err != nil {
		return nil, err
	}
	if string(peek) == "OHDR" {
		return readV2(r, address, w)
	}
	if peek[0] == 1 {
		return readV1(r, address, w)
	}
	return nil, &hdf5err.BadMagic{Context: "object-header", Got: peek}
}

func readMessageRecord(r reader.Reader, w message.Widths) (message.Type, []byte, uint8, bool, error) {
	msgType, err := r.Uint16()
	if err != nil {
		return 0, nil, 0, false, err
	}
	dataSize, err := r.Uint16()
	if err != nil {
		return 0, nil, 0, false, err
	}
	flags, err := r.Byte()
	if err != nil {
		return 0, nil, 0, false, err
	}
	if err := r.Skip(3); err != nil { // reserved
		return 0, nil, 0, false, err
	}
	data, err := r.Read(int(dataSize))
	if err != nil {
		return 0, nil, 0, false, err
	}
	if err := r.Align(8); err != nil {
		return 0, nil, 0, false, err
	}
	return message.Type(msgType), data, flags, msgType == 0, nil
}

func readV1(r reader.Reader, address uint64, w message.Widths) (*Header, error) {
	version, err := r.Byte()
	if err != nil {
		return nil, err
	}
	if version != 1 {
		return nil, &hdf5err.UnsupportedVersion{Context: "object-header", Version: version}
	}
	if err := r.Skip(1); err != nil { // reserved
		return nil, err
	}
	if _, err := r.Uint16(); err != nil { // num messages (trusted via headerSize loop instead)
		return nil, err
	}
	if _, err := r.Uint32(); err != nil { // ref count
		return nil, err
	}
	headerSize, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if err := r.Align(8); err != nil {
		return nil, err
	}

	hdr := &Header{Version: 1, Address: address}
	end := r.Position() + int64(headerSize)
	if err := readV1Messages(r, end, hdr, w); err != nil {
		return nil, err
	}
	return hdr, nil
}

func readV1Messages(r reader.Reader, end int64, hdr *Header, w message.Widths) error {
	for r.Position() < end {
		typ, data, flags, isNil, err := readMessageRecord(r, w)
		if err != nil {
			return err
		}
		if isNil {
			continue
		}
		if typ == message.TypeObjectHeaderContinuation {
			cont, err := message.Parse(typ, data, w, flags)
			if err != nil {
				return err
			}
			c := cont.(*message.Continuation)
			saved := r.Position()
			if err := followV1Continuation(r, c.Offset, c.Length, hdr, w); err != nil {
				return err
			}
			if err := r.Seek(saved); err != nil {
				return err
			}
			continue
		}
		msg, err := message.Parse(typ, data, w, flags)
		if err != nil {
			return err
		}
		if msg != nil {
			hdr.Messages = append(hdr.Messages, msg)
		}
	}
	return nil
}

func followV1Continuation(r reader.Reader, offset, length uint64, hdr *Header, w message.Widths) error {
	if err := r.Seek(int64(offset)); err != nil {
		return err
	}
	return readV1Messages(r, int64(offset+length), hdr, w)
}

func readV2(r reader.Reader, address uint64, w message.Widths) (*Header, error) {
	chunkStart := r.Position()
	if err := r.Expect(ohdrSignature, "object-header-v2"); err != nil {
		return nil, err
	}
	version, err := r.Byte()
	if err != nil {
		return nil, err
	}
	if version != 2 {
		return nil, &hdf5err.UnsupportedVersion{Context: "object-header", Version: version}
	}
	flags, err := r.Byte()
	if err != nil {
		return nil, err
	}
	if flags&0x20 != 0 {
		for i := 0; i < 4; i++ {
			if _, err := r.Uint32(); err != nil {
				return nil, err
			}
		}
	}
	if flags&0x10 != 0 {
		if err := r.Skip(4); err != nil {
			return nil, err
		}
	}
	sizeFieldSize := 1 << (flags & 0x03)
	chunk0Size, err := readUintN(r, sizeFieldSize)
	if err != nil {
		return nil, err
	}
	trackCreationOrder := flags&0x04 != 0

	hdr := &Header{Version: 2, Address: address}
	chunkEnd := r.Position() + int64(chunk0Size) - 4
	if err := readV2Messages(r, chunkStart, chunkEnd, hdr, w, trackCreationOrder); err != nil {
		return nil, err
	}
	return hdr, nil
}

func readV2Messages(r reader.Reader, chunkStart, chunkEnd int64, hdr *Header, w message.Widths, trackCreationOrder bool) error {
	for r.Position() < chunkEnd {
		typ, data, flags, isNil, err := readV2MessageRecord(r, trackCreationOrder)
		if err != nil {
			return err
		}
		if isNil {
			continue
		}
		if typ == message.TypeObjectHeaderContinuation {
			cont, err := message.Parse(typ, data, w, flags)
			if err != nil {
				return err
			}
			c := cont.(*message.Continuation)
			saved := r.Position()
			if err := followV2Continuation(r, c.Offset, c.Length, hdr, w, trackCreationOrder); err != nil {
				return err
			}
			if err := r.Seek(saved); err != nil {
				return err
			}
			continue
		}
		msg, err := message.Parse(typ, data, w, flags)
		if err != nil {
			return err
		}
		if msg != nil {
			hdr.Messages = append(hdr.Messages, msg)
		}
	}

	chunkBytes, err := readSpan(r, chunkStart, chunkEnd)
	if err != nil {
		return err
	}
	stored, err := r.Uint32()
	if err != nil {
		return err
	}
	if lookup3Checksum(chunkBytes) != stored {
		return &hdf5err.CorruptedCompressedData{Filter: "object-header-v2-checksum"}
	}
	return nil
}

func followV2Continuation(r reader.Reader, offset, length uint64, hdr *Header, w message.Widths, trackCreationOrder bool) error {
	chunkStart := int64(offset)
	if err := r.Seek(chunkStart); err != nil {
		return err
	}
	if err := r.Expect(ochkSignature, "object-header-v2-continuation"); err != nil {
		return err
	}
	return readV2Messages(r, chunkStart, chunkStart+int64(length)-4, hdr, w, trackCreationOrder)
}

func readV2MessageRecord(r reader.Reader, trackCreationOrder bool) (message.Type, []byte, uint8, bool, error) {
	first, err := r.Byte()
	if err != nil {
		return 0, nil, 0, false, err
	}
	var msgType uint8
	var dataSize uint32
	if first == 0xFF {
		msgType, err = r.Byte()
		if err != nil {
			return 0, nil, 0, false, err
		}
		dataSize, err = r.Uint32()
		if err != nil {
			return 0, nil, 0, false, err
		}
	} else {
		msgType = first
		size16, err := r.Uint16()
		if err != nil {
			return 0, nil, 0, false, err
		}
		dataSize = uint32(size16)
	}
	flags, err := r.Byte()
	if err != nil {
		return 0, nil, 0, false, err
	}
	if trackCreationOrder {
		if err := r.Skip(2); err != nil {
			return 0, nil, 0, false, err
		}
	}
	data, err := r.Read(int(dataSize))
	if err != nil {
		return 0, nil, 0, false, err
	}
	return message.Type(msgType), data, flags, msgType == 0, nil
}

func readUintN(r reader.Reader, n int) (uint64, error) {
	switch n {
	case 1:
		v, err := r.Byte()
		return uint64(v), err
	case 2:
		v, err := r.Uint16()
		return uint64(v), err
	case 4:
		v, err := r.Uint32()
		return uint64(v), err
	case 8:
		return r.Uint64()
	default:
		return 0, &hdf5err.IntegerOverflow{Context: "object-header chunk-0 size field", Value: uint64(n)}
	}
}

func readSpan(r reader.Reader, start, end int64) ([]byte, error) {
	saved := r.Position()
	if err := r.Seek(start); err != nil {
		return nil, err
	}
	bs, err := r.Read(int(end - start))
	if err != nil {
		return nil, err
	}
	if err := r.Seek(saved); err != nil {
		return nil, err
	}
	return bs, nil
}
