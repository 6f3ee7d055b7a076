package message

import "github.com/marrow-data/hdf5decode/internal/hdf5err"

// Continuation points at another location in the file holding more of
// this object's messages (type 0x0010).
type Continuation struct {
	Offset uint64
	Length uint64
}

func (m *Continuation) Type() Type { return TypeObjectHeaderContinuation }

func parseContinuation(data []byte, w Widths) (*Continuation, error) {
	need := w.OffsetSize + w.LengthSize
	if len(data) < need {
		return nil, &hdf5err.Truncated{Offset: 0, Want: need}
	}
	return &Continuation{
		Offset: leUint(data[0:w.OffsetSize], w.OffsetSize),
		Length: leUint(data[w.OffsetSize:need], w.LengthSize),
	}, nil
}

// SymbolTable points at the B-tree and local heap that index a v1
// group's children (type 0x0011).
type SymbolTable struct {
	BTreeAddress     uint64
	LocalHeapAddress uint64
}

func (m *SymbolTable) Type() Type { return TypeSymbolTable }

func parseSymbolTable(data []byte, w Widths) (*SymbolTable, error) {
	need := 2 * w.OffsetSize
	if len(data) < need {
		return nil, &hdf5err.Truncated{Offset: 0, Want: need}
	}
	return &SymbolTable{
		BTreeAddress:     leUint(data[0:w.OffsetSize], w.OffsetSize),
		LocalHeapAddress: leUint(data[w.OffsetSize:need], w.OffsetSize),
	}, nil
}
