package hdf5

import (
	"github.com/marrow-data/hdf5decode/internal/dtype"
	"github.com/marrow-data/hdf5decode/internal/message"
)

// Attribute is a named value attached to a group or variable.
type Attribute struct {
	file *File
	msg  *message.Attribute
}

// Name returns the attribute's name.
func (a *Attribute) Name() string { return a.msg.Name }

// Shape returns the attribute's dimensions, or nil for a scalar.
func (a *Attribute) Shape() []uint64 {
	if a.msg.Dataspace == nil || a.msg.Dataspace.SpaceType == message.SpaceScalar {
		return nil
	}
	return a.msg.Dataspace.Dimensions
}

// Value decodes the attribute's stored bytes into element values,
// resolving any variable-length global-heap references. It returns a
// single value for a scalar dataspace, or a []interface{} otherwise.
func (a *Attribute) Value() (interface{}, error) {
	dt := a.msg.Datatype
	n := 1
	if a.msg.Dataspace != nil && a.msg.Dataspace.SpaceType != message.SpaceScalar {
		n = int(a.msg.Dataspace.NumElements())
	}

	values := make([]interface{}, 0, n)
	offset := 0
	for i := 0; i < n; i++ {
		elem, err := dtype.Read(dt, a.msg.Data[offset:], a.file.widths.OffsetSize)
		if err != nil {
			return nil, err
		}
		decoded, err := dtype.Decode(dt, elem, a.file, a.file.widths.OffsetSize)
		if err != nil {
			return nil, err
		}
		values = append(values, decoded)
		offset += int(dt.Size)
	}

	if a.msg.Dataspace == nil || a.msg.Dataspace.SpaceType == message.SpaceScalar {
		if len(values) == 1 {
			return values[0], nil
		}
	}
	return values, nil
}
