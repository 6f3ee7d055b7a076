package hdf5

import (
	"fmt"

	"github.com/marrow-data/hdf5decode/internal/dtype"
	"github.com/marrow-data/hdf5decode/internal/layout"
	"github.com/marrow-data/hdf5decode/internal/message"
)

// Variable is a dataset: a dataspace-shaped array of one datatype,
// materialized from its data-layout message.
type Variable struct {
	file *File
	path string

	dataspace *message.Dataspace
	datatype  *message.Datatype
	layout    *message.DataLayout
	filters   *message.FilterPipeline

	raw    []byte
	values []interface{}
}

func newVariable(f *File, path string, ds *message.Dataspace, dt *message.Datatype, dl *message.DataLayout, fp *message.FilterPipeline) *Variable {
	return &Variable{file: f, path: path, dataspace: ds, datatype: dt, layout: dl, filters: fp}
}

// Path returns the variable's full path.
func (v *Variable) Path() string { return v.path }

// Type returns the element kind (integer width/signedness, float
// precision, string, opaque, compound, enum, boolean, or variable
// length string/sequence).
func (v *Variable) Type() message.Kind { return v.datatype.Kind }

// Shape returns the dataspace dimensions, or nil for a scalar.
func (v *Variable) Shape() []uint64 {
	if v.dataspace.SpaceType == message.SpaceScalar {
		return nil
	}
	return v.dataspace.Dimensions
}

// LittleEndian reports the element byte order (fixed-point and
// floating-point datatypes only).
func (v *Variable) LittleEndian() bool { return v.datatype.LittleEndian }

// NumElements returns the total element count.
func (v *Variable) NumElements() uint64 { return v.dataspace.NumElements() }

// Data returns the dense, row-major, unfiltered raw bytes backing the
// variable, materialized on first access.
func (v *Variable) Data() ([]byte, error) {
	if v.raw != nil {
		return v.raw, nil
	}
	shape := v.dataspace.Dimensions
	if v.dataspace.SpaceType == message.SpaceScalar {
		shape = []uint64{1}
	}
	raw, err := layout.Materialize(v.file.r, v.layout, shape, int(v.datatype.Size), v.filters, v.file.inflater)
	if err != nil {
		return nil, err
	}
	v.raw = raw
	return raw, nil
}

// Value decodes every element, resolving variable-length global-heap
// references, and returns them as a []interface{} in row-major order.
func (v *Variable) Value() ([]interface{}, error) {
	if v.values != nil {
		return v.values, nil
	}
	raw, err := v.Data()
	if err != nil {
		return nil, err
	}

	n := int(v.NumElements())
	itemSize := int(v.datatype.Size)
	values := make([]interface{}, 0, n)
	for i := 0; i < n; i++ {
		elem, err := dtype.Read(v.datatype, raw[i*itemSize:], v.file.widths.OffsetSize)
		if err != nil {
			return nil, err
		}
		decoded, err := dtype.Decode(v.datatype, elem, v.file, v.file.widths.OffsetSize)
		if err != nil {
			return nil, err
		}
		values = append(values, decoded)
	}
	v.values = values
	return values, nil
}

// Int64s decodes the variable as a slice of int64, converting from
// whatever signed or unsigned fixed-point width it actually stores.
func (v *Variable) Int64s() ([]int64, error) {
	values, err := v.Value()
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(values))
	for i, val := range values {
		n, err := toInt64(val)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// Float64s decodes the variable as a slice of float64.
func (v *Variable) Float64s() ([]float64, error) {
	values, err := v.Value()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i, val := range values {
		switch n := val.(type) {
		case float32:
			out[i] = float64(n)
		case float64:
			out[i] = n
		default:
			return nil, fmt.Errorf("hdf5: element %d is not a float: %T", i, val)
		}
	}
	return out, nil
}

// Strings decodes the variable as a slice of string (fixed-length or
// variable-length string datatypes only).
func (v *Variable) Strings() ([]string, error) {
	values, err := v.Value()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(values))
	for i, val := range values {
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("hdf5: element %d is not a string: %T", i, val)
		}
		out[i] = s
	}
	return out, nil
}

// Bools decodes the variable as a slice of bool (boolean-enum
// datatype only).
func (v *Variable) Bools() ([]bool, error) {
	values, err := v.Value()
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(values))
	for i, val := range values {
		b, ok := val.(bool)
		if !ok {
			return nil, fmt.Errorf("hdf5: element %d is not a boolean: %T", i, val)
		}
		out[i] = b
	}
	return out, nil
}

func toInt64(val interface{}) (int64, error) {
	switch n := val.(type) {
	case byte:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, fmt.Errorf("hdf5: element is not an integer: %T", val)
	}
}
