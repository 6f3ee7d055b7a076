// Package filter applies an HDF5 filter pipeline to a raw stored chunk
// to recover its decoded bytes.
package filter

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/marrow-data/hdf5decode/internal/hdf5err"
	"github.com/marrow-data/hdf5decode/internal/message"
)

// Inflater decompresses a zlib/DEFLATE stream. The default
// implementation wraps klauspost/compress/zlib; tests may substitute a
// fake to exercise error paths without real compressed fixtures.
type Inflater interface {
	Inflate(data []byte) ([]byte, error)
}

type zlibInflater struct{}

func (zlibInflater) Inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &hdf5err.CorruptedCompressedData{Filter: "deflate", Cause: err}
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, &hdf5err.CorruptedCompressedData{Filter: "deflate", Cause: err}
	}
	return out, nil
}

// Pipeline decodes chunks through a sequence of filters, applied in
// reverse (descending-index) order from how they were recorded, since
// that is the inverse of an ascending-order encode pipeline.
type Pipeline struct {
	filters  []message.FilterInfo
	inflater Inflater
}

// New builds a Pipeline from a decoded filter-pipeline message. A nil
// inflater defaults to zlib-backed DEFLATE.
func New(fp *message.FilterPipeline, inflater Inflater) *Pipeline {
	if inflater == nil {
		inflater = zlibInflater{}
	}
	var filters []message.FilterInfo
	if fp != nil {
		filters = fp.Filters
	}
	return &Pipeline{filters: filters, inflater: inflater}
}

// Decode applies every filter stage to raw, in reverse order.
func (p *Pipeline) Decode(raw []byte) ([]byte, error) {
	data := raw
	for i := len(p.filters) - 1; i >= 0; i-- {
		f := p.filters[i]
		decoded, err := p.decodeOne(f, data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}
	return data, nil
}

func (p *Pipeline) decodeOne(f message.FilterInfo, data []byte) ([]byte, error) {
	switch f.ID {
	case message.FilterDeflate:
		return p.inflater.Inflate(data)
	case message.FilterLZF:
		return decodeLZF(data)
	default:
		return nil, &hdf5err.UnsupportedFilter{ID: f.ID}
	}
}
