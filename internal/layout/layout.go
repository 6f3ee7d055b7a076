// Package layout materializes a dataset's dense byte representation
// from its data-layout message: compact (inline), contiguous (one
// seek+read), or chunked (B-tree traversal, per-chunk filter
// pipeline, row-major scatter into the dense output).
package layout

import (
	"github.com/marrow-data/hdf5decode/internal/btree"
	"github.com/marrow-data/hdf5decode/internal/filter"
	"github.com/marrow-data/hdf5decode/internal/message"
	"github.com/marrow-data/hdf5decode/reader"
)

// Materialize returns the dense, row-major byte representation of a
// dataset: prod(dataShape)*itemSize bytes, fully decoded and
// unfiltered. dataShape is taken from the dataspace's Dimensions.
func Materialize(r reader.Reader, dl *message.DataLayout, dataShape []uint64, itemSize int, fp *message.FilterPipeline, inflater filter.Inflater) ([]byte, error) {
	total := itemSize
	for _, d := range dataShape {
		total *= int(d)
	}

	switch dl.Class {
	case message.LayoutCompact:
		out := make([]byte, total)
		copy(out, dl.CompactData)
		return out, nil

	case message.LayoutContiguous:
		out := make([]byte, total)
		if dl.Address == reader.UndefinedOffset {
			return out, nil
		}
		saved := r.Position()
		defer r.Seek(saved)
		if err := r.Seek(int64(dl.Address)); err != nil {
			return nil, err
		}
		n := int(dl.Size)
		if n > total {
			n = total
		}
		raw, err := r.Read(n)
		if err != nil {
			return nil, err
		}
		copy(out, raw)
		return out, nil

	case message.LayoutChunked:
		return materializeChunked(r, dl, dataShape, itemSize, fp, inflater)
	}
	return nil, nil
}

func materializeChunked(r reader.Reader, dl *message.DataLayout, dataShape []uint64, itemSize int, fp *message.FilterPipeline, inflater filter.Inflater) ([]byte, error) {
	rank := len(dataShape)
	// ChunkDims carries rank+1 entries: the dataset's dims plus a
	// trailing element-size pseudo-dimension, stripped here.
	chunkShape := make([]uint64, rank)
	for i := 0; i < rank; i++ {
		chunkShape[i] = uint64(dl.ChunkDims[i])
	}

	total := itemSize
	for _, d := range dataShape {
		total *= int(d)
	}
	out := make([]byte, total)

	strides := rowMajorStrides(dataShape)

	entries, err := btree.ReadChunkEntries(r, dl.ChunkIndexAddr, rank+1)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		saved := r.Position()
		if err := r.Seek(int64(entry.Address)); err != nil {
			r.Seek(saved)
			return nil, err
		}
		raw, err := r.Read(int(entry.Size))
		r.Seek(saved)
		if err != nil {
			return nil, err
		}

		masked := maskedPipeline(fp, entry.FilterMask)
		decoded, err := filter.New(masked, inflater).Decode(raw)
		if err != nil {
			return nil, err
		}

		chunkOffset := entry.Offset[:rank]
		scatterChunk(decoded, chunkOffset, chunkShape, dataShape, strides, itemSize, out)
	}

	return out, nil
}

// maskedPipeline returns a copy of fp with any filter stage the
// per-chunk filterMask marks as skipped removed from the list.
func maskedPipeline(fp *message.FilterPipeline, filterMask uint32) *message.FilterPipeline {
	if fp == nil {
		return nil
	}
	out := &message.FilterPipeline{Version: fp.Version}
	for i, f := range fp.Filters {
		if (filterMask>>uint(i))&1 == 1 {
			continue
		}
		out.Filters = append(out.Filters, f)
	}
	return out
}

func rowMajorStrides(shape []uint64) []uint64 {
	strides := make([]uint64, len(shape))
	acc := uint64(1)
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

// scatterChunk walks every element position within a chunk in
// row-major order, tracking a carry-based cursor, and copies each
// in-bounds element into the dense output.
func scatterChunk(chunk []byte, chunkOffset, chunkShape, dataShape, strides []uint64, itemSize int, out []byte) {
	rank := len(chunkShape)
	if rank == 0 {
		if len(chunk) >= itemSize && len(out) >= itemSize {
			copy(out[:itemSize], chunk[:itemSize])
		}
		return
	}

	pos := make([]uint64, rank)
	chunkStrides := rowMajorStrides(chunkShape)

	total := uint64(1)
	for _, d := range chunkShape {
		total *= d
	}

	for idx := uint64(0); idx < total; idx++ {
		inBounds := true
		flatOut := uint64(0)
		for i := 0; i < rank; i++ {
			dataPos := chunkOffset[i] + pos[i]
			if dataPos >= dataShape[i] {
				inBounds = false
			}
			flatOut += dataPos * strides[i]
		}
		if inBounds {
			srcStart := 0
			for i := 0; i < rank; i++ {
				srcStart += int(pos[i] * chunkStrides[i])
			}
			srcStart *= itemSize
			dstStart := int(flatOut) * itemSize
			if srcStart+itemSize <= len(chunk) && dstStart+itemSize <= len(out) {
				copy(out[dstStart:dstStart+itemSize], chunk[srcStart:srcStart+itemSize])
			}
		}

		for i := rank - 1; i >= 0; i-- {
			pos[i]++
			if pos[i] < chunkShape[i] {
				break
			}
			pos[i] = 0
		}
	}
}
