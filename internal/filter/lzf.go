package filter

import "github.com/marrow-data/hdf5decode/internal/hdf5err"

// decodeLZF implements the LZF decompression algorithm (filter id
// 32000): a control-byte stream of literal runs and back-references.
// It runs a size-computing dry pass first so the output buffer is
// allocated exactly once, then a second pass that performs the copy.
func decodeLZF(data []byte) ([]byte, error) {
	size, err := lzfOutputSize(data)
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	if err := lzfCopy(data, out); err != nil {
		return nil, err
	}
	return out, nil
}

func lzfOutputSize(data []byte) (int, error) {
	in, out := 0, 0
	for in < len(data) {
		c := int(data[in])
		in++
		if c < 32 {
			run := c + 1
			if in+run > len(data) {
				return 0, &hdf5err.CorruptedCompressedData{Filter: "lzf", Cause: errLZFTruncated}
			}
			in += run
			out += run
			continue
		}
		length := c >> 5
		if length == 7 {
			if in >= len(data) {
				return 0, &hdf5err.CorruptedCompressedData{Filter: "lzf", Cause: errLZFTruncated}
			}
			length += int(data[in])
			in++
		}
		length += 2
		if in >= len(data) {
			return 0, &hdf5err.CorruptedCompressedData{Filter: "lzf", Cause: errLZFTruncated}
		}
		in++ // back-offset low byte, consumed again in the copy pass
		out += length
	}
	return out, nil
}

func lzfCopy(data []byte, out []byte) error {
	in, o := 0, 0
	for in < len(data) {
		c := int(data[in])
		in++
		if c < 32 {
			run := c + 1
			copy(out[o:o+run], data[in:in+run])
			in += run
			o += run
			continue
		}
		length := c >> 5
		if length == 7 {
			length += int(data[in])
			in++
		}
		length += 2
		offset := ((c & 0x1F) << 8) | int(data[in])
		in++
		offset++

		ref := o - offset
		if ref < 0 {
			return &hdf5err.CorruptedCompressedData{Filter: "lzf", Cause: errLZFBadBackref}
		}
		for i := 0; i < length; i++ {
			out[o] = out[ref]
			o++
			ref++
		}
	}
	return nil
}

type lzfError string

func (e lzfError) Error() string { return string(e) }

const (
	errLZFTruncated  lzfError = "lzf: truncated control stream"
	errLZFBadBackref lzfError = "lzf: negative back-reference"
)
