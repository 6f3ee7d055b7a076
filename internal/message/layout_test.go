package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDataLayoutV1Contiguous(t *testing.T) {
	w := Widths{OffsetSize: 8, LengthSize: 8}
	data := []byte{1, 0, byte(LayoutContiguous), 0}
	data = append(data, leLength(0x1000, 8)...)
	data = append(data, leLength(256, 8)...)
	dl, err := parseDataLayout(data, w)
	require.NoError(t, err)
	require.Equal(t, LayoutContiguous, dl.Class)
	require.Equal(t, uint64(0x1000), dl.Address)
	require.Equal(t, uint64(256), dl.Size)
}

func TestParseDataLayoutV1Compact(t *testing.T) {
	w := Widths{OffsetSize: 8, LengthSize: 8}
	data := []byte{1, 0, byte(LayoutCompact), 0}
	data = append(data, 4, 0, 0, 0) // size = 4
	data = append(data, []byte{0xDE, 0xAD, 0xBE, 0xEF}...)
	dl, err := parseDataLayout(data, w)
	require.NoError(t, err)
	require.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, dl.CompactData)
}

func TestParseDataLayoutV1Chunked(t *testing.T) {
	w := Widths{OffsetSize: 8, LengthSize: 8}
	data := []byte{1, 2, byte(LayoutChunked), 0} // ndims=2
	data = append(data, leLength(0x2000, 8)...)
	data = append(data, 4, 0, 0, 0) // chunk dim 0
	data = append(data, 8, 0, 0, 0) // chunk dim 1 (element-size pseudo-dim)
	dl, err := parseDataLayout(data, w)
	require.NoError(t, err)
	require.Equal(t, uint64(0x2000), dl.ChunkIndexAddr)
	require.Equal(t, []uint32{4, 8}, dl.ChunkDims)
}

func TestParseDataLayoutV3Chunked(t *testing.T) {
	w := Widths{OffsetSize: 8, LengthSize: 8}
	data := []byte{3, byte(LayoutChunked), 2} // dimensionality=2
	data = append(data, leLength(0x3000, 8)...)
	data = append(data, 4, 0, 0, 0)
	data = append(data, 8, 0, 0, 0)
	dl, err := parseDataLayout(data, w)
	require.NoError(t, err)
	require.Equal(t, uint64(0x3000), dl.ChunkIndexAddr)
	require.Equal(t, []uint32{4, 8}, dl.ChunkDims)
}

func TestParseDataLayoutUnsupportedVersionFails(t *testing.T) {
	_, err := parseDataLayout([]byte{9, 0}, Widths{OffsetSize: 8, LengthSize: 8})
	require.Error(t, err)
}
