package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func leLength(v uint64, size int) []byte {
	b := make([]byte, size)
	for i := 0; i < size; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return b
}

func TestParseDataspaceScalarV1(t *testing.T) {
	data := []byte{1, 0, 0, 0, 0, 0, 0, 0} // version 1, rank 0, no flags, 4 reserved
	ds, err := parseDataspace(data, Widths{LengthSize: 8}, 0)
	require.NoError(t, err)
	require.Equal(t, SpaceScalar, ds.SpaceType)
	require.Equal(t, uint64(1), ds.NumElements())
}

func TestParseDataspaceSimpleV1(t *testing.T) {
	data := []byte{1, 2, 0, 0, 0, 0, 0, 0}
	data = append(data, leLength(3, 8)...)
	data = append(data, leLength(4, 8)...)
	ds, err := parseDataspace(data, Widths{LengthSize: 8}, 0)
	require.NoError(t, err)
	require.Equal(t, SpaceSimple, ds.SpaceType)
	require.Equal(t, []uint64{3, 4}, ds.Dimensions)
	require.Equal(t, uint64(12), ds.NumElements())
	require.Nil(t, ds.MaxDims)
}

func TestParseDataspaceWithMaxDims(t *testing.T) {
	data := []byte{1, 1, 0x01, 0, 0, 0, 0, 0}
	data = append(data, leLength(5, 8)...)
	data = append(data, leLength(5, 8)...) // matching max dims
	ds, err := parseDataspace(data, Widths{LengthSize: 8}, 0)
	require.NoError(t, err)
	require.Equal(t, []uint64{5}, ds.MaxDims)
}

func TestParseDataspacePermutedFlagFails(t *testing.T) {
	data := []byte{1, 1, 0x02, 0, 0, 0, 0, 0}
	data = append(data, leLength(5, 8)...)
	_, err := parseDataspace(data, Widths{LengthSize: 8}, 0)
	require.Error(t, err)
}

func TestParseDataspaceV2Null(t *testing.T) {
	data := []byte{2, 0, 0, byte(SpaceNull)}
	ds, err := parseDataspace(data, Widths{LengthSize: 8}, 0)
	require.NoError(t, err)
	require.Equal(t, SpaceNull, ds.SpaceType)
	require.Equal(t, uint64(0), ds.NumElements())
}

func TestParseDataspaceUnsupportedVersionFails(t *testing.T) {
	data := []byte{9, 0, 0, 0}
	_, err := parseDataspace(data, Widths{LengthSize: 8}, 0)
	require.Error(t, err)
}

func TestParseDataspacePlaceholderSkipped(t *testing.T) {
	data := []byte{0, 0, 0, 0} // contents irrelevant; size=4 + flags=1 is the placeholder signal
	ds, err := parseDataspace(data, Widths{LengthSize: 8}, 1)
	require.NoError(t, err)
	require.Nil(t, ds)
}

func TestParseDataspaceV1RejectsUnlimitedMaxDims(t *testing.T) {
	data := []byte{1, 1, 0x01, 0, 0, 0, 0, 0}
	data = append(data, leLength(5, 8)...)
	data = append(data, leLength(0xFFFFFFFFFFFFFFFF, 8)...) // unlimited sentinel, not permitted in v1
	_, err := parseDataspace(data, Widths{LengthSize: 8}, 0)
	require.Error(t, err)
}

func TestParseDataspaceV2AllowsUnlimitedMaxDims(t *testing.T) {
	data := []byte{2, 1, 0x01, byte(SpaceSimple)}
	data = append(data, leLength(5, 8)...)
	data = append(data, leLength(0xFFFFFFFFFFFFFFFF, 8)...)
	ds, err := parseDataspace(data, Widths{LengthSize: 8}, 0)
	require.NoError(t, err)
	require.Equal(t, []uint64{0xFFFFFFFFFFFFFFFF}, ds.MaxDims)
}
