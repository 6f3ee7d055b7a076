package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseContinuation(t *testing.T) {
	w := Widths{OffsetSize: 8, LengthSize: 8}
	data := append(leLength(0x100, 8), leLength(0x40, 8)...)
	c, err := parseContinuation(data, w)
	require.NoError(t, err)
	require.Equal(t, uint64(0x100), c.Offset)
	require.Equal(t, uint64(0x40), c.Length)
}

func TestParseContinuationTruncatedFails(t *testing.T) {
	_, err := parseContinuation([]byte{1, 2, 3}, Widths{OffsetSize: 8, LengthSize: 8})
	require.Error(t, err)
}

func TestParseSymbolTable(t *testing.T) {
	w := Widths{OffsetSize: 8, LengthSize: 8}
	data := append(leLength(0x200, 8), leLength(0x300, 8)...)
	st, err := parseSymbolTable(data, w)
	require.NoError(t, err)
	require.Equal(t, uint64(0x200), st.BTreeAddress)
	require.Equal(t, uint64(0x300), st.LocalHeapAddress)
}

func TestParseSymbolTableTruncatedFails(t *testing.T) {
	_, err := parseSymbolTable([]byte{1, 2}, Widths{OffsetSize: 8, LengthSize: 8})
	require.Error(t, err)
}
