package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLinkHard(t *testing.T) {
	w := Widths{OffsetSize: 8, LengthSize: 8}
	// version(1) flags(1): nameLenSize=1<<0=1, link-type-present bit0x08 set
	data := []byte{1, 0x08}
	data = append(data, byte(LinkTypeHard))
	data = append(data, 5)                   // name length = 5
	data = append(data, []byte("hello")...)   // name
	data = append(data, leLength(0x4000, 8)...) // object address
	link, err := parseLink(data, w)
	require.NoError(t, err)
	require.True(t, link.IsHard())
	require.Equal(t, "hello", link.Name)
	require.Equal(t, uint64(0x4000), link.ObjectAddress)
}

func TestParseLinkSoftHasNoAddress(t *testing.T) {
	w := Widths{OffsetSize: 8, LengthSize: 8}
	data := []byte{1, 0x08}
	data = append(data, byte(LinkTypeSoft))
	data = append(data, 4)
	data = append(data, []byte("link")...)
	link, err := parseLink(data, w)
	require.NoError(t, err)
	require.False(t, link.IsHard())
	require.Equal(t, uint64(0), link.ObjectAddress)
}

func TestParseLinkDefaultTypeIsHardWithoutFlag(t *testing.T) {
	w := Widths{OffsetSize: 8, LengthSize: 8}
	data := []byte{1, 0x00} // no link-type flag -> defaults to LinkTypeHard(0)
	data = append(data, 3)
	data = append(data, []byte("abc")...)
	data = append(data, leLength(0x99, 8)...)
	link, err := parseLink(data, w)
	require.NoError(t, err)
	require.True(t, link.IsHard())
	require.Equal(t, "abc", link.Name)
}

func TestParseLinkTruncatedFails(t *testing.T) {
	w := Widths{OffsetSize: 8, LengthSize: 8}
	_, err := parseLink([]byte{1}, w)
	require.Error(t, err)
}
