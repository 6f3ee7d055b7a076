package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDataspacePlaceholderReturnsNilMessage(t *testing.T) {
	msg, err := Parse(TypeDataspace, []byte{0, 0, 0, 0}, Widths{LengthSize: 8}, 1)
	require.NoError(t, err)
	require.Nil(t, msg)
}

func TestParseDataspaceNonPlaceholderReturnsMessage(t *testing.T) {
	msg, err := Parse(TypeDataspace, scalarDataspaceBytes(), Widths{LengthSize: 8}, 0)
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.Equal(t, TypeDataspace, msg.Type())
}

func TestParseUnrecognizedMessageTypeFails(t *testing.T) {
	_, err := Parse(Type(0xFFFE), []byte{1, 2, 3, 4}, Widths{LengthSize: 8}, 0)
	require.Error(t, err)
}

func scalarDataspaceBytes() []byte {
	return []byte{1, 0, 0, 0, 0, 0, 0, 0} // version 1, rank 0, no flags, 4 reserved
}
