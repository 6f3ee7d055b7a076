package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fixedPointDatatypeBytes(size uint32, signed, littleEndian bool) []byte {
	var flags byte
	if !littleEndian {
		flags |= 0x01
	}
	if signed {
		flags |= 0x08
	}
	data := make([]byte, 12)
	data[0] = (1 << 4) | byte(ClassFixedPoint) // version 1
	data[1] = flags
	le32(data[4:8], size)
	// bit-offset(2) + bit-precision(2), values unused by this decoder
	le32(data[8:12], uint32(size)*8)
	return data
}

func le32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func TestParseDatatypeFixedPointUint32(t *testing.T) {
	dt, consumed, err := parseDatatypeWithSize(fixedPointDatatypeBytes(4, false, true))
	require.NoError(t, err)
	require.Equal(t, KindUint32, dt.Kind)
	require.True(t, dt.LittleEndian)
	require.False(t, dt.Signed)
	require.Equal(t, 12, consumed)
}

func TestParseDatatypeFixedPointInt8BigEndian(t *testing.T) {
	dt, _, err := parseDatatypeWithSize(fixedPointDatatypeBytes(1, true, false))
	require.NoError(t, err)
	require.Equal(t, KindInt8, dt.Kind)
	require.False(t, dt.LittleEndian)
	require.True(t, dt.Signed)
}

func floatDatatypeBytes(size uint32, classBits uint32) []byte {
	data := make([]byte, 20)
	data[0] = (1 << 4) | byte(ClassFloatPoint)
	data[1] = byte(classBits)
	data[2] = byte(classBits >> 8)
	data[3] = byte(classBits >> 16)
	le32(data[4:8], size)
	return data
}

func TestParseDatatypeFloat16(t *testing.T) {
	dt, _, err := parseDatatypeWithSize(floatDatatypeBytes(2, 0x0F20))
	require.NoError(t, err)
	require.Equal(t, KindFloat16, dt.Kind)
}

func TestParseDatatypeFloat32(t *testing.T) {
	dt, _, err := parseDatatypeWithSize(floatDatatypeBytes(4, 0x1F20))
	require.NoError(t, err)
	require.Equal(t, KindFloat32, dt.Kind)
}

func TestParseDatatypeFloat64(t *testing.T) {
	dt, _, err := parseDatatypeWithSize(floatDatatypeBytes(8, 0x3F20))
	require.NoError(t, err)
	require.Equal(t, KindFloat64, dt.Kind)
}

func TestParseDatatypeFloatUnrecognizedBitPatternFails(t *testing.T) {
	_, _, err := parseDatatypeWithSize(floatDatatypeBytes(4, 0x1234))
	require.Error(t, err)
}

func TestParseDatatypeStringEncoding(t *testing.T) {
	data := make([]byte, 12)
	data[0] = (1 << 4) | byte(ClassString)
	data[2] = 0x01 // (classBits>>8)&0x0F == 1 -> UTF-8
	le32(data[4:8], 10)
	dt, consumed, err := parseDatatypeWithSize(data)
	require.NoError(t, err)
	require.Equal(t, KindString, dt.Kind)
	require.Equal(t, EncodingUTF8, dt.StringEncoding)
	require.Equal(t, 8, consumed)
}

func TestParseDatatypeUnsupportedVersionFails(t *testing.T) {
	data := make([]byte, 12)
	data[0] = (4 << 4) | byte(ClassFixedPoint) // version 4 unsupported
	_, _, err := parseDatatypeWithSize(data)
	require.Error(t, err)
}

func TestParseDatatypeVersion3Fails(t *testing.T) {
	data := make([]byte, 12)
	data[0] = (3 << 4) | byte(ClassFixedPoint) // version 3 unsupported
	le32(data[4:8], 4)
	_, _, err := parseDatatypeWithSize(data)
	require.Error(t, err)
}

func TestIsBooleanEnumRecognized(t *testing.T) {
	base := &Datatype{Kind: KindInt8}
	members := []EnumMember{{Name: "FALSE", Value: 0}, {Name: "TRUE", Value: 1}}
	require.True(t, isBooleanEnum(members, base))
}

func TestIsBooleanEnumRejectsOtherNames(t *testing.T) {
	base := &Datatype{Kind: KindInt8}
	members := []EnumMember{{Name: "RED", Value: 0}, {Name: "BLUE", Value: 1}}
	require.False(t, isBooleanEnum(members, base))
}
