package object

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marrow-data/hdf5decode/internal/message"
	"github.com/marrow-data/hdf5decode/reader"
)

var scalarDataspaceBytes = []byte{1, 0, 0, 0, 0, 0, 0, 0} // v1, rank 0, no flags, 4 reserved

func dataspaceRecordV1() []byte {
	rec := []byte{1, 0, 8, 0, 0, 0, 0, 0} // type=1(dataspace) size=8 flags=0 reserved(3)
	rec = append(rec, scalarDataspaceBytes...)
	return rec
}

func buildV1ObjectHeader() []byte {
	rec := dataspaceRecordV1() // already 16 bytes, 8-aligned
	buf := []byte{1, 0} // version=1, reserved
	buf = append(buf, 0, 0)             // num messages (dummy)
	buf = append(buf, 0, 0, 0, 0)       // ref count
	buf = append(buf, byte(len(rec)), 0, 0, 0) // header size
	buf = append(buf, make([]byte, 4)...)      // padding to align(8): 12 -> 16
	buf = append(buf, rec...)
	return buf
}

func TestReadObjectHeaderV1(t *testing.T) {
	buf := buildV1ObjectHeader()
	r := reader.NewBuffered(buf)
	r.Initialize(8, 8)

	hdr, err := Read(r, 0, message.Widths{OffsetSize: 8, LengthSize: 8})
	require.NoError(t, err)
	require.Equal(t, uint8(1), hdr.Version)
	require.NotNil(t, hdr.Dataspace())
	require.Equal(t, message.SpaceScalar, hdr.Dataspace().SpaceType)
}

func dataspaceRecordV2() []byte {
	rec := []byte{1, 8, 0, 0} // msgType=1(dataspace, non-0xFF form) size16=8 flags=0
	rec = append(rec, scalarDataspaceBytes...)
	return rec
}

func buildV2ObjectHeader() []byte {
	msg := dataspaceRecordV2() // 12 bytes
	chunk0Size := byte(len(msg) + 4)
	header := []byte{'O', 'H', 'D', 'R', 2, 0} // signature, version=2, flags=0
	header = append(header, chunk0Size)
	chunkBytes := append(append([]byte{}, header...), msg...)
	checksum := lookup3Checksum(chunkBytes)
	buf := append([]byte{}, chunkBytes...)
	buf = append(buf, byte(checksum), byte(checksum>>8), byte(checksum>>16), byte(checksum>>24))
	return buf
}

func TestReadObjectHeaderV2(t *testing.T) {
	buf := buildV2ObjectHeader()
	r := reader.NewBuffered(buf)
	r.Initialize(8, 8)

	hdr, err := Read(r, 0, message.Widths{OffsetSize: 8, LengthSize: 8})
	require.NoError(t, err)
	require.Equal(t, uint8(2), hdr.Version)
	require.NotNil(t, hdr.Dataspace())
}

func TestReadObjectHeaderV2ChecksumMismatchFails(t *testing.T) {
	buf := buildV2ObjectHeader()
	buf[len(buf)-1] ^= 0xFF // corrupt the stored checksum
	r := reader.NewBuffered(buf)
	r.Initialize(8, 8)

	_, err := Read(r, 0, message.Widths{OffsetSize: 8, LengthSize: 8})
	require.Error(t, err)
}

func TestReadObjectHeaderBadMagicFails(t *testing.T) {
	buf := make([]byte, 32)
	buf[0] = 9 // neither "OHDR" nor version-1 byte
	r := reader.NewBuffered(buf)
	r.Initialize(8, 8)

	_, err := Read(r, 0, message.Widths{OffsetSize: 8, LengthSize: 8})
	require.Error(t, err)
}

func dataspacePlaceholderRecordV1() []byte {
	rec := []byte{1, 0, 4, 0, 1, 0, 0, 0} // type=1(dataspace) size=4 flags=1(placeholder)
	rec = append(rec, 0, 0, 0, 0)         // 4 placeholder bytes
	rec = append(rec, 0, 0, 0, 0)         // pad record to an 8-byte boundary (12 -> 16)
	return rec
}

func TestReadObjectHeaderV1SkipsDataspacePlaceholder(t *testing.T) {
	rec := dataspacePlaceholderRecordV1() // 16 bytes, 8-aligned
	buf := []byte{1, 0, 0, 0, 0, 0, 0, 0, byte(len(rec)), 0, 0, 0}
	buf = append(buf, make([]byte, 4)...)
	buf = append(buf, rec...)
	r := reader.NewBuffered(buf)
	r.Initialize(8, 8)

	hdr, err := Read(r, 0, message.Widths{OffsetSize: 8, LengthSize: 8})
	require.NoError(t, err)
	require.Nil(t, hdr.Dataspace())
	require.Empty(t, hdr.Messages)
}

func TestReadObjectHeaderRejectsUnknownMessageType(t *testing.T) {
	// unrecognized type 0xFFFE, size=4, padded to an 8-byte boundary.
	rec := []byte{0xFE, 0xFF, 4, 0, 0, 0, 0, 0, 1, 2, 3, 4, 0, 0, 0, 0}
	buf := []byte{1, 0, 0, 0, 0, 0, 0, 0, byte(len(rec)), 0, 0, 0}
	buf = append(buf, make([]byte, 4)...)
	buf = append(buf, rec...)
	r := reader.NewBuffered(buf)
	r.Initialize(8, 8)

	_, err := Read(r, 0, message.Widths{OffsetSize: 8, LengthSize: 8})
	require.Error(t, err)
}
