package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFilterPipelineDeflateOnly(t *testing.T) {
	// header: version(1) count(1) reserved(6)
	data := []byte{1, 1, 0, 0, 0, 0, 0, 0}
	// one filter: id(2)=1(deflate) nameLen(2)=0 flags(2)=0 numCD(2)=1, clientData(4)*1 + pad(4)
	data = append(data, byte(FilterDeflate), 0, 0, 0, 0, 0, 1, 0)
	data = append(data, 5, 0, 0, 0) // client data[0] = 5
	data = append(data, 0, 0, 0, 0) // padding since numCD is odd

	fp, err := parseFilterPipeline(data)
	require.NoError(t, err)
	require.Len(t, fp.Filters, 1)
	require.Equal(t, FilterDeflate, fp.Filters[0].ID)
	require.Equal(t, []uint32{5}, fp.Filters[0].ClientData)
}

func TestParseFilterPipelineOptionalFlag(t *testing.T) {
	data := []byte{1, 1, 0, 0, 0, 0, 0, 0}
	data = append(data, 0xFF, 0x7F, 0, 0, 1, 0, 0, 0) // id=32767, flags=1 (optional), numCD=0
	fp, err := parseFilterPipeline(data)
	require.NoError(t, err)
	require.True(t, fp.Filters[0].Optional())
}

func TestParseFilterPipelineUnsupportedVersionFails(t *testing.T) {
	_, err := parseFilterPipeline([]byte{9, 0})
	require.Error(t, err)
}
