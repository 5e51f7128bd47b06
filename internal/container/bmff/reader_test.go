package bmff_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/container/bmff"
)

func appendBox(buf []byte, typ string, body []byte) []byte {
	size := make([]byte, 4)
	bytesio.BigEndian.PutUint32At(size, 0, uint32(8+len(body)))
	buf = append(buf, size...)
	buf = append(buf, []byte(typ)...)
	buf = append(buf, body...)
	return buf
}

func TestParseTopAndIsCR3(t *testing.T) {
	ftypBody := append([]byte("crx "), []byte{0, 0, 0, 0}...)
	ftypBody = append(ftypBody, []byte("crx ")...)

	var buf []byte
	buf = appendBox(buf, "ftyp", ftypBody)
	buf = appendBox(buf, "free", []byte{0x01, 0x02})

	boxes, err := bmff.ParseTop(buf)
	require.NoError(t, err)
	require.Len(t, boxes, 2)

	ftyp, ok := bmff.Find(boxes, "ftyp")
	require.True(t, ok)
	require.True(t, bmff.IsCR3(ftyp))
}

func TestParseTopNestedMoov(t *testing.T) {
	var trak []byte
	trak = appendBox(trak, "tkhd", []byte{0x00})

	var moov []byte
	moov = appendBox(moov, "trak", trak)

	var buf []byte
	buf = appendBox(buf, "moov", moov)

	boxes, err := bmff.ParseTop(buf)
	require.NoError(t, err)
	moovBox, ok := bmff.Find(boxes, "moov")
	require.True(t, ok)
	require.Len(t, moovBox.Children, 1)
	require.Equal(t, "trak", moovBox.Children[0].Type)
}

func TestParseTopRejectsTruncatedHeader(t *testing.T) {
	_, err := bmff.ParseTop([]byte{0x00, 0x00, 0x00})
	require.Error(t, err)
}

func TestParseSampleTableWithCo64AndStsz(t *testing.T) {
	var co64Body []byte
	co64Body = append(co64Body, make([]byte, 4)...) // version/flags
	count := make([]byte, 4)
	bytesio.BigEndian.PutUint32At(count, 0, 2)
	co64Body = append(co64Body, count...)
	off1 := make([]byte, 8)
	bytesio.BigEndian.PutUint32At(off1, 4, 100)
	off2 := make([]byte, 8)
	bytesio.BigEndian.PutUint32At(off2, 4, 5000)
	co64Body = append(co64Body, off1...)
	co64Body = append(co64Body, off2...)

	var stszBody []byte
	stszBody = append(stszBody, make([]byte, 8)...) // version/flags + uniform=0
	szCount := make([]byte, 4)
	bytesio.BigEndian.PutUint32At(szCount, 0, 2)
	stszBody = append(stszBody, szCount...)
	s1 := make([]byte, 4)
	bytesio.BigEndian.PutUint32At(s1, 0, 4900)
	s2 := make([]byte, 4)
	bytesio.BigEndian.PutUint32At(s2, 0, 8192)
	stszBody = append(stszBody, s1...)
	stszBody = append(stszBody, s2...)

	var stblBuf []byte
	stblBuf = appendBox(stblBuf, "co64", co64Body)
	stblBuf = appendBox(stblBuf, "stsz", stszBody)

	boxes, err := bmff.ParseTop(stblBuf)
	require.NoError(t, err)
	stbl := &bmff.Box{Children: boxes}

	st, err := bmff.ParseSampleTable(stbl)
	require.NoError(t, err)
	require.Equal(t, []int64{100, 5000}, st.Offsets)
	require.Equal(t, []int64{4900, 8192}, st.Sizes)
}
