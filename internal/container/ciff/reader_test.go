package ciff_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/container/ciff"
)

// buildHeap assembles a minimal CIFF heap: inline-value entries followed
// by the directory count and the value-data-size footer.
func buildHeap(entries [][2]uint16, values [][]byte) []byte {
	var data []byte
	type rec struct {
		tag    uint16
		size   uint32
		offset uint32
	}
	var recs []rec
	for i, v := range values {
		recs = append(recs, rec{tag: entries[i][0], size: uint32(len(v)), offset: uint32(len(data))})
		data = append(data, v...)
	}

	dataSize := uint32(len(data))
	buf := append([]byte(nil), data...)

	count := uint16(len(recs))
	countBuf := make([]byte, 2)
	bytesio.LittleEndian.PutUint16At(countBuf, 0, count)
	buf = append(buf, countBuf...)

	for _, r := range recs {
		rb := make([]byte, 10)
		bytesio.LittleEndian.PutUint16At(rb, 0, r.tag)
		bytesio.LittleEndian.PutUint32At(rb, 2, r.size)
		bytesio.LittleEndian.PutUint32At(rb, 6, r.offset)
		buf = append(buf, rb...)
	}

	footer := make([]byte, 4)
	bytesio.LittleEndian.PutUint32At(footer, 0, dataSize)
	buf = append(buf, footer...)
	return buf
}

func TestReadHeapParsesEntries(t *testing.T) {
	heap := buildHeap([][2]uint16{{0x0810, 0}, {0x0815, 0}}, [][]byte{
		[]byte("Canon"),
		[]byte{0x01, 0x02, 0x03, 0x04},
	})

	r := ciff.NewReader(heap)
	dir, err := r.ReadHeap(0, len(heap))
	require.NoError(t, err)
	require.Len(t, dir.Entries, 2)

	e, ok := dir.Get(0x0810)
	require.True(t, ok)
	require.Equal(t, "Canon", string(e.Bytes()))
}

func TestReadHeapRejectsOutOfRangeBounds(t *testing.T) {
	r := ciff.NewReader(make([]byte, 4))
	_, err := r.ReadHeap(0, 100)
	require.Error(t, err)
}

func TestReadHeapRejectsTruncatedFooter(t *testing.T) {
	r := ciff.NewReader(make([]byte, 3))
	_, err := r.ReadHeap(0, 3)
	require.Error(t, err)
}
