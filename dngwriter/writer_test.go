package dngwriter_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/dngwriter"
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/container/tiff"
	"github.com/rawdng/rawdng/raw"
)

// TestMinimalDNG reproduces the canonical minimal-file byte sequence: a
// writer targeting DNG backward-version 1.4 with only an Artist tag set
// still emits a DNGVersion/DNGBackwardVersion pair and an (otherwise
// empty) Exif IFD, since those are always present regardless of what the
// caller adds.
func TestMinimalDNG(t *testing.T) {
	var buf bytes.Buffer
	w := dngwriter.NewWriter(dngwriter.Version1_4, nil)
	w.SetArtist("Test")
	require.NoError(t, w.Close(&buf))

	want := []byte{
		0x49, 0x49, 0x2A, 0x00, 0x24, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x90, 0x07, 0x00, 0x04, 0x00, 0x00, 0x00, 0x30, 0x32, 0x32,
		0x30, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x54, 0x65, 0x73, 0x74, 0x00, 0x00, 0x00, 0x00, 0x04, 0x00, 0x3B, 0x01, 0x02, 0x00, 0x05, 0x00, 0x00,
		0x00, 0x1C, 0x00, 0x00, 0x00, 0x69, 0x87, 0x04, 0x00, 0x01, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x12, 0xC6, 0x01, 0x00, 0x04, 0x00, 0x00,
		0x00, 0x01, 0x06, 0x00, 0x00, 0x13, 0xC6, 0x01, 0x00, 0x04, 0x00, 0x00, 0x00, 0x01, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	require.Equal(t, want, buf.Bytes())
}

// TestRoundTripUncompressedRawImage writes an uncompressed raw SubIFD and
// re-parses it with the same reader the decode front-end uses, checking
// that ImageWidth, BitsPerSample and the strip bytes survive exactly.
func TestRoundTripUncompressedRawImage(t *testing.T) {
	samples := make(raw.PlaneU16, 4*3)
	for i := range samples {
		samples[i] = uint16(i * 100)
	}
	img := &raw.RawImage{
		Width: 4, Height: 3, CPP: 1, BitDepth: 12,
		Data:        samples,
		WhiteLevel:  [4]uint16{4095, 4095, 4095, 4095},
		ActiveArea:  raw.Rect{Top: 0, Left: 0, Bottom: 3, Right: 4},
		BlackLevel:  raw.BlackLevel{},
	}

	var buf bytes.Buffer
	w := dngwriter.NewWriter(dngwriter.Version1_4, nil)
	require.NoError(t, w.AddRawImage(img, false, 0))
	require.NoError(t, w.Close(&buf))

	src := bytesio.NewMemSource(buf.Bytes())
	reader, first, err := tiff.NewReader(src, 0, tiff.TagSubIFDs)
	require.NoError(t, err)
	chain, err := reader.ReadChain(first)
	require.NoError(t, err)
	require.Len(t, chain.IFDs, 1)

	root := chain.IFDs[0]
	subEntry, ok := root.Get(tiff.TagSubIFDs)
	require.True(t, ok)
	rawOff := subEntry.First()

	rawDir, err := reader.ReadIFD(rawOff)
	require.NoError(t, err)

	width, ok := rawDir.Get(tiff.TagImageWidth)
	require.True(t, ok)
	require.EqualValues(t, 4, width.First())

	bps, ok := rawDir.Get(tiff.TagBitsPerSample)
	require.True(t, ok)
	require.EqualValues(t, 12, bps.First())

	stripOff, ok := rawDir.Get(tiff.TagStripOffsets)
	require.True(t, ok)
	stripLen, ok := rawDir.Get(tiff.TagStripByteCounts)
	require.True(t, ok)

	stripBytes, err := src.Slice(int(stripOff.First()), int(stripLen.First()))
	require.NoError(t, err)
	require.Len(t, stripBytes, len(samples)*2)
	for i, v := range samples {
		require.Equal(t, v, bytesio.LittleEndian.Uint16At(stripBytes, i*2))
	}
}
