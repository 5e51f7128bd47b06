package decode_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rawdng/rawdng/decode"
	"github.com/rawdng/rawdng/internal/bytesio"
	bytesio_test "github.com/rawdng/rawdng/internal/bytesio/mocks"
	"github.com/rawdng/rawdng/rawerr"
)

func TestDispatchWrapsHeaderReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := bytesio_test.NewMockRawSource(ctrl)
	src.EXPECT().Slice(0, 16).Return(nil, errors.New("short read"))

	_, err := decode.Dispatch(src, nil)
	require.Error(t, err)
	require.True(t, rawerr.Is(err, rawerr.IO))
}

func TestDispatchUnsupportedWhenNoMagicMatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := bytesio_test.NewMockRawSource(ctrl)
	src.EXPECT().Slice(0, 16).Return(make([]byte, 16), nil)
	src.EXPECT().Len().Return(0).AnyTimes()

	_, err := decode.Dispatch(src, nil)
	require.Error(t, err)
	require.True(t, rawerr.Is(err, rawerr.Unsupported))
}

// minimalDNGBytes reproduces dngwriter's own minimal-file output (see
// dngwriter/writer_test.go's TestMinimalDNG): a root IFD carrying
// DNGVersion/DNGBackwardVersion plus an always-present Exif sub-IFD, with
// no raw plane. Dispatch should still recognize it as DNG from the
// DNGVersion tag alone.
var minimalDNGBytes = []byte{
	0x49, 0x49, 0x2A, 0x00, 0x24, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x00, 0x90, 0x07, 0x00, 0x04, 0x00, 0x00, 0x00, 0x30, 0x32, 0x32,
	0x30, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x54, 0x65, 0x73, 0x74, 0x00, 0x00, 0x00, 0x00, 0x04, 0x00, 0x3B, 0x01, 0x02, 0x00, 0x05, 0x00, 0x00,
	0x00, 0x1C, 0x00, 0x00, 0x00, 0x69, 0x87, 0x04, 0x00, 0x01, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x12, 0xC6, 0x01, 0x00, 0x04, 0x00, 0x00,
	0x00, 0x01, 0x06, 0x00, 0x00, 0x13, 0xC6, 0x01, 0x00, 0x04, 0x00, 0x00, 0x00, 0x01, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

func TestDispatchRecognizesDNGFromDNGVersionTag(t *testing.T) {
	src := bytesio.NewMemSource(minimalDNGBytes)

	dec, err := decode.Dispatch(src, nil)
	require.NoError(t, err)
	require.Equal(t, decode.FormatDNG, dec.FormatHint())
}
