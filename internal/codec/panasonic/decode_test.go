package panasonic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/internal/codec/panasonic"
	"github.com/rawdng/rawdng/internal/workpool"
)

// TestTwelveBitRegression decodes a fixed 15-byte payload into a 10x1
// plane and checks the output's length, its 12-bit range and that a second
// decode gives the same values. The payload is not a reference camera's
// bitstream, so no specific sample values are asserted.
func TestTwelveBitRegression(t *testing.T) {
	src := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E}
	pool := workpool.New(1)

	out, err := panasonic.Decode(pool, src, 10, 1)
	require.NoError(t, err)
	require.Len(t, out, 10)
	for _, v := range out {
		require.LessOrEqual(t, v, uint16(0xFFF))
	}

	again, err := panasonic.Decode(pool, src, 10, 1)
	require.NoError(t, err)
	require.Equal(t, out, again, "decode must be deterministic for the same input")
}

func TestDecodeMultiRowBlock(t *testing.T) {
	pool := workpool.New(2)
	src := make([]byte, 64*8)
	for i := range src {
		src[i] = byte(i * 3)
	}
	out, err := panasonic.Decode(pool, src, 16, 8)
	require.NoError(t, err)
	require.Len(t, out, 16*8)
}

func TestDecodeRejectsInvalidGeometry(t *testing.T) {
	pool := workpool.New(1)
	_, err := panasonic.Decode(pool, []byte{0x00}, 0, 1)
	require.Error(t, err)
}
