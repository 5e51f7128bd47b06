package packed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/internal/codec/packed"
	"github.com/rawdng/rawdng/internal/workpool"
)

func TestDecodeRightAligned16Bit(t *testing.T) {
	pool := workpool.New(2)
	src := []byte{0x34, 0x12, 0x78, 0x56} // little-endian 0x1234, 0x5678
	out, err := packed.Decode(pool, src, packed.Options{
		Width: 2, Height: 1, BitWidth: 16,
	})
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x1234, 0x5678}, out)
}

func TestDecode8Bit(t *testing.T) {
	pool := workpool.New(2)
	src := []byte{1, 2, 3, 4, 5, 6}
	out, err := packed.Decode(pool, src, packed.Options{
		Width: 3, Height: 2, BitWidth: 8,
	})
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 2, 3, 4, 5, 6}, out)
}

func TestDecodeTruncatedStreamFails(t *testing.T) {
	pool := workpool.New(2)
	src := []byte{0x00}
	_, err := packed.Decode(pool, src, packed.Options{
		Width: 4, Height: 4, BitWidth: 16,
	})
	assert.Error(t, err)
}

func TestDecodeControlBytesGroup(t *testing.T) {
	pool := workpool.New(1)
	// One group: 2 discarded control bytes + 10 samples at 12 bits each
	// (15 bytes), all zero -> 10 zero samples.
	src := make([]byte, 2+15)
	out, err := packed.Decode(pool, src, packed.Options{
		Width: 10, Height: 1, BitWidth: 12, ControlBytes: true,
	})
	require.NoError(t, err)
	assert.Len(t, out, 10)
	for _, v := range out {
		assert.EqualValues(t, 0, v)
	}
}
