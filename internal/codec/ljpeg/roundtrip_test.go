package ljpeg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/internal/codec/ljpeg"
	"github.com/rawdng/rawdng/internal/workpool"
)

func TestRoundTrip256(t *testing.T) {
	const size = 256
	plane := make([]uint16, size*size)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			plane[r*size+c] = uint16((r*257 + c*131) & 0xFFF)
		}
	}

	encoded, err := ljpeg.Encode(plane, size, size, 1, 12, 1)
	require.NoError(t, err)

	pool := workpool.New(2)
	frame, decoded, err := ljpeg.Decode(pool, encoded)
	require.NoError(t, err)
	assert.Equal(t, size, frame.Width)
	assert.Equal(t, size, frame.Height)
	assert.Equal(t, 12, frame.Precision)
	assert.Equal(t, 1, frame.Predictor)
	assert.Equal(t, plane, decoded)
}

func TestRoundTripSmallPredictor4(t *testing.T) {
	const w, h = 8, 8
	plane := make([]uint16, w*h)
	for i := range plane {
		plane[i] = uint16((i*37 + 5) & 0x3FF)
	}

	encoded, err := ljpeg.Encode(plane, w, h, 1, 10, 4)
	require.NoError(t, err)

	pool := workpool.New(1)
	_, decoded, err := ljpeg.Decode(pool, encoded)
	require.NoError(t, err)
	assert.Equal(t, plane, decoded)
}
