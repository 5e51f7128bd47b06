package fuji_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/internal/codec/fuji"
	"github.com/rawdng/rawdng/internal/workpool"
)

func TestDecodeProducesFullPlane(t *testing.T) {
	pool := workpool.New(2)
	src := make([]byte, 4096)
	for i := range src {
		src[i] = byte(i * 17)
	}
	out, err := fuji.Decode(pool, src, 32, 8, 4)
	require.NoError(t, err)
	require.Len(t, out, 32*8)
}

func TestDecodeRejectsInvalidGeometry(t *testing.T) {
	pool := workpool.New(1)
	_, err := fuji.Decode(pool, []byte{0x00}, 0, 1, 4)
	require.Error(t, err)
}

func TestDecodeRejectsTruncatedStream(t *testing.T) {
	pool := workpool.New(1)
	_, err := fuji.Decode(pool, []byte{0x00}, 64, 64, 4)
	require.Error(t, err)
}
