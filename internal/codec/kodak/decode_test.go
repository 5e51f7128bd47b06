package kodak_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/internal/codec/kodak"
	"github.com/rawdng/rawdng/internal/workpool"
)

func TestDecode65000ProducesFullPlane(t *testing.T) {
	pool := workpool.New(2)
	src := make([]byte, 4096)
	for i := range src {
		src[i] = byte(i * 11)
	}
	out, err := kodak.Decode65000(pool, src, 300, 2)
	require.NoError(t, err)
	require.Len(t, out, 600)
}

func TestDecode65000RejectsInvalidGeometry(t *testing.T) {
	pool := workpool.New(1)
	_, err := kodak.Decode65000(pool, []byte{0x00}, 0, 1)
	require.Error(t, err)
}

func TestDecode65000RejectsTruncatedHeader(t *testing.T) {
	pool := workpool.New(1)
	_, err := kodak.Decode65000(pool, make([]byte, 4), 256, 1)
	require.Error(t, err)
}
