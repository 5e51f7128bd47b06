package crx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/internal/codec/crx"
	"github.com/rawdng/rawdng/internal/workpool"
)

func TestDecodeProducesFullPlane(t *testing.T) {
	pool := workpool.New(2)
	src := make([]byte, 8192)
	for i := range src {
		src[i] = byte(i * 29)
	}
	out, err := crx.Decode(pool, src, 32, 16, 0)
	require.NoError(t, err)
	require.Len(t, out, 32*16)
}

func TestDecodeLossyAppliesDequant(t *testing.T) {
	pool := workpool.New(2)
	src := make([]byte, 8192)
	for i := range src {
		src[i] = byte(i * 5)
	}
	out, err := crx.Decode(pool, src, 32, 16, 8)
	require.NoError(t, err)
	require.Len(t, out, 32*16)
}

func TestDecodeRejectsNonMultipleOfEight(t *testing.T) {
	pool := workpool.New(1)
	_, err := crx.Decode(pool, make([]byte, 64), 10, 10, 0)
	require.Error(t, err)
}
