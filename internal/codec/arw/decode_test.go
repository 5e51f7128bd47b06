package arw_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/internal/codec/arw"
	"github.com/rawdng/rawdng/internal/workpool"
)

func TestDecodeARW1ProducesFullPlane(t *testing.T) {
	pool := workpool.New(2)
	src := make([]byte, 4096)
	for i := range src {
		src[i] = byte(i * 13)
	}
	out, err := arw.DecodeARW1(pool, src, 8, 8)
	require.NoError(t, err)
	require.Len(t, out, 64)
}

func TestDecodeARW2ProducesFullPlane(t *testing.T) {
	pool := workpool.New(2)
	src := make([]byte, 4096)
	for i := range src {
		src[i] = byte(i * 7)
	}
	curve := arw.NewCurveTable([4]uint16{0, 0, 0, 0}, 4095)
	out, err := arw.DecodeARW2(pool, src, 32, 4, curve)
	require.NoError(t, err)
	require.Len(t, out, 32*4)
}
