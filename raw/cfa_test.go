package raw_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/raw"
)

func TestCFAShift(t *testing.T) {
	cfa, err := raw.NewCFA("RGGB")
	require.NoError(t, err)

	assert.Equal(t, raw.ColorRed, cfa.ColorAt(0, 0))
	assert.Equal(t, raw.ColorBlue, cfa.ColorAt(1, 1))

	shifted := cfa.Shift(1, 1)
	assert.Equal(t, raw.ColorBlue, shifted.ColorAt(0, 0))
	assert.Equal(t, raw.ColorRed, shifted.ColorAt(1, 1))
}

func TestCFAShiftIdentity(t *testing.T) {
	for _, pattern := range []string{"RGGB", "GRBG", "BGGR", "GBRG"} {
		cfa, err := raw.NewCFA(pattern)
		require.NoError(t, err)

		identity := cfa.Shift(2, 2)
		for r := 0; r < 4; r++ {
			for c := 0; c < 4; c++ {
				assert.Equal(t, cfa.ColorAt(r, c), identity.ColorAt(r, c))
			}
		}
	}
}

func TestCFAPeriodicity(t *testing.T) {
	cfa, err := raw.NewCFA("RGGB")
	require.NoError(t, err)

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			assert.Equal(t, cfa.ColorAt(r, c), cfa.ColorAt(r+48, c+48))
		}
	}
}
