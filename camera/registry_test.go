package camera_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/camera"
)

func TestDefaultRegistryLookup(t *testing.T) {
	reg, err := camera.Default()
	require.NoError(t, err)

	c, err := reg.Lookup("Canon", "Canon EOS 5D Mark IV", "")
	require.NoError(t, err)
	assert.Equal(t, "Canon", c.CleanMake)
	assert.Equal(t, "RGGB", c.CFAPattern)
	assert.True(t, c.WhiteLevels[0] > 0)
}

func TestRegistryLookupUnsupported(t *testing.T) {
	reg, err := camera.Default()
	require.NoError(t, err)

	_, err = reg.Lookup("Nonexistent", "Camera 9000", "")
	assert.True(t, camera.IsUnsupported(err))
}

func TestRegistryBySize(t *testing.T) {
	reg, err := camera.Default()
	require.NoError(t, err)

	cams := reg.BySize(3947520)
	require.Len(t, cams, 1)
	assert.Equal(t, "CHDK", cams[0].Make)
}

func TestHintLookup(t *testing.T) {
	reg, err := camera.Default()
	require.NoError(t, err)

	c, err := reg.Lookup("NIKON CORPORATION", "NIKON D850", "")
	require.NoError(t, err)
	assert.True(t, c.FindHint(camera.HintMSB32))
	assert.False(t, c.FindHint(camera.HintFujiRotation))
}
