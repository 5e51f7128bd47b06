package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/raw"
)

func resetCalibrationFlags(t *testing.T) {
	t.Helper()
	for _, key := range []string{"matrix1", "illuminant1", "matrix2", "illuminant2", "matrix3", "illuminant3"} {
		viper.Set(key, "")
	}
	t.Cleanup(func() {
		for _, key := range []string{"matrix1", "illuminant1", "matrix2", "illuminant2", "matrix3", "illuminant3"} {
			viper.Set(key, "")
		}
	})
}

func TestCalibrationFromFlagsNoneSet(t *testing.T) {
	resetCalibrationFlags(t)
	matrices, err := calibrationFromFlags()
	require.NoError(t, err)
	assert.Nil(t, matrices)
}

func TestCalibrationFromFlagsOneMatrix(t *testing.T) {
	resetCalibrationFlags(t)
	viper.Set("matrix1", "1,0,0,0,1,0,0,0,1")
	viper.Set("illuminant1", int(raw.IlluminantD65))

	matrices, err := calibrationFromFlags()
	require.NoError(t, err)
	require.Len(t, matrices, 1)
	assert.Equal(t, raw.IlluminantD65, matrices[0].Illuminant)
	assert.Equal(t, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, matrices[0].Flat)
	assert.Equal(t, 3, matrices[0].Columns)
}

func TestCalibrationFromFlagsRejectsWrongArity(t *testing.T) {
	resetCalibrationFlags(t)
	viper.Set("matrix1", "1,0,0")
	_, err := calibrationFromFlags()
	assert.Error(t, err)
}
