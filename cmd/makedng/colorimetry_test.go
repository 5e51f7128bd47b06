package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeutralFromChromaticityDegenerateWhenNoMatrix(t *testing.T) {
	wb := neutralFromChromaticity(0.3127, 0.3290, nil)
	assert.Equal(t, [4]float64{1, 1, 1, 1}, wb)
}

func TestNeutralFromChromaticityZeroY(t *testing.T) {
	wb := neutralFromChromaticity(0.3, 0, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	assert.Equal(t, [4]float64{1, 1, 1, 1}, wb)
}

func TestNeutralFromChromaticityIdentityMatrix(t *testing.T) {
	// D65-ish white point through the identity matrix: camera[] == xyz[],
	// so wb[i] == 1/xyz[i] for each channel, with the blue slot duplicated
	// into the fourth element.
	x, y := 0.3127, 0.3290
	wb := neutralFromChromaticity(x, y, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})

	xyzX := x / y
	xyzZ := (1 - x - y) / y
	assert.InDelta(t, 1/xyzX, wb[0], 1e-9)
	assert.InDelta(t, 1, wb[1], 1e-9)
	assert.InDelta(t, 1/xyzZ, wb[2], 1e-9)
	assert.Equal(t, wb[2], wb[3])
}
