package arw_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rawdng/rawdng/internal/codec/arw"
)

func TestIdentityCurve(t *testing.T) {
	table := arw.BuildCurve([4]uint16{0, 0, 0, 0}, 4095)
	assert.Len(t, table, 4096)
	for i, v := range table {
		assert.EqualValuesf(t, i, v, "entry %d", i)
	}
}

func TestNonDegenerateCurveIsMonotoneAndBounded(t *testing.T) {
	table := arw.BuildCurve([4]uint16{0, 800, 2400, 4095}, 4095)
	assert.Len(t, table, 4096)
	for i := 1; i < len(table); i++ {
		assert.GreaterOrEqual(t, int(table[i]), int(table[i-1]))
	}
	assert.LessOrEqual(t, int(table[len(table)-1]), 4095)
}
