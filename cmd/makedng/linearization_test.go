package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLinearizationTableEmptyOrIdentity(t *testing.T) {
	table, err := buildLinearizationTable("", 12)
	require.NoError(t, err)
	assert.Nil(t, table)

	table, err = buildLinearizationTable("identity", 12)
	require.NoError(t, err)
	assert.Nil(t, table)
}

func TestBuildLinearizationTableLiteral(t *testing.T) {
	table, err := buildLinearizationTable("0, 10, 20, 30", 12)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 10, 20, 30}, table)
}

func TestBuildLinearizationTableLiteralRejectsGarbage(t *testing.T) {
	_, err := buildLinearizationTable("0,nope,30", 12)
	assert.Error(t, err)
}

func TestBuildLinearizationTableSRGB(t *testing.T) {
	table, err := buildLinearizationTable("srgb", 8)
	require.NoError(t, err)
	require.Len(t, table, 256)
	assert.Equal(t, uint16(0), table[0])
	assert.Equal(t, uint16(255), table[255])
	// The sRGB OETF is monotonically increasing across the whole range.
	for i := 1; i < len(table); i++ {
		assert.GreaterOrEqual(t, table[i], table[i-1])
	}
}

func TestBuildLinearizationTableGamma(t *testing.T) {
	table, err := buildLinearizationTable("gamma2.2", 8)
	require.NoError(t, err)
	require.Len(t, table, 256)
	assert.Equal(t, uint16(0), table[0])
	assert.Equal(t, uint16(255), table[255])
}

func TestBuildLinearizationTableUnknownCurve(t *testing.T) {
	_, err := buildLinearizationTable("whatever", 8)
	assert.Error(t, err)

	_, err = buildLinearizationTable("gammaNaN", 8)
	assert.Error(t, err)
}
