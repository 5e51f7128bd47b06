package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/dngwriter"
)

func TestParseInputsDefaultsToRawUsage(t *testing.T) {
	inputs, err := parseInputs([]string{"/tmp/a.cr2", "/tmp/b.jpg:preview"})
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, taggedInput{path: "/tmp/a.cr2", usage: "raw"}, inputs[0])
	assert.Equal(t, taggedInput{path: "/tmp/b.jpg", usage: "preview"}, inputs[1])
}

func TestParseInputsRejectsUnknownUsage(t *testing.T) {
	_, err := parseInputs([]string{"/tmp/a.jpg:banner"})
	assert.Error(t, err)
}

func TestBackwardVersionKnown(t *testing.T) {
	v, err := backwardVersion("1.4")
	require.NoError(t, err)
	assert.Equal(t, dngwriter.Version1_4, v)
}

func TestBackwardVersionUnknown(t *testing.T) {
	_, err := backwardVersion("2.0")
	assert.Error(t, err)
}

func TestApplyStringOverridePrecedence(t *testing.T) {
	var got string
	set := func(s string) { got = s }

	applyString(set, "", "", false)
	assert.Equal(t, "", got)

	applyString(set, "DecodedModel", "", false)
	assert.Equal(t, "DecodedModel", got)

	got = ""
	applyString(set, "", "FlagModel", false)
	assert.Equal(t, "FlagModel", got)

	got = ""
	applyString(set, "DecodedModel", "FlagModel", false)
	assert.Equal(t, "DecodedModel", got)

	got = ""
	applyString(set, "DecodedModel", "FlagModel", true)
	assert.Equal(t, "FlagModel", got)

	got = ""
	applyString(set, "DecodedModel", "", true)
	assert.Equal(t, "DecodedModel", got)
}

func TestParseFloats(t *testing.T) {
	vals, err := parseFloats("1.0, 0.5,0.25", 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0, 0.5, 0.25}, vals)

	_, err = parseFloats("1.0,0.5", 3)
	assert.Error(t, err)

	_, err = parseFloats("1.0,nope,0.25", 3)
	assert.Error(t, err)
}
