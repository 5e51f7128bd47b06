package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// buildLinearizationTable turns the --linearization flag into a
// LinearizationTable: either a named curve evaluated across the image's
// native bit depth, or a literal comma-separated table taken verbatim. An
// empty spec (no flag given) returns a nil table, leaving the tag unset.
func buildLinearizationTable(spec string, bitDepth int) ([]uint16, error) {
	if spec == "" || spec == "identity" {
		return nil, nil
	}
	if bitDepth <= 0 || bitDepth > 16 {
		bitDepth = 16
	}
	maxVal := (1 << uint(bitDepth)) - 1

	if strings.Contains(spec, ",") {
		parts := strings.Split(spec, ",")
		table := make([]uint16, len(parts))
		for i, p := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 16)
			if err != nil {
				return nil, fmt.Errorf("makedng: invalid --linearization entry %q: %w", p, err)
			}
			table[i] = uint16(v)
		}
		return table, nil
	}

	switch {
	case spec == "srgb":
		return curveTable(maxVal, srgbOETF), nil
	case strings.HasPrefix(spec, "gamma"):
		gammaStr := strings.TrimPrefix(spec, "gamma")
		gamma, err := strconv.ParseFloat(gammaStr, 64)
		if err != nil || gamma <= 0 {
			return nil, fmt.Errorf("makedng: invalid --linearization curve %q", spec)
		}
		return curveTable(maxVal, func(x float64) float64 { return math.Pow(x, 1/gamma) }), nil
	default:
		return nil, fmt.Errorf("makedng: unknown --linearization curve %q", spec)
	}
}

// curveTable samples f, a normalized-domain [0,1] -> [0,1] response curve,
// at every input code value up to maxVal.
func curveTable(maxVal int, f func(float64) float64) []uint16 {
	table := make([]uint16, maxVal+1)
	for i := 0; i <= maxVal; i++ {
		x := float64(i) / float64(maxVal)
		y := f(x)
		if y < 0 {
			y = 0
		}
		if y > 1 {
			y = 1
		}
		table[i] = uint16(math.Round(y * float64(maxVal)))
	}
	return table
}

// srgbOETF is the standard sRGB opto-electronic transfer function.
func srgbOETF(x float64) float64 {
	if x <= 0.0031308 {
		return 12.92 * x
	}
	return 1.055*math.Pow(x, 1/2.4) - 0.055
}
