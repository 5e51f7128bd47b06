// Package arw decodes Sony's ARW1 and ARW2 raw sample formats, plus the
// SR2/ARW metadata obfuscation layers (the 128-word pad cipher and the
// tag-9xxx substitution cipher).
package arw

import "github.com/rawdng/rawdng/internal/bytesio"

// BuildCurve expands four control points into a table of max+1 entries
// suitable for bytesio.NewLookupTable. Control points of (0,0,0,0) are a
// degenerate tag value some bodies write when no tone curve was captured;
// that case falls back to the identity curve rather than collapsing every
// sample to zero.
func BuildCurve(cp [4]uint16, max uint16) []uint16 {
	table := make([]uint16, int(max)+1)
	if cp[0] == 0 && cp[1] == 0 && cp[2] == 0 && cp[3] == 0 {
		for i := range table {
			table[i] = uint16(i)
		}
		return table
	}

	knotX := [4]float64{0, float64(max) / 3, 2 * float64(max) / 3, float64(max)}
	for i := 0; i <= int(max); i++ {
		x := float64(i)
		seg := 2
		for s := 0; s < 3; s++ {
			if x <= knotX[s+1] {
				seg = s
				break
			}
		}
		x0, x1 := knotX[seg], knotX[seg+1]
		y0, y1 := float64(cp[seg]), float64(cp[seg+1])
		var t float64
		if x1 > x0 {
			t = (x - x0) / (x1 - x0)
		}
		y := y0 + t*(y1-y0)
		if y < 0 {
			y = 0
		}
		if y > float64(max) {
			y = float64(max)
		}
		table[i] = uint16(y + 0.5)
	}
	return table
}

// NewCurveTable builds the dithered lookup table ARW2 sample expansion
// uses, from the camera's four 10-bit control points.
func NewCurveTable(cp [4]uint16, max uint16) *bytesio.LookupTable {
	return bytesio.NewLookupTable(BuildCurve(cp, max))
}
