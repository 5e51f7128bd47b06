package kodak_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rawdng/rawdng/internal/codec/kodak"
)

// TestDeshuffleDC120RowAppliesRowShift pins the (mul, add) mod-4 rotation
// rule in isolation: a synthetic 848-byte row, unscrambled at a known row
// index, must match a directly computed shift.
func TestDeshuffleDC120RowAppliesRowShift(t *testing.T) {
	const rowWidth = 848
	pixel := make([]byte, rowWidth)
	for i := range pixel {
		pixel[i] = byte(i)
	}

	mul := [4]int{162, 192, 187, 186}
	add := [4]int{0, 636, 424, 212}

	for _, row := range []int{0, 1, 2, 3, 4, 487, 975} {
		out := kodak.DeshuffleDC120Row(pixel, row)
		require.Len(t, out, rowWidth)
		shift := row*mul[row&3] + add[row&3]
		for col := 0; col < rowWidth; col++ {
			require.Equal(t, pixel[(col+shift)%rowWidth], out[col], "row %d col %d", row, col)
		}
	}
}

func TestDeshuffleDC120RowIsPermutation(t *testing.T) {
	pixel := make([]byte, 16)
	for i := range pixel {
		pixel[i] = byte(i)
	}
	out := kodak.DeshuffleDC120Row(pixel, 2)
	seen := make(map[byte]bool)
	for _, v := range out {
		require.False(t, seen[v], "value %d repeated", v)
		seen[v] = true
	}
	require.Len(t, seen, len(pixel))
}
