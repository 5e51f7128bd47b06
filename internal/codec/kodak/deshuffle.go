package kodak

// DC120 sensor rows are stored scrambled by a fixed per-row rotation: row r
// reads (col + r*mul[r&3] + add[r&3]) mod rowWidth for each output column.
var dc120Mul = [4]int{162, 192, 187, 186}
var dc120Add = [4]int{0, 636, 424, 212}

// DeshuffleDC120Row unscrambles one captured row of rowWidth bytes for
// sensor row index row, returning a row of the same length in true
// column order.
func DeshuffleDC120Row(pixel []byte, row int) []byte {
	rowWidth := len(pixel)
	shift := row*dc120Mul[row&3] + dc120Add[row&3]
	out := make([]byte, rowWidth)
	for col := 0; col < rowWidth; col++ {
		out[col] = pixel[(col+shift)%rowWidth]
	}
	return out
}
