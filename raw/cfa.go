package raw

import "fmt"

// cfaSize is the side length of the expanded CFA lookup plane:
// large enough to hold the biggest repeating pattern (X-Trans, 6x6) with
// room to spare, and to make color_at periodic at 48 in both axes.
const cfaSize = 48

// CFA is a color filter array pattern: a name ("RGGB", "GRBG", the 6x6
// X-Trans layout, ...) expanded into a 48x48 lookup plane so color_at and
// shift don't need to special-case pattern size at every call site.
type CFA struct {
	name    string
	pattern [cfaSize][cfaSize]int
}

// Filter color indices, in the conventional Red, Green, Blue, Emerald
// ordering (Emerald only appears on Sony's four-color RGBE sensors).
const (
	ColorRed = iota
	ColorGreen
	ColorBlue
	ColorEmerald
)

// NewCFA expands patname (a 4, 36 or 144-character string over R/G/B/E, or
// the empty string for a non-CFA sensor) into a full 48x48 plane.
func NewCFA(patname string) (*CFA, error) {
	var size int
	switch len(patname) {
	case 0:
		size = 0
	case 4:
		size = 2
	case 36:
		size = 6
	case 144:
		size = 12
	default:
		return nil, fmt.Errorf("raw: CFA pattern of unexpected length %d", len(patname))
	}

	c := &CFA{name: patname}
	if size == 0 {
		return c, nil
	}

	for i, ch := range []byte(patname) {
		color, err := cfaColor(ch)
		if err != nil {
			return nil, err
		}
		c.pattern[i/size][i%size] = color
	}
	for row := 0; row < cfaSize; row++ {
		for col := 0; col < cfaSize; col++ {
			c.pattern[row][col] = c.pattern[row%size][col%size]
		}
	}
	return c, nil
}

func cfaColor(b byte) (int, error) {
	switch b {
	case 'R':
		return ColorRed, nil
	case 'G':
		return ColorGreen, nil
	case 'B':
		return ColorBlue, nil
	case 'E':
		return ColorEmerald, nil
	default:
		return 0, fmt.Errorf("raw: unknown CFA color %q", b)
	}
}

// Name returns the pattern's display name.
func (c *CFA) Name() string { return c.name }

// ColorAt returns the filter color at (row, col), wrapping modulo the
// expanded plane size so negative or out-of-range coordinates are valid.
func (c *CFA) ColorAt(row, col int) int {
	r := ((row % cfaSize) + cfaSize) % cfaSize
	cc := ((col % cfaSize) + cfaSize) % cfaSize
	return c.pattern[r][cc]
}

// Shift produces a new CFA whose color at (row, col) equals the original's
// at (row+y, col+x); used when a crop does not land on a pattern boundary.
func (c *CFA) Shift(x, y int) *CFA {
	shifted := &CFA{name: fmt.Sprintf("shifted-%d-%d-%s", x, y, c.name)}
	for row := 0; row < cfaSize; row++ {
		for col := 0; col < cfaSize; col++ {
			shifted.pattern[row][col] = c.ColorAt(row+y, col+x)
		}
	}
	return shifted
}
