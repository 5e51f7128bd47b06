// Package ljpeg implements the lossless-JPEG (ITU-T81 Annex H, SOF3) codec
// used both by several vendor raw containers (CR2, NEF, PEF tiles) and by
// the DNG writer's own tiled-LJPEG compression path.
package ljpeg

import "github.com/rawdng/rawdng/rawerr"

// huffTable is a canonical Huffman code table: bits[l] is the number of
// codes of length l (1..16), and vals holds the symbols in code order.
type huffTable struct {
	bits [17]int
	vals []byte

	// Decode side.
	mincode [17]int32
	maxcode [17]int32
	valptr  [17]int

	// Encode side, indexed by symbol value.
	code   map[byte]uint32
	length map[byte]int
}

func newHuffTable(bits [17]int, vals []byte) *huffTable {
	t := &huffTable{bits: bits, vals: vals}
	t.buildDecodeTables()
	t.buildEncodeTables()
	return t
}

func (t *huffTable) buildDecodeTables() {
	code := int32(0)
	k := 0
	for l := 1; l <= 16; l++ {
		if t.bits[l] == 0 {
			t.maxcode[l] = -1
			continue
		}
		t.valptr[l] = k
		t.mincode[l] = code
		code += int32(t.bits[l])
		k += t.bits[l]
		t.maxcode[l] = code - 1
		code <<= 1
	}
}

func (t *huffTable) buildEncodeTables() {
	t.code = make(map[byte]uint32, len(t.vals))
	t.length = make(map[byte]int, len(t.vals))
	code := uint32(0)
	k := 0
	for l := 1; l <= 16; l++ {
		for i := 0; i < t.bits[l]; i++ {
			sym := t.vals[k]
			t.code[sym] = code
			t.length[sym] = l
			code++
			k++
		}
		code <<= 1
	}
}

// decode reads one Huffman-coded symbol from p, one bit at a time.
func (t *huffTable) decode(p pump) (byte, error) {
	code := int32(0)
	for l := 1; l <= 16; l++ {
		code = (code << 1) | int32(p.Get(1))
		if t.maxcode[l] != -1 && code <= t.maxcode[l] {
			idx := t.valptr[l] + int(code-t.mincode[l])
			if idx < 0 || idx >= len(t.vals) {
				return 0, rawerr.New(rawerr.DecoderFailed, "ljpeg: invalid huffman code")
			}
			return t.vals[idx], nil
		}
	}
	return 0, rawerr.New(rawerr.DecoderFailed, "ljpeg: huffman code exceeds 16 bits")
}

// pump is the subset of bytesio.BitPump the Huffman decoder needs.
type pump interface {
	Get(n uint) uint32
}

// defaultCategoryTable is a fixed symbol-frequency histogram over the
// SSSS difference categories (0..16), biased toward the small categories
// that dominate real image data; it is not optimized per-image, matching
// the "fixed Huffman tables" note in the component design.
func defaultCategoryTable() *huffTable {
	// 17 possible symbols: category 0..16. Bit-length assignment below
	// gives short codes to the common small categories.
	bits := [17]int{}
	// lengths, indexed by category 0..16
	lengths := []int{2, 3, 3, 3, 3, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 13}
	vals := make([]byte, 0, 17)
	type symLen struct {
		sym byte
		l   int
	}
	syms := make([]symLen, 0, 17)
	for cat := 0; cat <= 16; cat++ {
		syms = append(syms, symLen{byte(cat), lengths[cat]})
		bits[lengths[cat]]++
	}
	// Order vals by length, then by symbol, matching canonical assignment.
	for l := 1; l <= 16; l++ {
		for _, s := range syms {
			if s.l == l {
				vals = append(vals, s.sym)
			}
		}
	}
	return newHuffTable(bits, vals)
}

func category(diff int32) int {
	if diff < 0 {
		diff = -diff
	}
	n := 0
	for diff > 0 {
		n++
		diff >>= 1
	}
	return n
}

// extend implements the JPEG DC-difference sign/magnitude decode: a
// category-s value v (the next s raw bits) represents a signed difference
// in [-(2^s-1), 2^s-1].
func extend(v uint32, s int) int32 {
	if s == 0 {
		return 0
	}
	vt := int32(1) << uint(s-1)
	iv := int32(v)
	if iv < vt {
		return iv - (int32(1)<<uint(s) - 1)
	}
	return iv
}

// encodeValue returns the raw bits JPEG writes after the category symbol
// for a signed difference diff of category s.
func encodeValue(diff int32, s int) uint32 {
	if diff < 0 {
		return uint32(diff + (1<<uint(s) - 1))
	}
	return uint32(diff)
}
