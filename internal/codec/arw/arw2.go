package arw

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/workpool"
	"github.com/rawdng/rawdng/rawerr"
)

// DecodeARW2 decodes a Sony ARW2 plane. Samples are packed in 32-pixel
// groups, each holding two 16-sample sub-groups; each sub-group carries an
// 11-bit max, 11-bit min, a 4-bit delta shift and 4-bit indices of the max
// and min samples within the sub-group, followed by 7-bit deltas for the
// remaining 14 samples. Reconstructed samples pass through curve with
// per-row LCG dithering.
func DecodeARW2(pool *workpool.Pool, src []byte, width, height int, curve *bytesio.LookupTable) ([]uint16, error) {
	if width%32 != 0 {
		return nil, rawerr.New(rawerr.DecoderFailed, "arw2: width must be a multiple of 32")
	}
	rowStride := width / 32 * 33 // two 132-bit sub-groups = 33 bytes per 32-pixel group
	out := make([]uint16, width*height)

	return out, workpool.Run(pool, height, 8, func(start, end int) error {
		for row := start; row < end; row++ {
			lo := row * rowStride
			hi := lo + rowStride
			if hi > len(src) {
				hi = len(src)
			}
			if lo >= len(src) {
				return rawerr.New(rawerr.DecoderFailed, "arw2: truncated stream")
			}
			pump := bytesio.NewLSBPump(src[lo:hi])
			rng := uint32(row*2654435761 + 1)

			for col := 0; col < width; col += 32 {
				for sub := 0; sub < 2; sub++ {
					max := pump.Get(11)
					min := pump.Get(11)
					shift := pump.Get(4)
					imax := pump.Get(4)
					imin := pump.Get(4)

					for i := 0; i < 16; i++ {
						var v uint16
						switch uint32(i) {
						case imax:
							v = uint16(max)
						case imin:
							v = uint16(min)
						default:
							delta := pump.Get(7)
							val := min + (delta << shift)
							if val > max {
								val = max
							}
							if val > 4095 {
								val = 4095
							}
							v = uint16(val)
						}
						if curve != nil {
							v = curve.Dither(v, &rng)
						}
						out[row*width+col+sub*16+i] = v
					}
				}
			}
		}
		return nil
	})
}
