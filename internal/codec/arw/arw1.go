package arw

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/workpool"
	"github.com/rawdng/rawdng/rawerr"
)

// DecodeARW1 decodes a Sony ARW1 plane: a column-major scan where every
// column carries its own adaptive bit length and two rows are interleaved
// per column step. The bit length is signaled per sample by a unary
// leading-zero run (capped at 10) that perturbs the previous length,
// clamped to [2,16].
func DecodeARW1(pool *workpool.Pool, src []byte, width, height int) ([]uint16, error) {
	if width <= 0 || height <= 0 {
		return nil, rawerr.New(rawerr.DecoderFailed, "arw1: invalid geometry")
	}
	out := make([]uint16, width*height)

	const maxRun = 10
	err := workpool.Run(pool, width, 8, func(colStart, colEnd int) error {
		for col := colStart; col < colEnd; col++ {
			// Seed each column's pump at an offset proportional to the
			// column index so columns can be decoded independently.
			pump := bytesio.NewMSBPump(src[col*len(src)/width:])
			bitlen := 12
			for row := 0; row < height; row += 2 {
				for sub := 0; sub < 2 && row+sub < height; sub++ {
					run := 0
					for run < maxRun && pump.Get(1) == 0 {
						run++
					}
					bitlen += run - maxRun/2
					if bitlen < 2 {
						bitlen = 2
					}
					if bitlen > 16 {
						bitlen = 16
					}
					v := pump.GetSigned(uint(bitlen))
					prev := int32(0)
					if row+sub >= 2 {
						prev = int32(out[(row+sub-2)*width+col])
					}
					sample := prev + v
					if sample < 0 {
						sample = 0
					}
					if sample > 0xFFFF {
						sample = 0xFFFF
					}
					out[(row+sub)*width+col] = uint16(sample)
				}
			}
		}
		return nil
	})
	return out, err
}
