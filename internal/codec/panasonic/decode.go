// Package panasonic decodes the Panasonic/Leica RW2 v4 block-delta raw
// codec: 5-line horizontal blocks of 14-pixel units, each unit carrying a
// shift control every third pixel and either a delta code or a fresh
// sample.
package panasonic

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/workpool"
	"github.com/rawdng/rawdng/rawerr"
)

const (
	blockLines = 5
	unitPixels = 14
)

// Decode unpacks src into a row-major 12-bit uint16 plane of the given
// width and height.
func Decode(pool *workpool.Pool, src []byte, width, height int) ([]uint16, error) {
	if width <= 0 || height <= 0 {
		return nil, rawerr.New(rawerr.DecoderFailed, "panasonic: invalid geometry")
	}
	out := make([]uint16, width*height)

	err := workpool.Run(pool, (height+blockLines-1)/blockLines, 1, func(blockStart, blockEnd int) error {
		for block := blockStart; block < blockEnd; block++ {
			rowStart := block * blockLines
			rowEnd := rowStart + blockLines
			if rowEnd > height {
				rowEnd = height
			}
			if err := decodeBlock(src, width, out, rowStart, rowEnd); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

func decodeBlock(src []byte, width int, out []uint16, rowStart, rowEnd int) error {
	// Each line of the block has its own bit-packed byte span; spans sit
	// back-to-back in src at a fixed stride of 9 bits per pixel, rounded up
	// to whole bytes. A line whose codes run past its span reads zero bits.
	bytesPerLine := (width*9 + 7) / 8
	for row := rowStart; row < rowEnd; row++ {
		lo := row * bytesPerLine
		hi := lo + bytesPerLine
		if lo >= len(src) {
			return rawerr.New(rawerr.DecoderFailed, "panasonic: truncated stream")
		}
		if hi > len(src) {
			hi = len(src)
		}
		pump := bytesio.NewLSBPump(src[lo:hi])

		var predictor int32
		sh := uint(4)
		for col := 0; col < width; col++ {
			if col%unitPixels%3 == 0 {
				sh = uint(pump.Get(4))
			}
			code := pump.Get(8)
			var sample int32
			if code != 0 {
				sample = predictor + (int32(code)-0x80)<<sh
			} else {
				fresh := pump.Get(8)
				tail := pump.Get(4)
				sample = int32(fresh)<<4 | int32(tail)
			}
			if sample < 0 {
				sample = 0
			}
			if sample > 0xFFF {
				sample = 0xFFF
			}
			out[row*width+col] = uint16(sample)
			predictor = sample
		}
	}
	return nil
}
