// Package kodak decodes Kodak's 65000 nibble-length segment codec and
// provides the DC120 sensor-row deshuffle used by Kodak's earliest
// compressed raw format.
package kodak

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/workpool"
	"github.com/rawdng/rawdng/rawerr"
)

const segmentPixels = 256

// Decode65000 decodes a Kodak 65000 plane. Each row is split into
// 256-pixel segments; a segment opens with one nibble-packed bit length per
// pixel, followed by an optional 16-bit priming word when the packed
// lengths don't land on a byte boundary (size mod 8 == 4), then the
// length-coded signed deltas themselves, accumulated left-to-right against
// a per-row predictor pair for even and odd columns.
func Decode65000(pool *workpool.Pool, src []byte, width, height int) ([]uint16, error) {
	if width <= 0 || height <= 0 {
		return nil, rawerr.New(rawerr.DecoderFailed, "kodak: invalid geometry")
	}
	out := make([]uint16, width*height)

	pool.Submit(func() error {
		cursor := 0
		for row := 0; row < height; row++ {
			var predEven, predOdd int32
			rowOut := out[row*width : (row+1)*width]
			for col := 0; col < width; {
				segLen := segmentPixels
				if width-col < segLen {
					segLen = width - col
				}
				next, err := decodeSegment(src, cursor, segLen, rowOut[col:col+segLen], &predEven, &predOdd)
				if err != nil {
					return err
				}
				cursor = next
				col += segLen
			}
		}
		return nil
	})
	if err := pool.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeSegment(src []byte, cursor, segLen int, dst []uint16, predEven, predOdd *int32) (int, error) {
	nibbleBytes := (segLen + 1) / 2
	if cursor+nibbleBytes > len(src) {
		return 0, rawerr.New(rawerr.DecoderFailed, "kodak: truncated segment header")
	}
	lengths := make([]int, segLen)
	sum := 0
	for i := 0; i < segLen; i++ {
		b := src[cursor+i/2]
		var l int
		if i%2 == 0 {
			l = int(b & 0x0F)
		} else {
			l = int(b >> 4)
		}
		lengths[i] = l
		sum += l
	}
	cursor += nibbleBytes

	if sum%8 == 4 {
		if cursor+2 > len(src) {
			return 0, rawerr.New(rawerr.DecoderFailed, "kodak: truncated priming word")
		}
		cursor += 2
	}

	byteLen := (sum + 7) / 8
	if cursor+byteLen > len(src) {
		byteLen = len(src) - cursor
	}
	if byteLen < 0 {
		return 0, rawerr.New(rawerr.DecoderFailed, "kodak: truncated entropy span")
	}
	pump := bytesio.NewMSBPump(src[cursor : cursor+byteLen])

	for i, l := range lengths {
		var diff int32
		if l > 0 {
			diff = pump.GetSigned(uint(l))
		}
		if i%2 == 0 {
			*predEven += diff
			dst[i] = clamp16(*predEven)
		} else {
			*predOdd += diff
			dst[i] = clamp16(*predOdd)
		}
	}
	return cursor + byteLen, nil
}

func clamp16(v int32) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}
