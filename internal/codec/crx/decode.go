// Package crx decodes Canon's CRX wavelet raw codec: a three-level 5/3
// integer discrete wavelet transform over four sub-bands per level, with
// gradient-adaptive Rice coding of the wavelet coefficients and an
// inverse-quantization step for lossy streams. One step, chosen by the
// caller's q-base, scales every high-pass band of the plane; per-line
// q-base values are not read from the stream.
package crx

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/workpool"
	"github.com/rawdng/rawdng/rawerr"
)

const levels = 3

// qpTable maps a q-base to its dequantization step; index 0 is
// lossless (step 1).
var qpTable = [16]int32{1, 1, 2, 2, 3, 4, 5, 6, 8, 10, 13, 16, 20, 25, 32, 40}

func dequantStep(qbase int) int32 {
	if qbase < 0 {
		qbase = 0
	}
	if qbase >= len(qpTable) {
		qbase = len(qpTable) - 1
	}
	return qpTable[qbase]
}

func dequantize(coeffs []int32, step int32) {
	if step <= 1 {
		return
	}
	for i := range coeffs {
		coeffs[i] *= step
	}
}

// Decode reconstructs a width x height uint16 plane from a CRX entropy
// stream. qbase selects the lossy-mode dequantization step (0 for
// lossless); width and height must each be a multiple of 8 to host three
// wavelet levels.
func Decode(pool *workpool.Pool, src []byte, width, height, qbase int) ([]uint16, error) {
	if width <= 0 || height <= 0 || width%8 != 0 || height%8 != 0 {
		return nil, rawerr.New(rawerr.DecoderFailed, "crx: width and height must be multiples of 8")
	}

	var out []uint16
	var decodeErr error
	pool.Submit(func() error {
		out, decodeErr = decodeSync(src, width, height, qbase)
		return decodeErr
	})
	if err := pool.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeSync(src []byte, width, height, qbase int) ([]uint16, error) {
	pump := bytesio.NewMSBPump(src)
	step := dequantStep(qbase)

	bw, bh := width/8, height/8
	current := decodeBand(pump, bw, bh)
	curW, curH := bw, bh

	for lvl := 0; lvl < levels; lvl++ {
		hl := decodeBand(pump, curW, curH)
		lh := decodeBand(pump, curW, curH)
		hh := decodeBand(pump, curW, curH)
		dequantize(hl, step)
		dequantize(lh, step)
		dequantize(hh, step)
		current = inverse2D(current, hl, lh, hh, curW, curH)
		curW *= 2
		curH *= 2
	}

	out := make([]uint16, width*height)
	for i, v := range current {
		out[i] = clampOut(v)
	}
	return out, nil
}

func clampOut(v int32) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}
