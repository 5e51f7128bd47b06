// Package fuji decodes Fuji's adaptive Rice-like gradient codec used by RAF
// files: rows are walked in sixteen-pixel tiles, and even and odd columns
// each keep their own predictor and gradient, adapting their own Rice
// parameter against a quantization table derived from a header q-base.
// Each predictor is a running sum of the decoded deltas; no nine-tap or
// four-tap neighbourhood predictor is applied, and one quantization table
// serves the whole plane rather than one per tile.
package fuji

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/workpool"
	"github.com/rawdng/rawdng/rawerr"
)

const tileWidth = 16

// gradient tracks one column parity's running magnitude average, the
// context used to pick this sample's Rice parameter.
type gradient struct {
	sum   int32
	count int32
}

func (g *gradient) riceK(q quantTable) uint {
	var avg int32
	if g.count > 0 {
		avg = g.sum / g.count
	}
	k := uint(0)
	for k < uint(len(q.thresholds)) && avg > q.thresholds[k] {
		k++
	}
	return k
}

func (g *gradient) observe(mag int32) {
	g.sum += mag
	g.count++
	if g.count >= 32 {
		g.sum >>= 1
		g.count >>= 1
	}
}

// quantTable holds the gradient thresholds that select a line's effective
// Rice-parameter bucket, built from the header-derived q-base.
type quantTable struct {
	thresholds []int32
}

func buildQuantTable(qbase int) quantTable {
	base := int32(qbase)
	if base <= 0 {
		base = 1
	}
	thresholds := make([]int32, 8)
	for i := range thresholds {
		thresholds[i] = base * int32(i+1)
	}
	return quantTable{thresholds: thresholds}
}

// Decode unpacks src into a row-major uint16 plane with separate even and
// odd column predictors. qbase seeds the quantization table shared by the
// whole plane (typically taken from the RAF block header).
func Decode(pool *workpool.Pool, src []byte, width, height, qbase int) ([]uint16, error) {
	if width <= 0 || height <= 0 {
		return nil, rawerr.New(rawerr.DecoderFailed, "fuji: invalid geometry")
	}
	out := make([]uint16, width*height)
	quant := buildQuantTable(qbase)

	err := workpool.Run(pool, height, 4, func(start, end int) error {
		for row := start; row < end; row++ {
			if err := decodeRow(src, row, width, out, quant); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

func decodeRow(src []byte, row, width int, out []uint16, quant quantTable) error {
	rowStride := (width*3 + 3) / 4
	lo := row * rowStride
	if lo >= len(src) {
		return rawerr.New(rawerr.DecoderFailed, "fuji: truncated stream")
	}
	hi := lo + rowStride
	if hi > len(src) {
		hi = len(src)
	}
	pump := bytesio.NewMSBPump(src[lo:hi])

	var evenGrad, oddGrad gradient
	var predEven, predOdd int32

	for col := 0; col < width; col += tileWidth {
		tileEnd := col + tileWidth
		if tileEnd > width {
			tileEnd = width
		}
		for c := col; c < tileEnd; c++ {
			g, pred := &evenGrad, &predEven
			if c%2 != 0 {
				g, pred = &oddGrad, &predOdd
			}
			k := g.riceK(quant)
			diff := readRice(pump, k)
			g.observe(abs32(diff))
			*pred += diff
			out[row*width+c] = clampOut(*pred)
		}
	}
	return nil
}

// readRice decodes one unary-quotient, k-bit-remainder Golomb-Rice code
// and maps it back to a signed value via zig-zag.
func readRice(pump *bytesio.MSBPump, k uint) int32 {
	var q uint32
	for q < 32 && pump.Get(1) == 0 {
		q++
	}
	r := pump.Get(k)
	mag := int32(q<<k | r)
	if mag&1 != 0 {
		return -(mag + 1) / 2
	}
	return mag / 2
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
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
