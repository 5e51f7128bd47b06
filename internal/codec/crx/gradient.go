package crx

import "github.com/rawdng/rawdng/internal/bytesio"

const gradContexts = 41

const minGradValue = 1

// gradientState adapts a Rice-like code length to local coefficient
// magnitude, per the two-int running state.
type gradientState struct {
	g0, g1 int32
}

func newGradientState() *gradientState {
	return &gradientState{g0: 1, g1: 1}
}

func (g *gradientState) update(code int32) {
	g.g0 += abs32(code)
	if g.g1 == minGradValue {
		g.g0 >>= 1
		g.g1 >>= 1
	}
	g.g1++
}

// band holds one gradient context per local-magnitude bucket, approximating
// the per-band adaptive context set.
type band struct {
	contexts [gradContexts]*gradientState
}

func newBand() *band {
	b := &band{}
	for i := range b.contexts {
		b.contexts[i] = newGradientState()
	}
	return b
}

func (b *band) contextFor(prevMag int32) *gradientState {
	idx := int(prevMag) % gradContexts
	if idx < 0 {
		idx = -idx
	}
	return b.contexts[idx]
}

func bitLength(v int32) int {
	n := 0
	for v > 0 {
		v >>= 1
		n++
	}
	return n
}

// readCode decodes one value: a unary leading-zero run gives the code's
// length, a bit-diff between the gradient's two running ints gives the
// count of extra raw bits, then the whole is zig-zag mapped back to a
// signed coefficient.
func readCode(pump *bytesio.MSBPump, g *gradientState) int32 {
	var length uint32
	for length < 32 && pump.Get(1) == 0 {
		length++
	}
	k := bitLength(g.g0) - bitLength(g.g1)
	if k < 0 {
		k = 0
	}
	var extra uint32
	if k > 0 {
		extra = pump.Get(uint(k))
	}
	mag := int32(length)<<uint(k) | int32(extra)

	var code int32
	if mag&1 != 0 {
		code = -(mag + 1) / 2
	} else {
		code = mag / 2
	}
	g.update(code)
	return code
}

func decodeBand(pump *bytesio.MSBPump, w, h int) []int32 {
	out := make([]int32, w*h)
	b := newBand()
	var prevMag int32
	for i := range out {
		ctx := b.contextFor(prevMag)
		code := readCode(pump, ctx)
		out[i] = code
		prevMag = abs32(code)
	}
	return out
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
