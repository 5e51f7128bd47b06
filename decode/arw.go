package decode

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/codec/arw"
	"github.com/rawdng/rawdng/internal/codec/packed"
	"github.com/rawdng/rawdng/internal/container/tiff"
)

// sonyCompressed is Sony's private ARW compression code, shared by both
// the 8-bit ARW1 scheme (older bodies) and the 12-bit-packed-into-16-bit
// ARW2 scheme (distinguished by BitsPerSample).
const sonyCompressed = 32767

// newARWDecoder wraps the generic tiffDecoder, selecting ARW1 vs. ARW2
// decode by the directory's BitsPerSample tag.
func newARWDecoder(src bytesio.RawSource, reader *tiff.Reader, chain *tiff.Chain) *tiffDecoder {
	d := newTIFFDecoder(src, reader, chain, FormatARW)
	d.unpack = func(src bytesio.RawSource, p Params, dir *tiff.IFD, g geometry) ([]uint16, error) {
		strip, err := readStrips(src, dir)
		if err != nil {
			return nil, err
		}
		if g.Compression != sonyCompressed {
			return packed.Decode(p.Pool, strip, packed.Options{Width: g.Width, Height: g.Height, BitWidth: g.BitsPerSample})
		}
		if g.BitsPerSample == 8 {
			return arw.DecodeARW1(p.Pool, strip, g.Width, g.Height)
		}
		// ARW2's curve control points live in a maker-private tag most
		// bodies omit from the sub-IFD this reader reaches; a zeroed tuple
		// degrades gracefully to the identity curve (see arw.BuildCurve).
		curve := arw.NewCurveTable([4]uint16{0, 0, 0, 0}, 0x3FFF)
		return arw.DecodeARW2(p.Pool, strip, g.Width, g.Height, curve)
	}
	return d
}
