package decode

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/codec/panasonic"
	"github.com/rawdng/rawdng/internal/container/tiff"
)

// panasonicV4Compression is Panasonic's private RW2 compression code for
// the nibble-shift v4 codec.
const panasonicV4Compression = 34826

// newRW2Decoder wraps the generic tiffDecoder with Panasonic's own 5-line
// block codec.
func newRW2Decoder(src bytesio.RawSource, reader *tiff.Reader, chain *tiff.Chain) *tiffDecoder {
	d := newTIFFDecoder(src, reader, chain, FormatRW2)
	d.unpack = func(src bytesio.RawSource, p Params, dir *tiff.IFD, g geometry) ([]uint16, error) {
		strip, err := readStrips(src, dir)
		if err != nil {
			return nil, err
		}
		if g.Compression != panasonicV4Compression {
			return decodePackedOrLJPEG(p, strip, g, packedOptionsFromGeometry(g))
		}
		return panasonic.Decode(p.Pool, strip, g.Width, g.Height)
	}
	return d
}
