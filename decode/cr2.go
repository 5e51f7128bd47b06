package decode

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/codec/ljpeg"
	"github.com/rawdng/rawdng/internal/container/tiff"
)

// newCR2Decoder wraps the generic tiffDecoder, forcing the LJPEG codec
// since every Canon CR2 raw strip is LJPEG-compressed regardless of what
// its Compression tag claims on older bodies.
func newCR2Decoder(src bytesio.RawSource, reader *tiff.Reader, chain *tiff.Chain) *tiffDecoder {
	d := newTIFFDecoder(src, reader, chain, FormatCR2)
	d.unpack = func(src bytesio.RawSource, p Params, dir *tiff.IFD, g geometry) ([]uint16, error) {
		strip, err := readStrips(src, dir)
		if err != nil {
			return nil, err
		}
		_, samples, err := ljpeg.Decode(p.Pool, strip)
		return samples, err
	}
	return d
}
