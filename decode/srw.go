package decode

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/container/tiff"
)

// newSRWDecoder wraps the generic tiffDecoder; Samsung SRW's uncompressed
// bodies are plain big-endian packed samples, compressed bodies are
// LJPEG, both handled by decodePackedOrLJPEG with big-endian packing.
func newSRWDecoder(src bytesio.RawSource, reader *tiff.Reader, chain *tiff.Chain) *tiffDecoder {
	d := newTIFFDecoder(src, reader, chain, FormatSRW)
	d.unpack = func(srcInner bytesio.RawSource, p Params, dir *tiff.IFD, g geometry) ([]uint16, error) {
		strip, err := readStrips(srcInner, dir)
		if err != nil {
			return nil, err
		}
		opts := packedOptionsFromGeometry(g)
		opts.BigEndian = true
		return decodePackedOrLJPEG(p, strip, g, opts)
	}
	return d
}
