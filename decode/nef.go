package decode

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/codec/ljpeg"
	"github.com/rawdng/rawdng/internal/codec/packed"
	"github.com/rawdng/rawdng/internal/container/tiff"
)

// nikonCompressedLJPEG is Nikon's private NEF compression code; its
// lossless-compressed bodies use an LJPEG-compatible entropy stream, so
// the generic LJPEG decoder handles it without further translation.
const nikonCompressedLJPEG = 34713

// newNEFDecoder wraps the generic tiffDecoder with Nikon's private
// compression code and its 12/14-bit packed fallback for uncompressed
// bodies.
func newNEFDecoder(src bytesio.RawSource, reader *tiff.Reader, chain *tiff.Chain) *tiffDecoder {
	d := newTIFFDecoder(src, reader, chain, FormatNEF)
	d.unpack = func(src bytesio.RawSource, p Params, dir *tiff.IFD, g geometry) ([]uint16, error) {
		strip, err := readStrips(src, dir)
		if err != nil {
			return nil, err
		}
		if g.Compression == nikonCompressedLJPEG {
			_, samples, err := ljpeg.Decode(p.Pool, strip)
			return samples, err
		}
		return packed.Decode(p.Pool, strip, packed.Options{
			Width: g.Width, Height: g.Height, BitWidth: g.BitsPerSample, BigEndian: true,
		})
	}
	return d
}
