package decode

import (
	"github.com/rawdng/rawdng/camera"
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/container/tiff"
)

// newORFDecoder wraps the generic tiffDecoder with Olympus's MSB32-word
// 12-bit packing, selected via the registry's msb32 hint.
func newORFDecoder(src bytesio.RawSource, reader *tiff.Reader, chain *tiff.Chain) *tiffDecoder {
	d := newTIFFDecoder(src, reader, chain, FormatORF)
	d.unpack = genericHintedUnpack(d)
	return d
}

// genericHintedUnpack builds an unpack hook reading camera.HintMSB32 off
// the resolved camera row, shared by the vendors
// (ORF, PEF, SRW) whose only deviation from the generic packed path is a
// bit-packing detail the registry already records as a hint.
func genericHintedUnpack(d *tiffDecoder) func(bytesio.RawSource, Params, *tiff.IFD, geometry) ([]uint16, error) {
	return func(src bytesio.RawSource, p Params, dir *tiff.IFD, g geometry) ([]uint16, error) {
		strip, err := readStrips(src, dir)
		if err != nil {
			return nil, err
		}
		opts := packedOptionsFromGeometry(g)
		if d.cam != nil && d.cam.FindHint(camera.HintMSB32) {
			opts.MSB32 = true
		}
		return decodePackedOrLJPEG(p, strip, g, opts)
	}
}
