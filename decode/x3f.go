package decode

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/container/tiff"
	"github.com/rawdng/rawdng/raw"
	"github.com/rawdng/rawdng/rawerr"
)

// x3fDecoder recognizes Sigma's Foveon X3F container ("FOVb" magic) but
// does not decode its proprietary three-layer sensor format: X3F's
// directory and Huffman-coded plane layout has no analogue in this
// module's codec set, and a Foveon sensor's three full-resolution color
// planes don't fit the single-CPP-mosaic RawImage shape the rest of this
// package assumes.
type x3fDecoder struct {
	src bytesio.RawSource
}

func newX3FDecoder(src bytesio.RawSource) (*x3fDecoder, error) {
	return &x3fDecoder{src: src}, nil
}

func (d *x3fDecoder) FormatHint() FormatHint { return FormatX3F }

func (d *x3fDecoder) IFD(uint16) (*tiff.IFD, error) {
	return nil, rawerr.New(rawerr.Unsupported, "x3f: no TIFF directory available")
}

func (d *x3fDecoder) RawMetadata(bytesio.RawSource, Params) (*raw.RawMetadata, error) {
	return &raw.RawMetadata{}, nil
}

func (d *x3fDecoder) RawImage(bytesio.RawSource, Params, bool) (*raw.RawImage, error) {
	return nil, rawerr.New(rawerr.Unsupported, "x3f: Foveon sensor decode is not implemented")
}

func (d *x3fDecoder) FullImage(bytesio.RawSource, Params) (*DynamicImage, error)      { return nil, nil }
func (d *x3fDecoder) ThumbnailImage(bytesio.RawSource, Params) (*DynamicImage, error) { return nil, nil }
func (d *x3fDecoder) XPacket(bytesio.RawSource, Params) ([]byte, error)               { return nil, nil }
