package decode

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/container/tiff"
	"github.com/rawdng/rawdng/raw"
	"github.com/rawdng/rawdng/rawerr"
)

// ariDecoder recognizes ARRI's ARI container ("ARRI" magic) but does not
// decode its uncompressed-but-proprietary frame header layout: ARI files
// are production cinema camera dumps outside the consumer/prosumer still
// formats this module's codec set targets.
type ariDecoder struct {
	src bytesio.RawSource
}

func newARIDecoder(src bytesio.RawSource) (*ariDecoder, error) {
	return &ariDecoder{src: src}, nil
}

func (d *ariDecoder) FormatHint() FormatHint { return FormatARI }

func (d *ariDecoder) IFD(uint16) (*tiff.IFD, error) {
	return nil, rawerr.New(rawerr.Unsupported, "ari: no TIFF directory available")
}

func (d *ariDecoder) RawMetadata(bytesio.RawSource, Params) (*raw.RawMetadata, error) {
	return &raw.RawMetadata{}, nil
}

func (d *ariDecoder) RawImage(bytesio.RawSource, Params, bool) (*raw.RawImage, error) {
	return nil, rawerr.New(rawerr.Unsupported, "ari: ARRI raw decode is not implemented")
}

func (d *ariDecoder) FullImage(bytesio.RawSource, Params) (*DynamicImage, error)      { return nil, nil }
func (d *ariDecoder) ThumbnailImage(bytesio.RawSource, Params) (*DynamicImage, error) { return nil, nil }
func (d *ariDecoder) XPacket(bytesio.RawSource, Params) ([]byte, error)               { return nil, nil }
