package decode

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/container/bmff"
	"github.com/rawdng/rawdng/internal/container/tiff"
	"github.com/rawdng/rawdng/raw"
	"github.com/rawdng/rawdng/rawerr"
)

// cr3Decoder recognizes Canon's CR3 ISO-BMFF wrapper and can locate its
// JPEG preview track, but does not decode the CRX wavelet-coded raw track
// end to end: internal/codec/crx implements the wavelet/Rice codec core
// directly (and is unit-tested there), while wiring it to CR3's per-tile
// framing and per-image quantization parameters living in the CTBO/CMP1
// boxes is out of scope for this container-only stub.
type cr3Decoder struct {
	src   bytesio.RawSource
	boxes []*bmff.Box
}

func newCR3Decoder(src bytesio.RawSource, boxes []*bmff.Box) (*cr3Decoder, error) {
	return &cr3Decoder{src: src, boxes: boxes}, nil
}

func (d *cr3Decoder) FormatHint() FormatHint { return FormatCR3 }

func (d *cr3Decoder) IFD(uint16) (*tiff.IFD, error) {
	return nil, rawerr.New(rawerr.Unsupported, "cr3: TIFF directory access not implemented")
}

func (d *cr3Decoder) RawMetadata(bytesio.RawSource, Params) (*raw.RawMetadata, error) {
	return &raw.RawMetadata{}, nil
}

func (d *cr3Decoder) RawImage(bytesio.RawSource, Params, bool) (*raw.RawImage, error) {
	return nil, rawerr.New(rawerr.Unsupported, "cr3: CRX raw decode is not implemented")
}

func (d *cr3Decoder) FullImage(bytesio.RawSource, Params) (*DynamicImage, error) {
	return d.previewJPEG()
}

func (d *cr3Decoder) ThumbnailImage(bytesio.RawSource, Params) (*DynamicImage, error) {
	return d.previewJPEG()
}

func (d *cr3Decoder) XPacket(bytesio.RawSource, Params) ([]byte, error) { return nil, nil }

// previewJPEG walks moov/trak/mdia/minf/stbl for the first track whose
// sample table resolves to a JPEG (SOI-prefixed) sample in mdat.
func (d *cr3Decoder) previewJPEG() (*DynamicImage, error) {
	moov, ok := bmff.Find(d.boxes, "moov")
	if !ok {
		return nil, nil
	}
	for _, trak := range bmff.FindAll(moov.Children, "trak") {
		mdia, ok := bmff.Find(trak.Children, "mdia")
		if !ok {
			continue
		}
		minf, ok := bmff.Find(mdia.Children, "minf")
		if !ok {
			continue
		}
		stbl, ok := bmff.Find(minf.Children, "stbl")
		if !ok {
			continue
		}
		st, err := bmff.ParseSampleTable(stbl)
		if err != nil || len(st.Offsets) == 0 {
			continue
		}
		buf, err := d.src.Slice(int(st.Offsets[0]), int(st.Sizes[0]))
		if err != nil || len(buf) < 2 || buf[0] != 0xFF || buf[1] != 0xD8 {
			continue
		}
		w, h := jpegDimensions(buf)
		return &DynamicImage{Width: w, Height: h, JPEG: buf}, nil
	}
	return nil, nil
}
