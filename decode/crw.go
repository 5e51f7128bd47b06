package decode

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/codec/ljpeg"
	"github.com/rawdng/rawdng/internal/container/ciff"
	"github.com/rawdng/rawdng/internal/container/tiff"
	"github.com/rawdng/rawdng/raw"
	"github.com/rawdng/rawdng/rawerr"
)

// Canon CIFF tags consulted directly; CIFF tag values are Canon's own
// numberspace and share nothing with the TIFF Tag* constants.
const (
	ciffTagImageInfo    uint16 = 0x1810
	ciffTagRawData      uint16 = 0x2005
	ciffTagExifInfo     uint16 = 0x300a
	ciffTagCameraObject uint16 = 0x2807
)

// crwDecoder decodes Canon's legacy CRW container: a CIFF heap tree whose
// root carries an ImageInfo record (width/height) and a RawData entry
// holding a raw LJPEG stream, Canon's format before it moved to
// TIFF-rooted CR2.
type crwDecoder struct {
	root *ciff.Dir
}

func newCRWDecoder(src bytesio.RawSource) (*crwDecoder, error) {
	buf, err := src.ReadAll()
	if err != nil {
		return nil, rawerr.Wrap(rawerr.IO, err, "crw: failed to read file")
	}
	if len(buf) < 26 {
		return nil, rawerr.New(rawerr.DecoderFailed, "crw: truncated header")
	}
	// Header layout: 2-byte byte-order mark, then a 4-byte little-endian
	// header length, then the "HEAPCCDR" type/sub-type (verified by the
	// dispatcher before this constructor runs).
	headerLen := int(bytesio.LittleEndian.Uint32At(buf, 2))
	r := ciff.NewReader(buf)
	root, err := r.ReadHeap(headerLen, len(buf)-headerLen)
	if err != nil {
		return nil, err
	}
	return &crwDecoder{root: root}, nil
}

func (d *crwDecoder) FormatHint() FormatHint { return FormatCRW }

func (d *crwDecoder) IFD(wellKnown uint16) (*tiff.IFD, error) {
	return nil, rawerr.New(rawerr.Unsupported, "crw: no TIFF directory available")
}

func (d *crwDecoder) findCameraHeap() *ciff.Dir {
	e, ok := d.root.Get(ciffTagCameraObject)
	if !ok || len(e.Children) == 0 {
		return d.root
	}
	return e.Children[0]
}

func (d *crwDecoder) RawImage(_ bytesio.RawSource, p Params, dummy bool) (*raw.RawImage, error) {
	heap := d.findCameraHeap()
	info, ok := heap.Get(ciffTagImageInfo)
	if !ok {
		return nil, rawerr.New(rawerr.DecoderFailed, "crw: no ImageInfo record")
	}
	b := info.Bytes()
	if len(b) < 8 {
		return nil, rawerr.New(rawerr.DecoderFailed, "crw: truncated ImageInfo record")
	}
	width := int(bytesio.LittleEndian.Uint32At(b, 0))
	height := int(bytesio.LittleEndian.Uint32At(b, 4))

	img := &raw.RawImage{Width: width, Height: height, CPP: 1, BitDepth: 16, Orientation: raw.OrientationNormal}
	if dummy {
		return img, nil
	}

	rawEntry, ok := heap.Get(ciffTagRawData)
	if !ok {
		return nil, rawerr.New(rawerr.DecoderFailed, "crw: no RawData record")
	}
	_, samples, err := ljpeg.Decode(p.Pool, rawEntry.Bytes())
	if err != nil {
		return nil, err
	}
	img.Data = raw.PlaneU16(samples)
	return img, nil
}

func (d *crwDecoder) RawMetadata(_ bytesio.RawSource, p Params) (*raw.RawMetadata, error) {
	return &raw.RawMetadata{}, nil
}

func (d *crwDecoder) FullImage(_ bytesio.RawSource, p Params) (*DynamicImage, error) {
	return nil, nil
}

func (d *crwDecoder) ThumbnailImage(_ bytesio.RawSource, p Params) (*DynamicImage, error) {
	heap := d.findCameraHeap()
	if e, ok := heap.Get(ciffTagExifInfo); ok {
		w, h := jpegDimensions(e.Bytes())
		return &DynamicImage{Width: w, Height: h, JPEG: e.Bytes()}, nil
	}
	return nil, nil
}

func (d *crwDecoder) XPacket(_ bytesio.RawSource, p Params) ([]byte, error) {
	return nil, nil
}
