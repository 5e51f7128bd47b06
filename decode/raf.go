package decode

import (
	"github.com/rawdng/rawdng/camera"
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/codec/fuji"
	"github.com/rawdng/rawdng/internal/container/tiff"
	"github.com/rawdng/rawdng/raw"
	"github.com/rawdng/rawdng/rawerr"
)

// RAF block-table offsets. Fuji's RAF header is a fixed 16-byte
// "FUJIFILMCCD-RAW " magic, a 4-byte format version, and a 32-byte camera
// string, followed by a table of big-endian (offset, length) pairs
// locating the embedded JPEG preview and the CFA sensor data block. The
// exact table layout has shifted across firmware versions; this follows
// the common post-S2 layout.
const (
	rafJPEGOffsetAt = 84
	rafJPEGLenAt    = 88
	rafCFAOffsetAt  = 100
	rafCFALenAt     = 104
	rafQuantBase    = 8
)

// rafDecoder decodes Fujifilm's RAF container: not TIFF-rooted, so it
// reads its own fixed block table directly rather than going through
// internal/container/tiff, and dispatches the CFA payload to
// internal/codec/fuji's adaptive Rice decoder.
type rafDecoder struct {
	src        bytesio.RawSource
	cam        *camera.Camera
	jpegOffset, jpegLen int
	cfaOffset, cfaLen   int
}

func newRAFDecoder(src bytesio.RawSource) (*rafDecoder, error) {
	head, err := src.Slice(0, 112)
	if err != nil {
		return nil, rawerr.Wrap(rawerr.IO, err, "raf: truncated header")
	}
	return &rafDecoder{
		src:        src,
		jpegOffset: int(bytesio.BigEndian.Uint32At(head, rafJPEGOffsetAt)),
		jpegLen:    int(bytesio.BigEndian.Uint32At(head, rafJPEGLenAt)),
		cfaOffset:  int(bytesio.BigEndian.Uint32At(head, rafCFAOffsetAt)),
		cfaLen:     int(bytesio.BigEndian.Uint32At(head, rafCFALenAt)),
	}, nil
}

func (d *rafDecoder) FormatHint() FormatHint { return FormatRAF }

func (d *rafDecoder) IFD(uint16) (*tiff.IFD, error) {
	return nil, rawerr.New(rawerr.Unsupported, "raf: no TIFF directory available")
}

func (d *rafDecoder) RawMetadata(bytesio.RawSource, Params) (*raw.RawMetadata, error) {
	return &raw.RawMetadata{}, nil
}

func (d *rafDecoder) previewBytes() ([]byte, error) {
	if d.jpegLen <= 0 {
		return nil, nil
	}
	return d.src.Slice(d.jpegOffset, d.jpegLen)
}

func (d *rafDecoder) FullImage(bytesio.RawSource, Params) (*DynamicImage, error) {
	buf, err := d.previewBytes()
	if err != nil || buf == nil {
		return nil, err
	}
	w, h := jpegDimensions(buf)
	return &DynamicImage{Width: w, Height: h, JPEG: buf}, nil
}

func (d *rafDecoder) ThumbnailImage(src bytesio.RawSource, p Params) (*DynamicImage, error) {
	return d.FullImage(src, p)
}

func (d *rafDecoder) XPacket(bytesio.RawSource, Params) ([]byte, error) { return nil, nil }

func (d *rafDecoder) RawImage(_ bytesio.RawSource, p Params, dummy bool) (*raw.RawImage, error) {
	// The preview JPEG is captured at the sensor's active-area resolution
	// on every Fuji body this decoder targets, so it doubles as the raw
	// plane's geometry source without needing the CFA header's own
	// (undocumented) mini-TIFF tags.
	preview, err := d.previewBytes()
	if err != nil {
		return nil, err
	}
	width, height := 0, 0
	if preview != nil {
		width, height = jpegDimensions(preview)
	}

	img := &raw.RawImage{Width: width, Height: height, CPP: 1, BitDepth: 16, Orientation: raw.OrientationNormal}
	applyCameraCalibration(img, d.cam)
	if dummy {
		return img, nil
	}
	if d.cfaLen <= 0 {
		return nil, rawerr.New(rawerr.DecoderFailed, "raf: no CFA data block found")
	}
	cfaBuf, err := d.src.Slice(d.cfaOffset, d.cfaLen)
	if err != nil {
		return nil, rawerr.Wrap(rawerr.IO, err, "raf: failed to read CFA block")
	}
	samples, err := fuji.Decode(p.Pool, cfaBuf, width, height, rafQuantBase)
	if err != nil {
		return nil, err
	}
	img.Data = raw.PlaneU16(samples)
	return img, nil
}
