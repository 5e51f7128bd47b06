package decode

import (
	"github.com/rawdng/rawdng/camera"
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/codec/packed"
	"github.com/rawdng/rawdng/internal/container/tiff"
	"github.com/rawdng/rawdng/raw"
	"github.com/rawdng/rawdng/rawerr"
)

// nakedDecoder handles a sensor dump with no container at all: the
// registry match (by exact file size) supplies every tag a TIFF-rooted
// decoder would otherwise read from the file itself.
type nakedDecoder struct {
	src bytesio.RawSource
	cam *camera.Camera
}

func newNakedDecoder(src bytesio.RawSource, cam *camera.Camera) (*nakedDecoder, error) {
	if cam == nil {
		return nil, rawerr.New(rawerr.Unsupported, "naked: no matching camera for this file size")
	}
	return &nakedDecoder{src: src, cam: cam}, nil
}

func (d *nakedDecoder) FormatHint() FormatHint { return FormatNaked }

func (d *nakedDecoder) IFD(uint16) (*tiff.IFD, error) {
	return nil, rawerr.New(rawerr.Unsupported, "naked: no TIFF directory available")
}

func (d *nakedDecoder) RawMetadata(bytesio.RawSource, Params) (*raw.RawMetadata, error) {
	return &raw.RawMetadata{}, nil
}

func (d *nakedDecoder) FullImage(bytesio.RawSource, Params) (*DynamicImage, error)      { return nil, nil }
func (d *nakedDecoder) ThumbnailImage(bytesio.RawSource, Params) (*DynamicImage, error) { return nil, nil }
func (d *nakedDecoder) XPacket(bytesio.RawSource, Params) ([]byte, error)               { return nil, nil }

func (d *nakedDecoder) RawImage(_ bytesio.RawSource, p Params, dummy bool) (*raw.RawImage, error) {
	bps := d.cam.BitsPerSample
	if bps == 0 {
		bps = 16
	}
	img := &raw.RawImage{
		Make: d.cam.Make, Model: d.cam.Model,
		CleanMake: d.cam.CleanMake, CleanModel: d.cam.CleanModel,
		Width: d.cam.RawWidth, Height: d.cam.RawHeight, CPP: 1, BitDepth: bps,
		Orientation: d.cam.Orientation,
	}
	applyCameraCalibration(img, d.cam)
	if img.Orientation == 0 {
		img.Orientation = raw.OrientationNormal
	}
	if dummy {
		return img, nil
	}

	buf, err := d.src.ReadAll()
	if err != nil {
		return nil, rawerr.Wrap(rawerr.IO, err, "naked: failed to read file")
	}
	opts := packed.Options{Width: d.cam.RawWidth, Height: d.cam.RawHeight, BitWidth: bps}
	if d.cam.FindHint(camera.HintMSB32) {
		opts.MSB32 = true
	}
	if d.cam.FindHint(camera.HintInterlaced) {
		opts.Interlaced = true
	}
	samples, err := packed.Decode(p.Pool, buf, opts)
	if err != nil {
		return nil, err
	}
	img.Data = raw.PlaneU16(samples)
	return img, nil
}
