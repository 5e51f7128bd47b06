package decode

import (
	"time"

	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/container/tiff"
	"github.com/rawdng/rawdng/raw"
	"github.com/rawdng/rawdng/rawerr"
)

// findRawIFD walks the given directory plus every nested sub-directory
// looking for the one carrying NewSubFileType == 0 with strip or tile
// offsets; it falls back to the chain's first directory for cameras that
// keep the raw data in the root IFD. Other directories of the chain are
// not searched.
func findRawIFD(chain *tiff.IFD) *tiff.IFD {
	var walk func(ifd *tiff.IFD) *tiff.IFD
	walk = func(ifd *tiff.IFD) *tiff.IFD {
		if ifd == nil {
			return nil
		}
		_, hasStrips := ifd.Get(tiff.TagStripOffsets)
		_, hasTiles := ifd.Get(tiff.TagTileOffsets)
		sft, hasSFT := ifd.Get(tiff.TagNewSubFileType)
		if (hasStrips || hasTiles) && (!hasSFT || sft.First() == tiff.SFTPrimaryImage) {
			return ifd
		}
		for _, subs := range ifd.Sub {
			for _, sub := range subs {
				if found := walk(sub); found != nil {
					return found
				}
			}
		}
		return nil
	}
	if found := walk(chain); found != nil {
		return found
	}
	return chain
}

// rootIFD is the first directory of a chain; decoders treat it as the
// camera's primary metadata source.
func rootIFD(c *tiff.Chain) *tiff.IFD {
	if len(c.IFDs) == 0 {
		return nil
	}
	return c.IFDs[0]
}

// readStrips concatenates a directory's strip or tile payload into one
// contiguous buffer, the shape every codec in this module expects.
func readStrips(src bytesio.RawSource, ifd *tiff.IFD) ([]byte, error) {
	if offEntry, ok := ifd.Get(tiff.TagStripOffsets); ok {
		lenEntry, ok := ifd.Get(tiff.TagStripByteCounts)
		if !ok {
			return nil, rawerr.New(rawerr.General, "tiff: strip offsets present without byte counts")
		}
		return concatSpans(src, offEntry.Int(), lenEntry.Int())
	}
	if offEntry, ok := ifd.Get(tiff.TagTileOffsets); ok {
		lenEntry, ok := ifd.Get(tiff.TagTileByteCounts)
		if !ok {
			return nil, rawerr.New(rawerr.General, "tiff: tile offsets present without byte counts")
		}
		return concatSpans(src, offEntry.Int(), lenEntry.Int())
	}
	return nil, rawerr.New(rawerr.DecoderFailed, "tiff: directory has neither strips nor tiles")
}

func concatSpans(src bytesio.RawSource, offsets, lengths []int64) ([]byte, error) {
	if len(offsets) != len(lengths) {
		return nil, rawerr.New(rawerr.General, "tiff: offset/byte-count arrays of mismatched length")
	}
	var out []byte
	for i := range offsets {
		buf, err := src.Slice(int(offsets[i]), int(lengths[i]))
		if err != nil {
			return nil, rawerr.Wrap(rawerr.IO, err, "tiff: failed to read strip/tile span")
		}
		out = append(out, buf...)
	}
	return out, nil
}

// geometry reads the width/height/bits-per-sample/compression tags a raw
// IFD must carry.
type geometry struct {
	Width, Height int
	BitsPerSample int
	Compression   int
	SamplesPerPixel int
}

func readGeometry(ifd *tiff.IFD) (geometry, error) {
	w, ok := ifd.Get(tiff.TagImageWidth)
	if !ok {
		return geometry{}, rawerr.New(rawerr.General, "tiff: raw directory missing ImageWidth")
	}
	h, ok := ifd.Get(tiff.TagImageLength)
	if !ok {
		return geometry{}, rawerr.New(rawerr.General, "tiff: raw directory missing ImageLength")
	}
	g := geometry{Width: int(w.First()), Height: int(h.First()), BitsPerSample: 16, SamplesPerPixel: 1}
	if bps, ok := ifd.Get(tiff.TagBitsPerSample); ok {
		g.BitsPerSample = int(bps.First())
	}
	if spp, ok := ifd.Get(tiff.TagSamplesPerPixel); ok {
		g.SamplesPerPixel = int(spp.First())
	}
	if c, ok := ifd.Get(tiff.TagCompression); ok {
		g.Compression = int(c.First())
	} else {
		g.Compression = tiff.CNone
	}
	return g, nil
}

// buildMetadata assembles RawMetadata from a root IFD's ExifIFD and
// GPSIFD sub-directories, tolerating either being absent.
func buildMetadata(root *tiff.IFD) *raw.RawMetadata {
	md := &raw.RawMetadata{}
	if root == nil {
		return md
	}

	exifDirs := root.Sub[tiff.TagExifIFD]
	if len(exifDirs) > 0 {
		exif := exifDirs[0]
		if e, ok := exif.Get(tiff.TagDateTimeOriginal); ok {
			if t, err := time.Parse("2006:01:02 15:04:05", e.ASCII()); err == nil {
				md.CaptureTime = t
			}
		}
		if e, ok := exif.Get(tiff.TagExposureTime); ok {
			md.ExposureTime = e.Rat(0)
		}
		if e, ok := exif.Get(tiff.TagFNumber); ok {
			md.FNumber = e.Rat(0)
		}
		if e, ok := exif.Get(tiff.TagISOSpeedRatings); ok {
			md.ISO = int(e.First())
		}
		if e, ok := exif.Get(tiff.TagExposureBiasValue); ok {
			md.ExposureBias = e.Rat(0)
		}
		if e, ok := exif.Get(tiff.TagFocalLength); ok {
			md.FocalLength = e.Rat(0)
		}
		if e, ok := exif.Get(tiff.TagFocalLengthIn35mm); ok {
			md.FocalLength35mm = int(e.First())
		}
		if e, ok := exif.Get(tiff.TagLensSpecification); ok && e.Count >= 4 {
			for i := 0; i < 4; i++ {
				md.LensSpec[i] = e.Rat(i)
			}
		}
		if e, ok := exif.Get(tiff.TagLensMake); ok {
			md.LensMake = e.ASCII()
		}
		if e, ok := exif.Get(tiff.TagLensModel); ok {
			md.LensModel = e.ASCII()
		}
	}

	gpsDirs := root.Sub[tiff.TagGPSIFD]
	if len(gpsDirs) > 0 {
		gps := gpsDirs[0]
		if e, ok := gps.Get(tiff.TagGPSLatitude); ok {
			md.GPSLatitude = e.Rat(0)
		}
		if e, ok := gps.Get(tiff.TagGPSLatitudeRef); ok {
			md.GPSLatitudeRef = e.ASCII()
		}
		if e, ok := gps.Get(tiff.TagGPSLongitude); ok {
			md.GPSLongitude = e.Rat(0)
		}
		if e, ok := gps.Get(tiff.TagGPSLongitudeRef); ok {
			md.GPSLongitudeRef = e.ASCII()
		}
		if e, ok := gps.Get(tiff.TagGPSAltitude); ok {
			md.GPSAltitude = e.Rat(0)
		}
	}
	return md
}

// findThumbnail looks for a JPEGInterchangeFormat pair anywhere in the
// chain's directories, returning the first match (in chain order) at or
// under maxBytes, used to distinguish a thumbnail from a full preview.
func findThumbnail(src bytesio.RawSource, dirs []*tiff.IFD, maxBytes int) (*DynamicImage, error) {
	for _, ifd := range dirs {
		off, ok := ifd.Get(tiff.TagJPEGInterchangeFormat)
		if !ok {
			continue
		}
		ln, ok := ifd.Get(tiff.TagJPEGInterchangeFormatLen)
		if !ok {
			continue
		}
		if maxBytes > 0 && int(ln.First()) > maxBytes {
			continue
		}
		buf, err := src.Slice(int(off.First()), int(ln.First()))
		if err != nil {
			return nil, rawerr.Wrap(rawerr.IO, err, "tiff: failed to read embedded JPEG")
		}
		w, h := jpegDimensions(buf)
		return &DynamicImage{Width: w, Height: h, JPEG: buf}, nil
	}
	return nil, nil
}

// jpegDimensions scans a JPEG's SOF0-SOF3 marker for its
// dimensions without a full decode.
func jpegDimensions(buf []byte) (int, int) {
	for i := 2; i+9 < len(buf); {
		if buf[i] != 0xFF {
			i++
			continue
		}
		marker := buf[i+1]
		if marker == 0xC0 || marker == 0xC1 || marker == 0xC2 || marker == 0xC3 {
			h := int(buf[i+5])<<8 | int(buf[i+6])
			w := int(buf[i+7])<<8 | int(buf[i+8])
			return w, h
		}
		if marker == 0xD8 || marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			i += 2
			continue
		}
		segLen := int(buf[i+2])<<8 | int(buf[i+3])
		i += 2 + segLen
	}
	return 0, 0
}

func readXPacket(src bytesio.RawSource, ifd *tiff.IFD) ([]byte, error) {
	if ifd == nil {
		return nil, nil
	}
	e, ok := ifd.Get(tiff.TagXMLPacket)
	if !ok {
		return nil, nil
	}
	return e.Bytes(), nil
}
