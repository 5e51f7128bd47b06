package decode

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/container/tiff"
)

// newDNGDecoder wraps the generic tiffDecoder: a well-formed DNG needs no
// vendor-specific unpacking, since its compression/bit-depth tags are
// already self-describing and its calibration tags already match the
// fields applyDNGCalibration reads.
func newDNGDecoder(src bytesio.RawSource, reader *tiff.Reader, chain *tiff.Chain) *tiffDecoder {
	return newTIFFDecoder(src, reader, chain, FormatDNG)
}
