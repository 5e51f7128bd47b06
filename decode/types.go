// Package decode sniffs a raw file's container, selects the format
// decoder that understands it, and drives that decoder's narrow
// capability set to produce a raw.RawImage and raw.RawMetadata.
package decode

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/container/tiff"
	"github.com/rawdng/rawdng/internal/workpool"
	"github.com/rawdng/rawdng/raw"
)

// Params carries the per-call knobs every decoder method accepts: the
// worker pool shared by row-parallel codecs and the signed offset
// correction relocated sub-streams (decrypted SR2 blocks, makernote
// IFDs) need.
type Params struct {
	Pool *workpool.Pool
	Corr int64
}

// FormatHint names the concrete vendor format a Decoder was built for.
type FormatHint int

const (
	FormatUnknown FormatHint = iota
	FormatDNG
	FormatCR2
	FormatCR3
	FormatCRW
	FormatNEF
	FormatARW
	FormatORF
	FormatRAF
	FormatRW2
	FormatPEF
	FormatSRW
	FormatMRW
	FormatNaked
	FormatX3F
	FormatARI
	FormatGenericTIFF
)

func (f FormatHint) String() string {
	switch f {
	case FormatDNG:
		return "DNG"
	case FormatCR2:
		return "CR2"
	case FormatCR3:
		return "CR3"
	case FormatCRW:
		return "CRW"
	case FormatNEF:
		return "NEF"
	case FormatARW:
		return "ARW"
	case FormatORF:
		return "ORF"
	case FormatRAF:
		return "RAF"
	case FormatRW2:
		return "RW2"
	case FormatPEF:
		return "PEF"
	case FormatSRW:
		return "SRW"
	case FormatMRW:
		return "MRW"
	case FormatNaked:
		return "naked"
	case FormatX3F:
		return "X3F"
	case FormatARI:
		return "ARI"
	case FormatGenericTIFF:
		return "generic-tiff"
	default:
		return "unknown"
	}
}

// DynamicImage is an embedded preview or thumbnail, stored as the
// compressed bytes the source already carried (almost always baseline
// JPEG) plus the dimensions needed to place it in a DNG preview sub-IFD.
type DynamicImage struct {
	Width, Height int
	JPEG          []byte
}

// Decoder is the narrow per-vendor capability set every format decoder
// implements. The src argument threaded through every method exists for
// decoders that stream the underlying file lazily; decoders built over an
// already-opened source (the common case) bind it at construction time
// and ignore the parameter.
type Decoder interface {
	// RawImage decodes the primary sensor plane. dummy, when true, skips
	// the pixel decode and returns geometry/calibration only.
	RawImage(src bytesio.RawSource, p Params, dummy bool) (*raw.RawImage, error)
	RawMetadata(src bytesio.RawSource, p Params) (*raw.RawMetadata, error)
	FullImage(src bytesio.RawSource, p Params) (*DynamicImage, error)
	ThumbnailImage(src bytesio.RawSource, p Params) (*DynamicImage, error)
	XPacket(src bytesio.RawSource, p Params) ([]byte, error)
	IFD(wellKnown uint16) (*tiff.IFD, error)
	FormatHint() FormatHint
}
