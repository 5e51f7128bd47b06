package decode

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/container/tiff"
)

// newPEFDecoder wraps the generic tiffDecoder; Pentax PEF bodies split
// between LJPEG-compressed and 12-bit control-byte-grouped uncompressed
// strips, both already covered by packed.Options/ljpeg via the shared
// hinted-unpack path.
func newPEFDecoder(src bytesio.RawSource, reader *tiff.Reader, chain *tiff.Chain) *tiffDecoder {
	d := newTIFFDecoder(src, reader, chain, FormatPEF)
	d.unpack = genericHintedUnpack(d)
	return d
}
