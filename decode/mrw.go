package decode

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/container/tiff"
	"github.com/rawdng/rawdng/rawerr"
)

// newMRWDecoder parses Minolta's MRW container: a "\0MRM" header
// immediately followed by a 4-byte big-endian total-data-length, then a
// sequence of 4-byte-tag/4-byte-big-endian-length blocks. The "TTW" block
// holds a complete embedded TIFF (the camera's raw IFD, Exif IFD, and
// metadata); every other block (PRD, WBG, RIF) carries Minolta-private
// fixed layouts this decoder does not need since the embedded TIFF
// already exposes width/height/bit depth.
func newMRWDecoder(src bytesio.RawSource) (*tiffDecoder, error) {
	buf, err := src.ReadAll()
	if err != nil {
		return nil, rawerr.Wrap(rawerr.IO, err, "mrw: failed to read file")
	}
	if len(buf) < 8 {
		return nil, rawerr.New(rawerr.DecoderFailed, "mrw: truncated header")
	}
	total := int(bytesio.BigEndian.Uint32At(buf, 4))
	pos := 8
	end := 8 + total
	if end > len(buf) {
		end = len(buf)
	}
	for pos+8 <= end {
		tag := string(buf[pos : pos+4])
		length := int(bytesio.BigEndian.Uint32At(buf, pos+4))
		bodyStart := pos + 8
		bodyEnd := bodyStart + length
		if bodyEnd > len(buf) {
			return nil, rawerr.New(rawerr.DecoderFailed, "mrw: block runs past end of file")
		}
		if tag == "TTW" {
			embedded := bytesio.NewMemSource(buf[bodyStart:bodyEnd])
			reader, first, err := tiff.NewReader(embedded, 0, tiff.TagSubIFDs, tiff.TagExifIFD, tiff.TagGPSIFD)
			if err != nil {
				return nil, err
			}
			chain, err := reader.ReadChain(first)
			if err != nil {
				return nil, err
			}
			return newTIFFDecoder(embedded, reader, chain, FormatMRW), nil
		}
		pos = bodyEnd
	}
	return nil, rawerr.New(rawerr.DecoderFailed, "mrw: no TTW (embedded TIFF) block found")
}
