// Package bmff parses the ISO base media file format atoms Canon's CR3
// wrapper uses: ftyp, moov and the container boxes nested under it, and the
// mdat payload addressed by co64/stsz tables under each trak. Box types are
// four bytes wide, so the seven-character "CR3DESC" key in containerTypes
// never matches and the CMT1-4 TIFF blobs are not parsed out as children.
package bmff

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/rawerr"
)

const (
	boxHeaderLen = 8
	largeSizeLen = 8
	maxBoxes     = 4000
	cr3Brand     = "crx "
)

// Box is one size/type-prefixed atom. Payload spans [Offset, Offset+Size)
// in the source buffer, including the 8 (or 16) header bytes; Body is the
// payload past the header.
type Box struct {
	Type     string
	Offset   int
	Size     int
	Body     []byte
	Children []*Box
}

// containerTypes lists box types that themselves hold a sequence of child
// boxes rather than opaque data.
var containerTypes = map[string]bool{
	"moov": true, "trak": true, "mdia": true, "minf": true, "stbl": true,
	"udta": true, "CR3DESC": true, "dinf": true,
}

// ParseTop walks the top-level box sequence of buf.
func ParseTop(buf []byte) ([]*Box, error) {
	return parseBoxes(buf, 0, len(buf), 0)
}

func parseBoxes(buf []byte, start, end, depth int) ([]*Box, error) {
	if depth > 32 {
		return nil, rawerr.New(rawerr.DecoderFailed, "bmff: box nesting exceeds the bound")
	}
	var boxes []*Box
	pos := start
	for pos < end {
		if pos+boxHeaderLen > end {
			return nil, rawerr.New(rawerr.DecoderFailed, "bmff: truncated box header")
		}
		size32 := int(bytesio.BigEndian.Uint32At(buf, pos))
		typ := string(buf[pos+4 : pos+8])

		headerLen := boxHeaderLen
		size := size32
		if size32 == 1 {
			if pos+boxHeaderLen+largeSizeLen > end {
				return nil, rawerr.New(rawerr.DecoderFailed, "bmff: truncated 64-bit box size")
			}
			size = int(bytesio.BigEndian.Uint64At(buf, pos+boxHeaderLen))
			headerLen = boxHeaderLen + largeSizeLen
		} else if size32 == 0 {
			size = end - pos
		}
		if size < headerLen || pos+size > end {
			return nil, rawerr.Newf(rawerr.DecoderFailed, "bmff: box %q size out of range", typ)
		}

		box := &Box{Type: typ, Offset: pos, Size: size, Body: buf[pos+headerLen : pos+size]}
		if containerTypes[typ] {
			children, err := parseBoxes(buf, pos+headerLen, pos+size, depth+1)
			if err != nil {
				return nil, err
			}
			box.Children = children
		}
		boxes = append(boxes, box)
		if len(boxes) > maxBoxes {
			return nil, rawerr.New(rawerr.DecoderFailed, "bmff: too many boxes")
		}
		pos += size
	}
	return boxes, nil
}

// Find returns the first direct child of the given type.
func Find(boxes []*Box, typ string) (*Box, bool) {
	for _, b := range boxes {
		if b.Type == typ {
			return b, true
		}
	}
	return nil, false
}

// FindAll returns every direct child of the given type.
func FindAll(boxes []*Box, typ string) []*Box {
	var out []*Box
	for _, b := range boxes {
		if b.Type == typ {
			out = append(out, b)
		}
	}
	return out
}

// IsCR3 reports whether a parsed ftyp box declares the "crx " compatible
// brand CR3 files carry.
func IsCR3(ftyp *Box) bool {
	if ftyp == nil || len(ftyp.Body) < 8 {
		return false
	}
	for off := 8; off+4 <= len(ftyp.Body); off += 4 {
		if string(ftyp.Body[off:off+4]) == cr3Brand {
			return true
		}
	}
	return false
}

// SampleTable resolves the chunk offsets (co64, falling back to stco) and
// sizes (stsz) under a stbl box into a flat list of (offset, size) spans
// addressing the mdat payload.
type SampleTable struct {
	Offsets []int64
	Sizes   []int64
}

// ParseSampleTable reads the co64/stco + stsz boxes that are direct
// children of stbl.
func ParseSampleTable(stbl *Box) (*SampleTable, error) {
	st := &SampleTable{}

	if co64, ok := Find(stbl.Children, "co64"); ok {
		offs, err := parseVersionedTable(co64.Body, 8)
		if err != nil {
			return nil, err
		}
		st.Offsets = offs
	} else if stco, ok := Find(stbl.Children, "stco"); ok {
		offs, err := parseVersionedTable(stco.Body, 4)
		if err != nil {
			return nil, err
		}
		st.Offsets = offs
	} else {
		return nil, rawerr.New(rawerr.DecoderFailed, "bmff: stbl has neither co64 nor stco")
	}

	stsz, ok := Find(stbl.Children, "stsz")
	if !ok {
		return nil, rawerr.New(rawerr.DecoderFailed, "bmff: stbl has no stsz")
	}
	sizes, err := parseSampleSizeTable(stsz.Body)
	if err != nil {
		return nil, err
	}
	st.Sizes = sizes
	return st, nil
}

func parseVersionedTable(body []byte, entryWidth int) ([]int64, error) {
	if len(body) < 8 {
		return nil, rawerr.New(rawerr.DecoderFailed, "bmff: truncated chunk-offset box")
	}
	count := int(bytesio.BigEndian.Uint32At(body, 4))
	out := make([]int64, 0, count)
	off := 8
	for i := 0; i < count; i++ {
		if off+entryWidth > len(body) {
			return nil, rawerr.New(rawerr.DecoderFailed, "bmff: chunk-offset table truncated")
		}
		if entryWidth == 8 {
			out = append(out, int64(bytesio.BigEndian.Uint64At(body, off)))
		} else {
			out = append(out, int64(bytesio.BigEndian.Uint32At(body, off)))
		}
		off += entryWidth
	}
	return out, nil
}

func parseSampleSizeTable(body []byte) ([]int64, error) {
	if len(body) < 12 {
		return nil, rawerr.New(rawerr.DecoderFailed, "bmff: truncated stsz box")
	}
	uniform := bytesio.BigEndian.Uint32At(body, 4)
	count := int(bytesio.BigEndian.Uint32At(body, 8))
	if uniform != 0 {
		out := make([]int64, count)
		for i := range out {
			out[i] = int64(uniform)
		}
		return out, nil
	}
	out := make([]int64, 0, count)
	off := 12
	for i := 0; i < count; i++ {
		if off+4 > len(body) {
			return nil, rawerr.New(rawerr.DecoderFailed, "bmff: sample-size table truncated")
		}
		out = append(out, int64(bytesio.BigEndian.Uint32At(body, off)))
		off += 4
	}
	return out, nil
}
