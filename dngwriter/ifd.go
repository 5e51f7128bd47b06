package dngwriter

import (
	"math/big"
	"sort"

	"github.com/rawdng/rawdng/internal/container/tiff"
	"github.com/rawdng/rawdng/rawerr"
)

// entry is one accumulated (tag -> typed value) pair, matching the shape
// internal/container/tiff.Entry reads back. Values that fit in 4 bytes are
// kept inline; larger ones are flushed to the stream by ifd.flush and
// referenced by offset.
type entry struct {
	tag     uint16
	typ     uint16
	count   uint32
	payload []byte // count * typeLen(typ) bytes, in file byte order
}

func typeLen(typ uint16) int {
	switch typ {
	case tiff.DTByte, tiff.DTASCII, tiff.DTSByte, tiff.DTUndefined:
		return 1
	case tiff.DTShort, tiff.DTSShort:
		return 2
	case tiff.DTLong, tiff.DTSLong, tiff.DTFloat:
		return 4
	case tiff.DTRational, tiff.DTSRational, tiff.DTDouble:
		return 8
	default:
		return 1
	}
}

// ifd accumulates entries for one directory (root, a raw/preview SubIFD,
// or the Exif IFD) ordered by tag, mirroring the two-pass layout: values
// are flushed to the stream before the directory header that references
// them, and sub-IFDs are flushed before their parent.
type ifd struct {
	entries map[uint16]entry
}

// endianLike is the subset of internal/bytesio.Endian's behavior the
// writer needs in put form; littleEndian/bigEndian below implement it
// directly so the writer isn't forced to allocate a []byte just to reuse
// bytesio.Endian.PutUint16At/PutUint32At inline.
type endianLike interface {
	put16(buf []byte, off int, v uint16)
	put32(buf []byte, off int, v uint32)
}

type littleEndian struct{}

func (littleEndian) put16(buf []byte, off int, v uint16) {
	buf[off], buf[off+1] = byte(v), byte(v>>8)
}
func (littleEndian) put32(buf []byte, off int, v uint32) {
	buf[off], buf[off+1], buf[off+2], buf[off+3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}

type bigEndian struct{}

func (bigEndian) put16(buf []byte, off int, v uint16) {
	buf[off], buf[off+1] = byte(v>>8), byte(v)
}
func (bigEndian) put32(buf []byte, off int, v uint32) {
	buf[off], buf[off+1], buf[off+2], buf[off+3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
}

func newIFD() *ifd {
	return &ifd{entries: make(map[uint16]entry)}
}

func (d *ifd) setByte(tag uint16, vs ...byte) {
	d.entries[tag] = entry{tag: tag, typ: tiff.DTByte, count: uint32(len(vs)), payload: vs}
}

func (d *ifd) setASCII(tag uint16, s string) {
	b := append([]byte(s), 0)
	d.entries[tag] = entry{tag: tag, typ: tiff.DTASCII, count: uint32(len(b)), payload: b}
}

func (d *ifd) setShort(tag uint16, order endianLike, vs ...uint16) {
	buf := make([]byte, 2*len(vs))
	for i, v := range vs {
		order.put16(buf, i*2, v)
	}
	d.entries[tag] = entry{tag: tag, typ: tiff.DTShort, count: uint32(len(vs)), payload: buf}
}

func (d *ifd) setLong(tag uint16, order endianLike, vs ...uint32) {
	buf := make([]byte, 4*len(vs))
	for i, v := range vs {
		order.put32(buf, i*4, v)
	}
	d.entries[tag] = entry{tag: tag, typ: tiff.DTLong, count: uint32(len(vs)), payload: buf}
}

func (d *ifd) setRational(tag uint16, order endianLike, vs ...*big.Rat) {
	buf := make([]byte, 8*len(vs))
	for i, v := range vs {
		n, den := ratToUint32(v)
		order.put32(buf, i*8, n)
		order.put32(buf, i*8+4, den)
	}
	d.entries[tag] = entry{tag: tag, typ: tiff.DTRational, count: uint32(len(vs)), payload: buf}
}

func (d *ifd) setSRational(tag uint16, order endianLike, vs ...*big.Rat) {
	buf := make([]byte, 8*len(vs))
	for i, v := range vs {
		n, den := ratToInt32(v)
		order.put32(buf, i*8, uint32(n))
		order.put32(buf, i*8+4, uint32(den))
	}
	d.entries[tag] = entry{tag: tag, typ: tiff.DTSRational, count: uint32(len(vs)), payload: buf}
}

func (d *ifd) setUndefined(tag uint16, b []byte) {
	d.entries[tag] = entry{tag: tag, typ: tiff.DTUndefined, count: uint32(len(b)), payload: append([]byte(nil), b...)}
}

func ratToUint32(r *big.Rat) (uint32, uint32) {
	if r == nil {
		return 0, 1
	}
	return uint32(r.Num().Int64()), uint32(r.Denom().Int64())
}

func ratToInt32(r *big.Rat) (int32, int32) {
	if r == nil {
		return 0, 1
	}
	return int32(r.Num().Int64()), int32(r.Denom().Int64())
}

// sortedTags returns the IFD's tags in ascending order, the order TIFF
// requires directory entries to appear in.
func (d *ifd) sortedTags() []uint16 {
	tags := make([]uint16, 0, len(d.entries))
	for t := range d.entries {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// flush writes d's out-of-line values (4-byte aligned) to buf, then its
// directory header (entry count, 12-byte records, next-IFD pointer), and
// returns the offset the directory itself was written at. next is the
// next-IFD pointer value to embed (0 for every IFD this writer produces;
// chains of more than one top-level IFD are not written).
func (d *ifd) flush(buf *buffer, order endianLike, next uint32) (uint32, error) {
	tags := d.sortedTags()

	valueOffsets := make(map[uint16]uint32, len(tags))
	for _, t := range tags {
		e := d.entries[t]
		size := int(e.count) * typeLen(e.typ)
		if size <= 4 {
			continue
		}
		buf.align(4)
		valueOffsets[t] = uint32(buf.len())
		buf.write(e.payload)
	}

	buf.align(4)
	dirOffset := uint32(buf.len())

	header := make([]byte, 2)
	order.put16(header, 0, uint16(len(tags)))
	buf.write(header)

	for _, t := range tags {
		e := d.entries[t]
		rec := make([]byte, 12)
		order.put16(rec, 0, e.tag)
		order.put16(rec, 2, e.typ)
		order.put32(rec, 4, e.count)

		size := int(e.count) * typeLen(e.typ)
		if size <= 4 {
			copy(rec[8:], e.payload)
		} else {
			off, ok := valueOffsets[t]
			if !ok {
				return 0, rawerr.New(rawerr.General, "dngwriter: missing flushed offset for out-of-line entry")
			}
			order.put32(rec, 8, off)
		}
		buf.write(rec)
	}

	nextBuf := make([]byte, 4)
	order.put32(nextBuf, 0, next)
	buf.write(nextBuf)

	return dirOffset, nil
}
