package tiff

import (
	"github.com/pkg/errors"

	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/rawerr"
)

// IFD is one Image File Directory: an ordered list of tags plus the
// tag-to-entry map, and any nested sub-directories discovered under a
// caller-designated "known sub-IFD" tag (makernotes, ExifIFD, GPSIFD,
// SubIFDs).
type IFD struct {
	Order   bytesio.Endian
	Entries map[uint16]Entry
	Tags    []uint16 // insertion order, for deterministic round-trips

	Sub map[uint16][]*IFD
}

// Get returns the entry for tag and whether it was present.
func (d *IFD) Get(tag uint16) (Entry, bool) {
	e, ok := d.Entries[tag]
	return e, ok
}

// Chain is the root-linked list of top-level IFDs a TIFF file contains
// (image + thumbnail + ... before any tag-addressed sub-directory).
type Chain struct {
	Order bytesio.Endian
	IFDs  []*IFD
}

// Reader parses a TIFF byte stream rooted at src.
type Reader struct {
	src       bytesio.RawSource
	order     bytesio.Endian
	corr      int64 // signed base correction
	subIFDTag map[uint16]bool
}

// NewReader probes src for "II*\0" / "MM\0*" and returns a Reader
// positioned to walk the IFD chain starting at the embedded first-IFD
// pointer. corr is added to every absolute offset the reader dereferences,
// used to parse a makernote or a decrypted Sony SR2 block relocated
// relative to its containing file.
func NewReader(src bytesio.RawSource, corr int64, knownSubIFDs ...uint16) (*Reader, int64, error) {
	header, err := src.Slice(0, 8)
	if err != nil {
		return nil, 0, rawerr.Wrap(rawerr.IO, err, "tiff: failed to read header")
	}

	var order bytesio.Endian
	switch string(header[0:4]) {
	case LEHeader:
		order = bytesio.LittleEndian
	case BEHeader:
		order = bytesio.BigEndian
	default:
		return nil, 0, rawerr.New(rawerr.DecoderFailed, "tiff: malformed header magic")
	}

	first := int64(order.Uint32At(header, 4))

	sub := make(map[uint16]bool, len(knownSubIFDs))
	for _, t := range knownSubIFDs {
		sub[t] = true
	}

	return &Reader{src: src, order: order, corr: corr, subIFDTag: sub}, first, nil
}

// Order returns the byte order detected from the header.
func (r *Reader) Order() bytesio.Endian { return r.order }

// ReadChain walks the next-IFD links starting at firstOffset, bounded by
// maxChainDepth.
func (r *Reader) ReadChain(firstOffset int64) (*Chain, error) {
	chain := &Chain{Order: r.order}
	offset := firstOffset
	for depth := 0; offset != 0 && depth < maxChainDepth; depth++ {
		ifd, next, err := r.readOneIFD(offset)
		if err != nil {
			return nil, err
		}
		chain.IFDs = append(chain.IFDs, ifd)
		offset = next
	}
	return chain, nil
}

// ReadIFD reads a single directory at offset without following next-IFD
// links, used for sub-IFDs whose next-pointer is meaningless.
func (r *Reader) ReadIFD(offset int64) (*IFD, error) {
	ifd, _, err := r.readOneIFD(offset)
	return ifd, err
}

func (r *Reader) at(offset int64) int64 { return offset + r.corr }

func (r *Reader) readOneIFD(offset int64) (*IFD, int64, error) {
	countBuf, err := r.src.Slice(int(r.at(offset)), 2)
	if err != nil {
		return nil, 0, rawerr.Wrap(rawerr.IO, err, "tiff: failed to read entry count")
	}
	n := int(r.order.Uint16At(countBuf, 0))
	if n > maxEntries {
		return nil, 0, rawerr.Newf(rawerr.DecoderFailed, "tiff: directory has %d entries, exceeding the bound of %d", n, maxEntries)
	}
	if n == 0 {
		return nil, 0, rawerr.New(rawerr.DecoderFailed, "tiff: directory with zero entries is invalid")
	}

	entriesBuf, err := r.src.Slice(int(r.at(offset))+2, n*entryLen)
	if err != nil {
		return nil, 0, rawerr.Wrap(rawerr.IO, err, "tiff: failed to read directory entries")
	}

	ifd := &IFD{
		Order:   r.order,
		Entries: make(map[uint16]Entry, n),
		Sub:     make(map[uint16][]*IFD),
	}

	for i := 0; i < n; i++ {
		rec := entriesBuf[i*entryLen : (i+1)*entryLen]
		entry, err := r.parseEntry(rec)
		if err != nil {
			return nil, 0, err
		}
		ifd.Entries[entry.Tag] = entry
		ifd.Tags = append(ifd.Tags, entry.Tag)

		if r.subIFDTag[entry.Tag] {
			subs, err := r.readSubIFDs(entry)
			if err != nil {
				return nil, 0, errors.Wrapf(err, "tiff: failed to read sub-IFD for tag %d", entry.Tag)
			}
			ifd.Sub[entry.Tag] = subs
		}
	}

	nextBuf, err := r.src.Slice(int(r.at(offset))+2+n*entryLen, 4)
	if err != nil {
		return nil, 0, rawerr.Wrap(rawerr.IO, err, "tiff: failed to read next-IFD pointer")
	}
	next := int64(r.order.Uint32At(nextBuf, 0))
	return ifd, next, nil
}

func (r *Reader) parseEntry(rec []byte) (Entry, error) {
	tag := r.order.Uint16At(rec, 0)
	dtype := r.order.Uint16At(rec, 2)
	count := r.order.Uint32At(rec, 4)

	if int(dtype) >= len(typeLengths) || typeLengths[dtype] == 0 {
		// Unknown type: keep the 4 inline bytes verbatim as Undefined so a
		// round-trip preserves the bytes even if we can't interpret them.
		return Entry{Tag: tag, Type: DTUndefined, Count: 4, raw: append([]byte(nil), rec[8:12]...), order: r.order}, nil
	}

	dataLen := int(count) * typeLengths[dtype]
	var raw []byte
	if dataLen <= 4 {
		raw = append([]byte(nil), rec[8:8+dataLen]...)
	} else {
		off := int64(r.order.Uint32At(rec, 8))
		buf, err := r.src.Slice(int(r.at(off)), dataLen)
		if err != nil {
			return Entry{}, rawerr.Wrap(rawerr.IO, err, "tiff: failed to dereference entry value")
		}
		raw = buf
	}
	return Entry{Tag: tag, Type: dtype, Count: count, raw: raw, order: r.order}, nil
}

func (r *Reader) readSubIFDs(entry Entry) ([]*IFD, error) {
	if entry.Type != DTLong && entry.Type != DTShort && entry.Type != DTUndefined {
		return nil, nil
	}
	var offsets []int64
	switch entry.Type {
	case DTUndefined:
		// A makernote IFD pointer is often stored as Undefined bytes whose
		// first 4 bytes are the little/big-endian offset.
		if len(entry.raw) >= 4 {
			offsets = []int64{int64(entry.order.Uint32At(entry.raw, 0))}
		}
	default:
		for _, v := range entry.Int() {
			offsets = append(offsets, v)
		}
	}

	subs := make([]*IFD, 0, len(offsets))
	for _, off := range offsets {
		ifd, err := r.ReadIFD(off)
		if err != nil {
			return nil, err
		}
		subs = append(subs, ifd)
	}
	return subs, nil
}
