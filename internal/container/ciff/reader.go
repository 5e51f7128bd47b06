// Package ciff parses Canon's legacy CIFF container (CRW files): a byte
// block terminated by a 4-byte value-data-size footer, a directory entry
// count, and entries of (tag, type, count-or-byte-size, data-offset).
// Entries whose tag type denotes a nested heap are recursed into, bounded
// by a depth limit.
package ciff

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/rawerr"
)

const (
	entryLen   = 10
	footerLen  = 4
	maxEntries = 4000
	maxDepth   = 16
)

// Tag component types that denote a nested directory heap (per Canon's
// CIFF storage format: the tag word's 0x3800 bits give the entry's data
// type, with 0x2800/0x3000 marking sub-heaps).
const (
	TypeSubHeap1 uint16 = 0x2800
	TypeSubHeap2 uint16 = 0x3000
)

// Entry is one CIFF directory record.
type Entry struct {
	Tag      uint16
	Type     uint16
	Size     uint32
	Offset   uint32
	data     []byte
	Children []*Dir
}

// Bytes returns the entry's raw value bytes, relative to the heap it was
// read from.
func (e Entry) Bytes() []byte { return e.data }

// Dir is one CIFF directory heap: an ordered list of entries found by
// walking backward from its value-data-size footer.
type Dir struct {
	Entries []Entry
}

// Get returns the first entry with the given tag, if present.
func (d *Dir) Get(tag uint16) (Entry, bool) {
	for _, e := range d.Entries {
		if e.Tag == tag {
			return e, true
		}
	}
	return Entry{}, false
}

// Reader parses a CIFF heap tree rooted at an in-memory buffer.
type Reader struct {
	buf []byte
}

// NewReader wraps buf, the CRW file's full byte content, for heap parsing.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// ReadHeap parses the heap spanning [offset, offset+length) in the
// wrapped buffer. The heap's last 4 bytes hold the size of its value data;
// the directory starts that many bytes into the heap with a 2-byte entry
// count, followed by that many 10-byte records, read in order.
func (r *Reader) ReadHeap(offset, length int) (*Dir, error) {
	return r.readHeap(offset, length, 0)
}

func (r *Reader) readHeap(offset, length, depth int) (*Dir, error) {
	if depth > maxDepth {
		return nil, rawerr.New(rawerr.DecoderFailed, "ciff: heap nesting exceeds the bound")
	}
	if length < footerLen+2 || offset < 0 || offset+length > len(r.buf) {
		return nil, rawerr.New(rawerr.DecoderFailed, "ciff: heap bounds out of range")
	}

	footerOff := offset + length - footerLen
	dataSize := bytesio.LittleEndian.Uint32At(r.buf, footerOff)
	if int(dataSize) > length {
		return nil, rawerr.New(rawerr.DecoderFailed, "ciff: value-data size exceeds heap length")
	}

	dirStart := offset + int(dataSize)
	if dirStart+2 > footerOff {
		return nil, rawerr.New(rawerr.DecoderFailed, "ciff: directory count out of range")
	}
	count := int(bytesio.LittleEndian.Uint16At(r.buf, dirStart))
	if count > maxEntries {
		return nil, rawerr.Newf(rawerr.DecoderFailed, "ciff: directory has %d entries, exceeding the bound of %d", count, maxEntries)
	}

	recordsStart := dirStart + 2
	if recordsStart+count*entryLen > footerOff {
		return nil, rawerr.New(rawerr.DecoderFailed, "ciff: directory records run past the value-data footer")
	}

	dir := &Dir{Entries: make([]Entry, 0, count)}
	for i := 0; i < count; i++ {
		rec := r.buf[recordsStart+i*entryLen : recordsStart+(i+1)*entryLen]
		tag := bytesio.LittleEndian.Uint16At(rec, 0)
		size := bytesio.LittleEndian.Uint32At(rec, 2)
		valueOffset := bytesio.LittleEndian.Uint32At(rec, 6)

		entry := Entry{Tag: tag, Type: tag & 0x3800, Size: size}

		var valueAbs int
		var valueLen int
		if tag&0x8000 != 0 {
			// Inline value: "size"/"offset" fields are the 8 inline bytes
			// themselves, addressed within the record.
			valueAbs = recordsStart + i*entryLen + 2
			valueLen = 8
		} else {
			entry.Offset = valueOffset
			valueAbs = offset + int(valueOffset)
			valueLen = int(size)
		}
		if valueAbs < 0 || valueAbs+valueLen > len(r.buf) {
			return nil, rawerr.New(rawerr.DecoderFailed, "ciff: entry value out of range")
		}
		entry.data = r.buf[valueAbs : valueAbs+valueLen]

		if entry.Type == TypeSubHeap1 || entry.Type == TypeSubHeap2 {
			sub, err := r.readHeap(offset+int(valueOffset), int(size), depth+1)
			if err != nil {
				return nil, err
			}
			entry.Children = []*Dir{sub}
		}

		dir.Entries = append(dir.Entries, entry)
	}
	return dir, nil
}
