// Package packed decodes the family of tightly packed integer raw formats:
// plain 8/10/12/14/16-bit samples at either bit order, the 12-bit "2
// control bytes per 10 pixels" layout several Nikon/Pentax bodies use, and
// the MSB32-word variants Fuji and Olympus pack their 12-bit data into.
package packed

import (
	"github.com/rawdng/rawdng/internal/bytesio"
	"github.com/rawdng/rawdng/internal/workpool"
	"github.com/rawdng/rawdng/rawerr"
)

// Align selects whether a sub-16-bit sample is packed into the low bits or
// the high bits of its containing slot.
type Align int

const (
	AlignRight Align = iota // sample occupies the low BitWidth bits
	AlignLeft                // sample occupies the high BitWidth bits
)

// Options configures one packed-stream decode.
type Options struct {
	Width, Height int
	BitWidth      int // 8, 10, 12, 14, or 16
	BigEndian     bool
	Align         Align

	// ControlBytes enables the 12-bit layout where every group of 10
	// pixels is preceded by 2 discarded control bytes.
	ControlBytes bool

	// Interlaced splits the output into two fields (even/odd rows) stored
	// back to back in the source, optionally with the second field
	// realigned to a fixed byte boundary.
	Interlaced      bool
	Field2Alignment int // 0 disables alignment padding

	// MSB32 decodes via bytesio.MSB32Pump instead of a plain bit-width
	// reader, used by Fuji's "jpeg32" packing and Olympus 12BE.
	MSB32 bool
}

// Decode unpacks src into a row-major uint16 plane per opts, fanning rows
// out across pool. Reads past the logical end of a row's slice return zero
// bits rather than failing, per the pumps' padded-tail contract; decode
// only fails when a required byte range falls entirely outside src.
func Decode(pool *workpool.Pool, src []byte, opts Options) ([]uint16, error) {
	if opts.BitWidth <= 0 || opts.BitWidth > 16 {
		return nil, rawerr.Newf(rawerr.DecoderFailed, "packed: unsupported bit width %d", opts.BitWidth)
	}
	out := make([]uint16, opts.Width*opts.Height)

	if opts.ControlBytes {
		return out, decodeControlBytes(src, opts, out)
	}

	rowStride := (opts.Width*opts.BitWidth + 7) / 8
	if opts.Interlaced {
		return out, decodeInterlaced(pool, src, opts, rowStride, out)
	}

	err := workpool.Run(pool, opts.Height, 16, func(start, end int) error {
		for row := start; row < end; row++ {
			lo, hi := row*rowStride, (row+1)*rowStride
			if lo >= len(src) {
				return rawerr.New(rawerr.DecoderFailed, "packed: truncated stream")
			}
			if hi > len(src) {
				hi = len(src)
			}
			decodeRow(src[lo:hi], opts, out[row*opts.Width:(row+1)*opts.Width])
		}
		return nil
	})
	return out, err
}

func decodeRow(src []byte, opts Options, dstRow []uint16) {
	var pump bytesio.BitPump
	if opts.MSB32 {
		pump = bytesio.NewMSB32Pump(src)
	} else if opts.BigEndian {
		pump = bytesio.NewMSBPump(src)
	} else {
		pump = bytesio.NewLSBPump(src)
	}

	shift := uint(0)
	if opts.Align == AlignLeft && opts.BitWidth < 16 {
		shift = uint(16 - opts.BitWidth)
	}
	for i := range dstRow {
		dstRow[i] = uint16(pump.Get(uint(opts.BitWidth))) << shift
	}
}

func decodeInterlaced(pool *workpool.Pool, src []byte, opts Options, rowStride int, out []uint16) error {
	fieldRows := (opts.Height + 1) / 2
	field1 := src
	field2Offset := fieldRows * rowStride
	if opts.Field2Alignment > 0 {
		field2Offset = ((field2Offset + opts.Field2Alignment - 1) / opts.Field2Alignment) * opts.Field2Alignment
	}
	if field2Offset > len(src) {
		return rawerr.New(rawerr.DecoderFailed, "packed: truncated stream before second field")
	}
	field2 := src[field2Offset:]

	return workpool.Run(pool, opts.Height, 16, func(start, end int) error {
		for row := start; row < end; row++ {
			var fieldSrc []byte
			var fieldRow int
			if row%2 == 0 {
				fieldSrc, fieldRow = field1, row/2
			} else {
				fieldSrc, fieldRow = field2, row/2
			}
			off := fieldRow * rowStride
			if off >= len(fieldSrc) {
				return rawerr.New(rawerr.DecoderFailed, "packed: truncated stream in interlaced field")
			}
			end := off + rowStride
			if end > len(fieldSrc) {
				end = len(fieldSrc)
			}
			decodeRow(fieldSrc[off:end], opts, out[row*opts.Width:(row+1)*opts.Width])
		}
		return nil
	})
}

// decodeControlBytes handles the 12-bit layout where every group of 10
// pixels is preceded by 2 discarded control bytes, all packed at 12 bits
// per sample little-endian.
func decodeControlBytes(src []byte, opts Options, out []uint16) error {
	const groupPixels = 10
	pos := 0
	idx := 0
	for idx < len(out) {
		if pos+2 > len(src) {
			return rawerr.New(rawerr.DecoderFailed, "packed: truncated control-byte group header")
		}
		pos += 2 // discard the two control bytes
		n := groupPixels
		if idx+n > len(out) {
			n = len(out) - idx
		}
		groupBytes := (n*12 + 7) / 8
		if pos >= len(src) {
			return rawerr.New(rawerr.DecoderFailed, "packed: truncated control-byte group data")
		}
		end := pos + groupBytes
		if end > len(src) {
			end = len(src)
		}
		pump := bytesio.NewLSBPump(src[pos:end])
		for i := 0; i < n; i++ {
			out[idx+i] = uint16(pump.Get(12))
		}
		pos += groupBytes
		idx += n
	}
	return nil
}
