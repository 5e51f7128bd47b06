package tiff

import (
	"fmt"
	"math"
	"math/big"

	"github.com/rawdng/rawdng/internal/bytesio"
)

// Entry is one typed IFD record. Exactly one of the accessor-compatible
// fields is meaningful, selected by Type.
type Entry struct {
	Tag   uint16
	Type  uint16
	Count uint32

	raw   []byte
	order bytesio.Endian
}

// Int returns the entry's values widened to int64, valid for Byte, Short,
// Long, SByte, SShort and SLong entries.
func (e Entry) Int() []int64 {
	out := make([]int64, e.Count)
	for i := range out {
		out[i] = e.intAt(i)
	}
	return out
}

func (e Entry) intAt(i int) int64 {
	switch e.Type {
	case DTByte, DTUndefined:
		return int64(e.raw[i])
	case DTSByte:
		return int64(int8(e.raw[i]))
	case DTShort:
		return int64(e.order.Uint16At(e.raw, i*2))
	case DTSShort:
		return int64(int16(e.order.Uint16At(e.raw, i*2)))
	case DTLong:
		return int64(e.order.Uint32At(e.raw, i*4))
	case DTSLong:
		return int64(int32(e.order.Uint32At(e.raw, i*4)))
	default:
		return 0
	}
}

// Rat returns the i-th value as a rational, valid for Rational and
// SRational entries.
func (e Entry) Rat(i int) *big.Rat {
	switch e.Type {
	case DTRational:
		n := e.order.Uint32At(e.raw, i*8)
		d := e.order.Uint32At(e.raw, i*8+4)
		if d == 0 {
			return big.NewRat(0, 1)
		}
		return new(big.Rat).SetFrac(big.NewInt(int64(n)), big.NewInt(int64(d)))
	case DTSRational:
		n := int32(e.order.Uint32At(e.raw, i*8))
		d := int32(e.order.Uint32At(e.raw, i*8+4))
		if d == 0 {
			return big.NewRat(0, 1)
		}
		return new(big.Rat).SetFrac(big.NewInt(int64(n)), big.NewInt(int64(d)))
	default:
		return big.NewRat(0, 1)
	}
}

// Float returns the i-th value as a float64, for any numeric type.
func (e Entry) Float(i int) float64 {
	switch e.Type {
	case DTFloat:
		bits := e.order.Uint32At(e.raw, i*4)
		return float64(math.Float32frombits(bits))
	case DTDouble:
		bits := e.order.Uint64At(e.raw, i*8)
		return math.Float64frombits(bits)
	case DTRational, DTSRational:
		f, _ := e.Rat(i).Float64()
		return f
	default:
		return float64(e.intAt(i))
	}
}

// ASCII returns the entry's bytes as a NUL-trimmed string, valid for ASCII
// entries.
func (e Entry) ASCII() string {
	b := e.raw
	for i, c := range b {
		if c == 0 {
			b = b[:i]
			break
		}
	}
	return string(b)
}

// Bytes returns the raw bytes backing an Undefined entry.
func (e Entry) Bytes() []byte { return e.raw }

// First returns the first value as int64, or 0 if the entry is empty.
func (e Entry) First() int64 {
	if e.Count == 0 {
		return 0
	}
	return e.intAt(0)
}

func (e Entry) String() string {
	return fmt.Sprintf("tag=%d type=%d count=%d", e.Tag, e.Type, e.Count)
}
