package ljpeg

import "github.com/rawdng/rawdng/rawerr"

// Encode writes samples (row-major, component-interleaved, cpp components)
// as a full SOI..EOI LJPEG stream at the given precision and predictor
// (1-8). Tiles are encoded independently by the caller; each call to
// Encode produces one self-contained stream.
func Encode(samples []uint16, width, height, cpp, precision, predictor int) ([]byte, error) {
	if len(samples) != width*height*cpp {
		return nil, rawerr.New(rawerr.General, "ljpeg: sample count does not match width*height*cpp")
	}
	if predictor < 1 || predictor > 8 {
		return nil, rawerr.Newf(rawerr.General, "ljpeg: invalid predictor %d", predictor)
	}

	table := defaultCategoryTable()

	buf := make([]byte, 0, len(samples)*2)
	buf = append(buf, 0xFF, markerSOI)
	buf = appendSOF3(buf, precision, width, height, cpp)
	buf = appendDHT(buf, table)
	buf = appendSOSHeader(buf, cpp, predictor)

	bw := newBitWriter()
	for r := 0; r < height; r++ {
		for c := 0; c < width; c++ {
			for k := 0; k < cpp; k++ {
				var px int32
				switch {
				case r == 0 && c == 0:
					px = int32(1) << uint(precision-1)
				case r == 0:
					px = int32(samples[(r*width+c-1)*cpp+k])
				case c == 0:
					px = int32(samples[((r-1)*width+c)*cpp+k])
				default:
					a := int32(samples[(r*width+c-1)*cpp+k])
					b := int32(samples[((r-1)*width+c)*cpp+k])
					cc := int32(samples[((r-1)*width+c-1)*cpp+k])
					px = predict(a, b, cc, predictor)
				}

				mask := int32(1)<<uint(precision) - 1
				v := int32(samples[(r*width+c)*cpp+k])
				diff := (v - px) & mask
				// Recover the signed residual in [-mask/2 .. mask/2] range
				// used by the Huffman category coding.
				if diff > mask>>1 {
					diff -= mask + 1
				}

				cat := category(diff)
				if cat > 16 {
					return nil, rawerr.New(rawerr.Overflow, "ljpeg: residual exceeds 16-bit category range")
				}
				code, ok := table.code[byte(cat)]
				if !ok {
					return nil, rawerr.New(rawerr.General, "ljpeg: no huffman code for category")
				}
				bw.writeBits(code, table.length[byte(cat)])
				if cat == 16 {
					bw.writeBits(0, 16)
				} else if cat > 0 {
					bw.writeBits(encodeValue(diff, cat), cat)
				}
			}
		}
	}
	entropy := bw.finish()
	buf = append(buf, entropy...)
	buf = append(buf, 0xFF, markerEOI)
	return buf, nil
}

func appendSOF3(buf []byte, precision, width, height, cpp int) []byte {
	length := 8 + 3*cpp
	hdr := make([]byte, length)
	putUint16BE(hdr, 0, length)
	hdr[2] = byte(precision)
	putUint16BE(hdr, 3, height)
	putUint16BE(hdr, 5, width)
	hdr[7] = byte(cpp)
	for i := 0; i < cpp; i++ {
		hdr[8+i*3] = byte(i + 1)
		hdr[8+i*3+1] = 0x11
		hdr[8+i*3+2] = 0
	}
	buf = append(buf, 0xFF, markerSOF3)
	return append(buf, hdr...)
}

func appendDHT(buf []byte, t *huffTable) []byte {
	length := 2 + 1 + 16 + len(t.vals)
	hdr := make([]byte, length)
	putUint16BE(hdr, 0, length)
	hdr[2] = 0
	for l := 1; l <= 16; l++ {
		hdr[2+l] = byte(t.bits[l])
	}
	copy(hdr[19:], t.vals)
	buf = append(buf, 0xFF, markerDHT)
	return append(buf, hdr...)
}

func appendSOSHeader(buf []byte, cpp, predictor int) []byte {
	length := 3 + 2*cpp + 3
	hdr := make([]byte, length)
	putUint16BE(hdr, 0, length)
	hdr[2] = byte(cpp)
	for i := 0; i < cpp; i++ {
		hdr[3+i*2] = byte(i + 1)
		hdr[3+i*2+1] = 0x00 // all components share DHT table 0
	}
	tail := 3 + 2*cpp
	hdr[tail] = byte(predictor) // Ss
	hdr[tail+1] = 0             // Se
	hdr[tail+2] = 0             // Ah/Al
	buf = append(buf, 0xFF, markerSOS)
	return append(buf, hdr...)
}

// bitWriter packs bits MSB-first into bytes, inserting a stuffed 0x00
// after every literal 0xFF byte per the JPEG entropy-coding convention.
type bitWriter struct {
	out  []byte
	acc  uint32
	nbit uint
}

func newBitWriter() *bitWriter { return &bitWriter{} }

func (w *bitWriter) writeBits(v uint32, n int) {
	if n <= 0 {
		return
	}
	w.acc = (w.acc << uint(n)) | (v & ((1 << uint(n)) - 1))
	w.nbit += uint(n)
	for w.nbit >= 8 {
		b := byte(w.acc >> (w.nbit - 8))
		w.out = append(w.out, b)
		if b == 0xFF {
			w.out = append(w.out, 0x00)
		}
		w.nbit -= 8
	}
}

func (w *bitWriter) finish() []byte {
	if w.nbit > 0 {
		b := byte(w.acc << (8 - w.nbit))
		w.out = append(w.out, b)
		if b == 0xFF {
			w.out = append(w.out, 0x00)
		}
		w.nbit = 0
	}
	return w.out
}
