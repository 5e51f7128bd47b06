package tiff

import (
	"bufio"
	"io"

	"github.com/rawdng/rawdng/rawerr"
)

type byteReader interface {
	io.Reader
	io.ByteReader
}

// UnpackBits decodes PackBits-compressed strip/tile data (TIFF spec
// section 9, p. 42). A few vendor TIFF-based containers fall back to
// PackBits for thumbnail or preview strips even though the raw plane
// itself never does.
func UnpackBits(r io.Reader) ([]byte, error) {
	var n int
	buf := make([]byte, 128)
	dst := make([]byte, 0, 1024)
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				return dst, nil
			}
			return nil, rawerr.Wrap(rawerr.IO, err, "tiff: packbits read failed")
		}
		code := int(int8(b))
		switch {
		case code >= 0:
			n, err = io.ReadFull(br, buf[:code+1])
			if err != nil {
				return nil, rawerr.Wrap(rawerr.IO, err, "tiff: packbits literal run truncated")
			}
			dst = append(dst, buf[:n]...)
		case code == -128:
			// No-op marker.
		default:
			if b, err = br.ReadByte(); err != nil {
				return nil, rawerr.Wrap(rawerr.IO, err, "tiff: packbits replicate run truncated")
			}
			for j := 0; j < 1-code; j++ {
				buf[j] = b
			}
			dst = append(dst, buf[:1-code]...)
		}
	}
}
