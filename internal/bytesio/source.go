// Package bytesio provides the byte-level primitives shared by every
// container parser and codec: an arbitrary-offset RawSource abstraction,
// endian-aware integer reads, bit pumps, and a dithering lookup table.
package bytesio

import (
	"io"
	"io/ioutil"

	"github.com/pkg/errors"
)

// padding is the number of zero bytes guaranteed to exist past the logical
// end of a Padded() slice, so bit pumps can speculatively read past the
// last valid byte without branching on every consume.
const padding = 16

// RawSource is the single I/O abstraction used by every decoder codepath.
// All decode happens against in-memory slices; RawSource only governs how
// those slices are obtained from the backing file or buffer.
//
//go:generate mockgen -destination=./mocks/rawsource_mock.go -package=bytesio_test github.com/rawdng/rawdng/internal/bytesio RawSource
type RawSource interface {
	// Slice returns the n bytes at the given offset.
	Slice(offset, n int) ([]byte, error)
	// ReadAll returns the entire source.
	ReadAll() ([]byte, error)
	// Padded returns the n bytes at offset, followed by `padding` zero
	// bytes, even if that runs past the logical end of the source.
	Padded(offset, n int) ([]byte, error)
	// Len returns the logical length of the source.
	Len() int
}

// MemSource is a RawSource backed by an in-memory buffer.
type MemSource struct {
	buf []byte
}

// NewMemSource wraps an in-memory buffer as a RawSource.
func NewMemSource(buf []byte) *MemSource {
	return &MemSource{buf: buf}
}

// Len implements RawSource.
func (s *MemSource) Len() int { return len(s.buf) }

// Slice implements RawSource.
func (s *MemSource) Slice(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > len(s.buf) {
		return nil, errors.Errorf("bytesio: slice [%d:%d] out of range (len %d)", offset, offset+n, len(s.buf))
	}
	return s.buf[offset : offset+n], nil
}

// ReadAll implements RawSource.
func (s *MemSource) ReadAll() ([]byte, error) { return s.buf, nil }

// Padded implements RawSource.
func (s *MemSource) Padded(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 {
		return nil, errors.Errorf("bytesio: padded [%d:%d] has negative bound", offset, n)
	}
	out := make([]byte, n+padding)
	end := offset + n
	if end > len(s.buf) {
		end = len(s.buf)
	}
	if offset < end {
		copy(out, s.buf[offset:end])
	}
	return out, nil
}

// FileSource is a RawSource backed by an io.ReaderAt (typically *os.File).
type FileSource struct {
	r    io.ReaderAt
	size int
}

// NewFileSource wraps r, which must expose size bytes, as a RawSource.
func NewFileSource(r io.ReaderAt, size int) *FileSource {
	return &FileSource{r: r, size: size}
}

// Len implements RawSource.
func (s *FileSource) Len() int { return s.size }

// Slice implements RawSource.
func (s *FileSource) Slice(offset, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := s.r.ReadAt(buf, int64(offset)); err != nil {
		return nil, errors.Wrap(err, "bytesio: read failed")
	}
	return buf, nil
}

// ReadAll implements RawSource.
func (s *FileSource) ReadAll() ([]byte, error) {
	if rr, ok := s.r.(io.Reader); ok {
		return ioutil.ReadAll(rr)
	}
	return s.Slice(0, s.size)
}

// Padded implements RawSource.
func (s *FileSource) Padded(offset, n int) ([]byte, error) {
	out := make([]byte, n+padding)
	end := offset + n
	if end > s.size {
		end = s.size
	}
	if offset < end {
		if _, err := s.r.ReadAt(out[:end-offset], int64(offset)); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "bytesio: padded read failed")
		}
	}
	return out, nil
}
