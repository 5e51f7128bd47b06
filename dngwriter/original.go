package dngwriter

import (
	"bytes"
	"compress/zlib"
	"crypto/md5"
	"encoding/binary"

	"github.com/rawdng/rawdng/internal/workpool"
)

const originalChunkSize = 1 << 20 // 1 MiB

// originalEmbed runs the source file's zlib compression on the writer's
// pool so it overlaps with the caller's own decode work; Close joins it
// via wait before patching the root directory.
type originalEmbed struct {
	name string
	done chan struct{}
	blob []byte
	sum  [md5.Size]byte
	err  error
}

// startOriginalEmbed breaks data into 1 MiB chunks, deflates each
// independently in parallel on pool, and assembles a header (chunk count
// + per-chunk compressed offsets) followed by the compressed payload, per
// spec.md §4.7's "Original embedding" layout. The MD5 digest is computed
// over the assembled blob (header + payload), matching
// OriginalRawFileDigest's role as an integrity check on what was written.
func startOriginalEmbed(pool *workpool.Pool, name string, data []byte) *originalEmbed {
	job := &originalEmbed{name: name, done: make(chan struct{})}
	go func() {
		defer close(job.done)

		n := (len(data) + originalChunkSize - 1) / originalChunkSize
		if n == 0 {
			n = 1
		}
		chunks := make([][]byte, n)
		err := workpool.Run(pool, n, 1, func(start, end int) error {
			for i := start; i < end; i++ {
				lo := i * originalChunkSize
				hi := lo + originalChunkSize
				if hi > len(data) {
					hi = len(data)
				}
				var buf bytes.Buffer
				zw := zlib.NewWriter(&buf)
				if _, werr := zw.Write(data[lo:hi]); werr != nil {
					return werr
				}
				if werr := zw.Close(); werr != nil {
					return werr
				}
				chunks[i] = buf.Bytes()
			}
			return nil
		})
		if err != nil {
			job.err = err
			return
		}

		header := make([]byte, 4+4*n)
		binary.LittleEndian.PutUint32(header, uint32(n))
		offset := uint32(len(header))
		for i, c := range chunks {
			binary.LittleEndian.PutUint32(header[4+4*i:], offset)
			offset += uint32(len(c))
		}

		blob := make([]byte, 0, offset)
		blob = append(blob, header...)
		for _, c := range chunks {
			blob = append(blob, c...)
		}

		job.blob = blob
		job.sum = md5.Sum(blob)
	}()
	return job
}

func (j *originalEmbed) wait() ([]byte, [md5.Size]byte, error) {
	<-j.done
	return j.blob, j.sum, j.err
}
