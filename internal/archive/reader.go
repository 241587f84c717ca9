package archive

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// gzipMagic is the two-byte header of a gzip member.
var gzipMagic = []byte{0x1f, 0x8b} //nolint:gochecknoglobals // Constant byte sequence.

// newDecompressor sniffs the stream and returns a gzip or zlib reader for it.
func newDecompressor(r io.Reader) (io.ReadCloser, error) {
	buffered := bufio.NewReader(r)

	header, err := buffered.Peek(len(gzipMagic))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}

		return nil, err
	}

	if header[0] == gzipMagic[0] && header[1] == gzipMagic[1] {
		return gzip.NewReader(buffered)
	}

	return zlib.NewReader(buffered)
}

// stageReader wraps the decompressed stream. It remembers whether a read
// failed inside the decompressor, so that tar errors caused by corrupt
// compressed data are reported as decompression failures, and it stops
// reading once the context is done.
type stageReader struct {
	ctx context.Context //nolint:containedctx // Checked on every read of a single extraction.
	r   io.Reader
	err error
}

func (s *stageReader) Read(p []byte) (int, error) {
	if err := s.ctx.Err(); err != nil {
		return 0, err
	}

	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		s.err = err
	}

	return n, err
}
