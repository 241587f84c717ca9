package fetcher

import "io"

// UnknownTotal is passed as the total when the server sends no Content-Length.
const UnknownTotal int64 = -1

// ProgressFunc receives the bytes downloaded so far and the expected total
// (UnknownTotal when the length is not declared). It is called once per
// received chunk, without throttling.
type ProgressFunc func(loaded, total int64)

// bodyReader counts the response body, reports progress and remembers read
// failures so they can be told apart from a closed pipe on the write side.
type bodyReader struct {
	r        io.Reader
	loaded   int64
	total    int64
	progress ProgressFunc
	err      error
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)

	if n > 0 {
		b.loaded += int64(n)
		if b.progress != nil {
			b.progress(b.loaded, b.total)
		}
	}

	if err != nil && err != io.EOF { //nolint:errorlint // io.EOF is returned unwrapped by contract.
		b.err = err
	}

	return n, err
}
