package archive

import (
	"errors"
	"fmt"
)

// ErrUnsafePath is returned for entries that would land outside the destination.
var ErrUnsafePath = errors.New("entry escapes destination")

// DecompressionError reports a failure of the decompression stage.
type DecompressionError struct {
	Err error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("decompress archive: %v", e.Err)
}

func (e *DecompressionError) Unwrap() error {
	return e.Err
}

// UnpackError reports a failure of the unpacking stage, either a malformed
// tar stream or a filesystem write.
type UnpackError struct {
	// Entry is the archive path being unpacked, empty when the tar header itself failed.
	Entry string
	Err   error
}

func (e *UnpackError) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("unpack archive: %v", e.Err)
	}

	return fmt.Sprintf("unpack archive entry %s: %v", e.Entry, e.Err)
}

func (e *UnpackError) Unwrap() error {
	return e.Err
}
