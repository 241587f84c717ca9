package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/oshokin/app-starter/internal/logger"
)

const (
	// DefaultDirMode is used for directories created during extraction.
	DefaultDirMode os.FileMode = 0o755
	// DefaultFileMode is used for files whose header carries no permission bits.
	DefaultFileMode os.FileMode = 0o644
)

// Extract decompresses and untars r into destination, stripping the first
// path segment of every entry. It returns once every entry has been written.
//
// Files already written are left in place when extraction fails.
func Extract(ctx context.Context, r io.Reader, destination string) (err error) {
	root, err := filepath.Abs(destination)
	if err != nil {
		return &UnpackError{Err: err}
	}

	if err = os.MkdirAll(root, DefaultDirMode); err != nil {
		return &UnpackError{Err: fmt.Errorf("create destination: %w", err)}
	}

	decompressor, err := newDecompressor(r)
	if err != nil {
		return &DecompressionError{Err: err}
	}

	defer func() {
		err = multierr.Append(err, decompressor.Close())
	}()

	stage := &stageReader{ctx: ctx, r: decompressor}
	tr := tar.NewReader(stage)
	entries := 0

	for {
		header, nextErr := tr.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}

		if nextErr != nil {
			return classify(ctx, stage, "", nextErr)
		}

		written, entryErr := extractEntry(root, header, tr)
		if entryErr != nil {
			return classify(ctx, stage, header.Name, entryErr)
		}

		if written {
			entries++
		}
	}

	// Read the rest of the compressed stream so its checksum is verified.
	if _, err = io.Copy(io.Discard, stage); err != nil {
		return classify(ctx, stage, "", err)
	}

	logger.DebugKV(ctx, "Extracted archive", "destination", root, "entries", entries)

	return nil
}

// classify turns an error seen while reading or writing an entry into the
// most specific error of the pipeline.
func classify(ctx context.Context, stage *stageReader, entry string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return ctxErr
	}

	if stage.err != nil {
		return &DecompressionError{Err: stage.err}
	}

	return &UnpackError{Entry: entry, Err: err}
}

// extractEntry writes a single entry below root. It reports false for
// entries that were skipped.
func extractEntry(root string, header *tar.Header, tr io.Reader) (bool, error) {
	relative, ok := stripFirstSegment(header.Name)
	if !ok {
		return false, nil
	}

	target, err := resolve(root, relative)
	if err != nil {
		return false, err
	}

	if err = checkParents(root, target); err != nil {
		return false, err
	}

	switch header.Typeflag {
	case tar.TypeDir:
		return true, os.MkdirAll(target, DefaultDirMode)
	case tar.TypeReg, tar.TypeRegA: //nolint:staticcheck // Old archivers still emit TypeRegA.
		return true, writeFile(target, fileMode(header), tr)
	case tar.TypeSymlink:
		return true, writeSymlink(root, target, header.Linkname)
	case tar.TypeLink:
		return true, writeHardLink(root, target, header.Linkname)
	default:
		// Devices, FIFOs and PAX global headers carry nothing a project needs.
		return false, nil
	}
}

// stripFirstSegment drops the top-level folder of an archive path.
// Entries that are the folder itself, or live at the top level, are skipped.
func stripFirstSegment(name string) (string, bool) {
	name = strings.TrimPrefix(filepath.ToSlash(name), "./")

	_, rest, found := strings.Cut(name, "/")
	if !found {
		return "", false
	}

	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", false
	}

	return rest, true
}

// resolve joins a stripped archive path onto root, refusing paths that escape it.
func resolve(root, relative string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(relative))

	if !isWithin(root, target) {
		return "", fmt.Errorf("%s: %w", relative, ErrUnsafePath)
	}

	return target, nil
}

// checkParents refuses targets whose existing parent folders below root are
// symlinks. Earlier entries of the same archive may have created them.
func checkParents(root, target string) error {
	rel, err := filepath.Rel(root, filepath.Dir(target))
	if err != nil {
		return err
	}

	if rel == "." {
		return nil
	}

	current := root

	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		current = filepath.Join(current, part)

		info, err := os.Lstat(current)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		if err != nil {
			return err
		}

		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%s is a symlink: %w", current, ErrUnsafePath)
		}
	}

	return nil
}

func isWithin(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func fileMode(header *tar.Header) os.FileMode {
	mode := header.FileInfo().Mode().Perm()
	if mode == 0 {
		return DefaultFileMode
	}

	return mode
}

func writeFile(target string, mode os.FileMode, r io.Reader) (err error) {
	if err = os.MkdirAll(filepath.Dir(target), DefaultDirMode); err != nil {
		return err
	}

	// Replace a symlink left by an earlier entry instead of writing through it.
	if info, statErr := os.Lstat(target); statErr == nil && info.Mode()&os.ModeSymlink != 0 {
		if err = os.Remove(target); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	defer func() {
		err = multierr.Append(err, file.Close())
	}()

	_, err = io.Copy(file, r)

	return err
}

func writeSymlink(root, target, linkname string) error {
	if filepath.IsAbs(linkname) || !isWithin(root, filepath.Join(filepath.Dir(target), linkname)) {
		return fmt.Errorf("link to %s: %w", linkname, ErrUnsafePath)
	}

	if err := os.MkdirAll(filepath.Dir(target), DefaultDirMode); err != nil {
		return err
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return os.Symlink(linkname, target)
}

func writeHardLink(root, target, linkname string) error {
	relative, ok := stripFirstSegment(linkname)
	if !ok {
		return fmt.Errorf("link to %s: %w", linkname, ErrUnsafePath)
	}

	source, err := resolve(root, relative)
	if err != nil {
		return err
	}

	if err = checkParents(root, source); err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(target), DefaultDirMode); err != nil {
		return err
	}

	if err = os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	return os.Link(source, target)
}
