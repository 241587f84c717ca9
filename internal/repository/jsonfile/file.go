package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"
)

// DefaultFileMode is used for JSON documents created by Save.
const DefaultFileMode os.FileMode = 0o644

var (
	// ErrNotFound is returned when the document does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrInvalidJSON is returned when the document is not a JSON object.
	ErrInvalidJSON = errors.New("invalid JSON")
)

// Document is a generic JSON object.
type Document = map[string]any

// Repository defines persistence operations for a single JSON document.
type Repository interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, document any) error
	Remove(ctx context.Context) error
}

// FileRepository persists a JSON document to a file on disk.
type FileRepository struct {
	// path is the filesystem location of the JSON document.
	path string
}

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the location of the document.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the document from disk.
func (r *FileRepository) Load(_ context.Context) (Document, error) {
	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", r.path, ErrNotFound)
		}

		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	// Numbers stay json.Number so large integers survive a rewrite.
	decoder := json.NewDecoder(bytes.NewReader(contents))
	decoder.UseNumber()

	var document Document
	if err = decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", r.path, ErrInvalidJSON, err)
	}

	if _, err = decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w: trailing data after the object", r.path, ErrInvalidJSON)
	}

	// A literal null decodes without error.
	if document == nil {
		return nil, fmt.Errorf("%s: %w: not an object", r.path, ErrInvalidJSON)
	}

	return document, nil
}

// Save encodes the document as indented UTF-8 JSON and atomically replaces the file.
// An existing file keeps its permissions.
func (r *FileRepository) Save(_ context.Context, document any) error {
	var buffer bytes.Buffer

	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(document); err != nil {
		return fmt.Errorf("encode %s: %w", r.path, err)
	}

	mode := DefaultFileMode
	created := false

	// The updater renames the current file away before moving the new one in,
	// so the target has to exist.
	info, err := os.Stat(r.path)

	switch {
	case err == nil:
		mode = info.Mode().Perm()
	case errors.Is(err, os.ErrNotExist):
		if err = os.WriteFile(r.path, nil, mode); err != nil {
			return fmt.Errorf("create %s: %w", r.path, err)
		}

		created = true
	default:
		return fmt.Errorf("stat %s: %w", r.path, err)
	}

	options := goupdate.Options{
		TargetPath: r.path,
		TargetMode: mode,
	}

	if err = goupdate.Apply(&buffer, options); err != nil {
		if created {
			_ = os.Remove(r.path)
		}

		return fmt.Errorf("write %s: %w", r.path, err)
	}

	// Windows keeps the replaced file around as a hidden .old sibling.
	oldPath := filepath.Join(filepath.Dir(r.path), "."+filepath.Base(r.path)+".old")
	if _, err = os.Stat(oldPath); err == nil {
		_ = os.Remove(oldPath)
	}

	return nil
}

// Remove deletes the document.
func (r *FileRepository) Remove(_ context.Context) error {
	if err := os.Remove(r.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", r.path, ErrNotFound)
		}

		return fmt.Errorf("remove %s: %w", r.path, err)
	}

	return nil
}
