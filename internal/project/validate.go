package project

import (
	"fmt"
	"os"
)

// safeEntries are the only entries a destination may contain before a
// template is extracted into it.
//
//nolint:gochecknoglobals // Read-only lookup table.
var safeEntries = map[string]struct{}{
	".DS_Store":  {},
	"Thumbs.db":  {},
	".git":       {},
	".gitignore": {},
	".idea":      {},
	"README.md":  {},
	"LICENSE":    {},
}

// IsValidName reports whether name can be used as a project name.
// Only the current directory marker is rejected.
func IsValidName(name string) bool {
	return name != "."
}

// IsDestinationSafe reports whether every entry of root is VCS, OS or editor
// metadata, a README or a LICENSE. An empty directory is safe.
// The answer is advisory: callers decide whether to refuse the extraction.
func IsDestinationSafe(root string) (bool, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return false, fmt.Errorf("read destination: %w", err)
	}

	for _, entry := range entries {
		if _, ok := safeEntries[entry.Name()]; !ok {
			return false, nil
		}
	}

	return true, nil
}
