package project

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/oshokin/app-starter/internal/domain/template"
	"github.com/oshokin/app-starter/internal/logger"
	"github.com/oshokin/app-starter/internal/repository/jsonfile"
)

const (
	// ManifestFilename is the package manifest generated by a template.
	ManifestFilename = "package.json"
	// PatchFilename is the overlay merged onto the manifest and then removed.
	PatchFilename = "patch.package.json"
	// ConfigFilename is the project config written after extraction.
	ConfigFilename = "ionic.config.json"

	// DefaultVersion is the version every new project starts at.
	DefaultVersion = "0.0.1"
	// DefaultDescription replaces the template's own description.
	DefaultDescription = "An Ionic project"
)

var (
	// ErrInvalidManifest is returned when a manifest or its overlay cannot be used.
	ErrInvalidManifest = errors.New("is not valid JSON")
	// ErrManifestNotFound is returned when the manifest to rename does not exist.
	ErrManifestNotFound = errors.New("not found")
)

// Config is the project config document.
type Config struct {
	Name  string `json:"name"`
	AppID string `json:"app_id"`
	Type  string `json:"type"`
}

// PatchManifest merges patch.package.json onto package.json in destination,
// writes the result back and removes the overlay.
//
// A missing overlay is the common case and leaves package.json untouched.
// Removing the overlay is best-effort: a failure is logged and never
// returned, because the merged manifest is already in place by then.
func PatchManifest(ctx context.Context, destination string) error {
	var (
		manifest = jsonfile.NewFileRepository(filepath.Join(destination, ManifestFilename))
		patch    = jsonfile.NewFileRepository(filepath.Join(destination, PatchFilename))
	)

	base, err := manifest.Load(ctx)
	if err != nil {
		switch {
		// A missing manifest is reported the same way as a broken one.
		case errors.Is(err, jsonfile.ErrNotFound), errors.Is(err, jsonfile.ErrInvalidJSON):
			return fmt.Errorf("%s %w: %w", manifest.Path(), ErrInvalidManifest, err)
		default:
			return err
		}
	}

	overlay, err := patch.Load(ctx)
	if err != nil {
		switch {
		case errors.Is(err, jsonfile.ErrNotFound):
			logger.DebugKV(ctx, "No manifest patch to apply", "path", patch.Path())
			return nil
		case errors.Is(err, jsonfile.ErrInvalidJSON):
			return fmt.Errorf("%s %w: %w", patch.Path(), ErrInvalidManifest, err)
		default:
			return err
		}
	}

	if err = manifest.Save(ctx, Merge(base, overlay)); err != nil {
		return err
	}

	logger.DebugKV(ctx, "Applied manifest patch", "path", manifest.Path())

	if err = patch.Remove(ctx); err != nil {
		logger.WarnKV(ctx, "Could not remove manifest patch", "path", patch.Path(), "error", err)
	}

	return nil
}

// RenameManifest sets the name, version and description of package.json in destination.
func RenameManifest(ctx context.Context, appName, destination string) error {
	manifest := jsonfile.NewFileRepository(filepath.Join(destination, ManifestFilename))

	document, err := manifest.Load(ctx)
	if err != nil {
		switch {
		case errors.Is(err, jsonfile.ErrNotFound):
			return fmt.Errorf("%s %w: %w", manifest.Path(), ErrManifestNotFound, err)
		case errors.Is(err, jsonfile.ErrInvalidJSON):
			return fmt.Errorf("%s %w: %w", manifest.Path(), ErrInvalidManifest, err)
		default:
			return err
		}
	}

	document["name"] = appName
	document["version"] = DefaultVersion
	document["description"] = DefaultDescription

	return manifest.Save(ctx, document)
}

// WriteProjectConfig writes ionic.config.json to destination, replacing any existing file.
func WriteProjectConfig(ctx context.Context, appName string, starterType template.Type, destination, cloudAppID string) error {
	config := jsonfile.NewFileRepository(filepath.Join(destination, ConfigFilename))

	return config.Save(ctx, &Config{
		Name:  appName,
		AppID: cloudAppID,
		Type:  starterType.ID,
	})
}
