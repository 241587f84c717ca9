package starter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/oshokin/app-starter/internal/archive"
	"github.com/oshokin/app-starter/internal/config"
	"github.com/oshokin/app-starter/internal/fetcher"
	"github.com/oshokin/app-starter/internal/logger"
	"github.com/oshokin/app-starter/internal/project"
)

// defaultDirMode is used for the project directory.
const defaultDirMode os.FileMode = 0o755

var (
	errInvalidName       = errors.New("invalid project name")
	errUnsafeDestination = errors.New("destination contains files that could conflict with the template")
)

// Options are inputs accepted by the start command.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Name is the application name written to package.json and ionic.config.json.
	Name string
	// Template is the starter name, for example "blank".
	Template string
	// Type is the starter type id; empty selects the catalog default.
	Type string
	// Destination is the project directory; empty uses Name in the working directory.
	Destination string
	// AppID is the cloud application id written to ionic.config.json.
	AppID string
	// Force skips the destination safety check.
	Force bool
	// Out receives the final instructions; defaults to os.Stdout.
	Out io.Writer
	// Fetcher overrides the downloader built from the settings.
	Fetcher *fetcher.Fetcher
}

// Run creates a new project from a starter template.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "start")

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}

	if !project.IsValidName(opts.Name) {
		return fmt.Errorf("%q: %w", opts.Name, errInvalidName)
	}

	destination, err := resolveDestination(opts)
	if err != nil {
		return err
	}

	ctx = logger.WithKV(ctx, "destination", destination)

	starter, err := cfg.Templates.Find(opts.Template, opts.Type)
	if err != nil {
		return err
	}

	starterType, err := cfg.Templates.FindType(starter.Type)
	if err != nil {
		return err
	}

	archiveURL, err := cfg.Templates.ArchiveURL(starter)
	if err != nil {
		return err
	}

	if err = prepareDestination(ctx, destination, opts.Force); err != nil {
		return err
	}

	download := opts.Fetcher
	if download == nil {
		download = fetcher.New(
			fetcher.WithTimeout(cfg.Timeout),
			fetcher.WithProgress(progressLogger(ctx)),
		)
	}

	if err = download.FetchAndExtract(ctx, archiveURL, destination); err != nil {
		return fmt.Errorf("fetch template %s: %w", starter.Name, err)
	}

	logger.Info(ctx, "Updating package.json")

	if err = project.PatchManifest(ctx, destination); err != nil {
		return err
	}

	if err = project.RenameManifest(ctx, opts.Name, destination); err != nil {
		return err
	}

	if err = project.WriteProjectConfig(ctx, opts.Name, *starterType, destination, opts.AppID); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Project created", "name", opts.Name, "template", starter.Name, "type", starterType.ID)

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	_, err = fmt.Fprint(out, HelloText(destination))

	return err
}

// ListTemplates writes the starter catalog to out.
func ListTemplates(configPath string, out io.Writer) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(out, TemplateListText(cfg.Templates.Starters))

	return err
}

// Extract unpacks a local archive, or stdin when source is "-", into destination.
func Extract(ctx context.Context, source, destination string) error {
	ctx = logger.WithName(ctx, "extract")

	destination, err := homedir.Expand(destination)
	if err != nil {
		return fmt.Errorf("expand destination: %w", err)
	}

	var reader io.Reader = os.Stdin

	if source != "-" {
		if source, err = homedir.Expand(source); err != nil {
			return fmt.Errorf("expand archive path: %w", err)
		}

		file, err := os.Open(filepath.Clean(source))
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}

		defer func() {
			_ = file.Close()
		}()

		reader = file
	}

	logger.InfoKV(ctx, "Extracting archive", "source", source, "destination", destination)

	return archive.Extract(ctx, reader, destination)
}

// resolveDestination expands ~ and makes the project directory absolute.
func resolveDestination(opts *Options) (string, error) {
	destination := opts.Destination
	if destination == "" {
		destination = opts.Name
	}

	destination, err := homedir.Expand(destination)
	if err != nil {
		return "", fmt.Errorf("expand destination: %w", err)
	}

	return filepath.Abs(destination)
}

// prepareDestination creates the project directory and refuses to reuse a
// populated one unless forced.
func prepareDestination(ctx context.Context, destination string, force bool) error {
	if err := os.MkdirAll(destination, defaultDirMode); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	safe, err := project.IsDestinationSafe(destination)
	if err != nil {
		return err
	}

	if safe {
		return nil
	}

	if !force {
		return fmt.Errorf("%s: %w; use --force to extract anyway", destination, errUnsafeDestination)
	}

	logger.Warnf(ctx, "%s is not empty, template files may overwrite existing ones", destination)

	return nil
}
