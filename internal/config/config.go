package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/app-starter/internal/domain/template"
	"github.com/oshokin/app-starter/internal/logger"
)

// Config holds the settings shared by the app-starter commands.
type Config struct {
	// Timeout bounds a whole template download, including extraction.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is the minimum level of log messages (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
	// Templates is the starter template catalog.
	Templates template.Catalog `yaml:"templates"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "app-starter.yaml"

	// DefaultTimeout is the client-side timeout of a template download (900 000 ms).
	DefaultTimeout = 15 * time.Minute

	// DefaultArchiveBaseURL hosts the official starter archives.
	DefaultArchiveBaseURL = "https://d2ql0qc7j8u4b2.cloudfront.net"

	// DefaultFilePermissions is the default file permission for settings files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInvalidLogLevel is returned for log levels ParseLogLevel does not know.
	errInvalidLogLevel = errors.New("invalid log level")
	// errIncompleteStarter is returned when a catalog entry lacks a name or a type.
	errIncompleteStarter = errors.New("starter template must have a name and a type")
)

// Default returns settings with the built-in starter catalog.
func Default() *Config {
	return &Config{
		Timeout:  DefaultTimeout,
		LogLevel: "info",
		Templates: template.Catalog{
			ArchiveBaseURL: DefaultArchiveBaseURL,
			DefaultType:    "ionic-angular",
			Types: []template.Type{
				{ID: "ionic-angular", Name: "Ionic Angular"},
				{ID: "ionic1", Name: "Ionic 1"},
			},
			Starters: []template.Starter{
				{Name: "tabs", Type: "ionic-angular", Description: "A starting project with a simple tabbed interface"},
				{Name: "blank", Type: "ionic-angular", Description: "A blank starter project"},
				{Name: "sidemenu", Type: "ionic-angular", Description: "A starting project with a side menu with navigation in the content area"},
				{Name: "super", Type: "ionic-angular", Description: "A starting project complete with pre-built pages, providers and best practices"},
				{Name: "conference", Type: "ionic-angular", Description: "A project that demonstrates a realworld application"},
				{Name: "tutorial", Type: "ionic-angular", Description: "A tutorial based project that goes along with the docs"},
				{Name: "blank", Type: "ionic1", Description: "A blank starter project for Ionic 1"},
				{Name: "tabs", Type: "ionic1", Description: "A starting project for Ionic 1 using a simple tabbed interface"},
				{Name: "sidemenu", Type: "ionic1", Description: "A starting project for Ionic 1 using a side menu"},
			},
		},
	}
}

// Load reads configuration from the provided path and validates essential fields.
// Missing fields fall back to Default values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns Default settings when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}

	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return Default(), nil
}

// Save writes Config to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings and fills in defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%q: %w", cfg.LogLevel, errInvalidLogLevel)
	}

	if cfg.Templates.ArchiveBaseURL == "" {
		cfg.Templates.ArchiveBaseURL = DefaultArchiveBaseURL
	}

	if _, err := url.ParseRequestURI(cfg.Templates.ArchiveBaseURL); err != nil {
		return fmt.Errorf("invalid archive base URL: %w", err)
	}

	for _, starter := range cfg.Templates.Starters {
		if starter.Name == "" || starter.Type == "" {
			return fmt.Errorf("%+v: %w", starter, errIncompleteStarter)
		}

		if starter.Archive == "" {
			continue
		}

		if _, err := url.ParseRequestURI(starter.Archive); err != nil {
			return fmt.Errorf("invalid archive URL for starter %s: %w", starter.Name, err)
		}
	}

	return nil
}
