package template

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

var (
	// ErrUnknownType is returned when a type id is not present in the catalog.
	ErrUnknownType = errors.New("unknown starter template type")
	// ErrUnknownStarter is returned when no starter matches the requested name and type.
	ErrUnknownStarter = errors.New("unknown starter template")
)

// Type identifies the kind of project a starter template produces.
type Type struct {
	// ID is written to the project config, for example "ionic-angular".
	ID string `yaml:"id"`
	// Name is the human-readable name of the type.
	Name string `yaml:"name"`
}

// Starter is a downloadable starter template.
type Starter struct {
	// Name is the short name users pass on the command line, for example "blank".
	Name string `yaml:"name"`
	// Type is the id of the Type this starter belongs to.
	Type string `yaml:"type"`
	// Description is a one-line summary shown in the template list.
	Description string `yaml:"description"`
	// Archive is an optional explicit archive URL. When empty the catalog
	// base URL is used.
	Archive string `yaml:"archive,omitempty"`
}

// Catalog lists the known types and starters.
type Catalog struct {
	// ArchiveBaseURL is the URL prefix for starters without an explicit archive.
	ArchiveBaseURL string `yaml:"archive_base_url"`
	// DefaultType is the type id used when none is requested.
	DefaultType string `yaml:"default_type"`
	// Types are the known project types.
	Types []Type `yaml:"types"`
	// Starters are the known starter templates.
	Starters []Starter `yaml:"starters"`
}

// FindType returns the type with the given id.
func (c *Catalog) FindType(id string) (*Type, error) {
	for i := range c.Types {
		if c.Types[i].ID == id {
			return &c.Types[i], nil
		}
	}

	return nil, fmt.Errorf("%s: %w", id, ErrUnknownType)
}

// Find returns the starter with the given name for the given type id.
// An empty typeID selects DefaultType.
func (c *Catalog) Find(name, typeID string) (*Starter, error) {
	if typeID == "" {
		typeID = c.DefaultType
	}

	for i := range c.Starters {
		if c.Starters[i].Name == name && c.Starters[i].Type == typeID {
			return &c.Starters[i], nil
		}
	}

	return nil, fmt.Errorf("%s (type %s): %w", name, typeID, ErrUnknownStarter)
}

// ArchiveURL returns the URL to download the starter from.
// Starters without an explicit archive resolve to
// <ArchiveBaseURL>/<type>-official-<name>.tar.gz.
func (c *Catalog) ArchiveURL(s *Starter) (string, error) {
	if s.Archive != "" {
		return s.Archive, nil
	}

	base, err := url.Parse(c.ArchiveBaseURL)
	if err != nil {
		return "", fmt.Errorf("parse archive base url: %w", err)
	}

	base.Path = path.Join("/", strings.TrimSuffix(base.Path, "/"), s.Type+"-official-"+s.Name+".tar.gz")

	return base.String(), nil
}
