// Package project holds the checks and JSON patches run around a template
// extraction: project name and destination validation, package.json
// patching and renaming, and ionic.config.json creation.
package project
